// Package gitcmd builds process invocations for individual git
// subcommands. Builders are pure: they perform no I/O and the same
// inputs always produce the same invocation.
package gitcmd

import (
	"path/filepath"
	"strings"

	"github.com/JonathanFeenstra/mob/internal/logx"
	"github.com/JonathanFeenstra/mob/internal/proc"
)

// Builder constructs invocations for a particular git binary.
// The zero value uses "git" from PATH.
type Builder struct {
	Bin string

	// Verbose drops the --quiet flag from clone and pull so git's
	// progress output reaches the log, where it is routed at trace
	// level.
	Verbose bool
}

func (b Builder) bin() string {
	if b.Bin == "" {
		return "git"
	}
	return b.Bin
}

// base returns the invocation skeleton shared by every git command.
// Credential-manager UI and terminal prompts are disabled so no git
// operation can ever block on interactive input.
func (b Builder) base() proc.Invocation {
	return proc.Invocation{
		Binary: b.bin(),
		Env: map[string]string{
			"GCM_INTERACTIVE":     "never",
			"GIT_TERMINAL_PROMPT": "0",
		},
		StdoutLevel: logx.LevelDebug,
		StderrLevel: logx.LevelError,
	}
}

// Init builds `git init` in root.
func (b Builder) Init(root string) proc.Invocation {
	inv := b.base()
	inv.Args = []string{"init"}
	inv.Dir = root
	return inv
}

// SetConfig builds `git config key value` in root.
func (b Builder) SetConfig(root, key, value string) proc.Invocation {
	inv := b.base()
	inv.StderrLevel = logx.LevelTrace
	inv.Args = []string{"config", key, value}
	inv.Dir = root
	return inv
}

// Apply builds `git apply` fed with diff on stdin.
func (b Builder) Apply(root, diff string) proc.Invocation {
	inv := b.base()
	inv.Stdin = diff
	inv.Args = []string{"apply", "--whitespace", "nowarn", "-"}
	inv.Dir = root
	return inv
}

// Fetch builds `git fetch -q remote branch` in root.
func (b Builder) Fetch(root, remote, branch string) proc.Invocation {
	inv := b.base()
	inv.Args = []string{"fetch", "-q", remote, branch}
	inv.Dir = root
	return inv
}

// Checkout builds `git checkout -q what`, suppressing the detached
// HEAD advisory.
func (b Builder) Checkout(root, what string) proc.Invocation {
	inv := b.base()
	inv.Args = []string{"-c", "advice.detachedHead=false", "checkout", "-q", what}
	inv.Dir = root
	return inv
}

// Revert builds `git checkout file` to discard local modifications.
func (b Builder) Revert(root, file string) proc.Invocation {
	inv := b.base()
	inv.StderrLevel = logx.LevelTrace
	inv.Args = []string{"checkout", file}
	inv.Dir = root
	return inv
}

// CurrentBranch builds `git branch --show-current`, capturing stdout.
func (b Builder) CurrentBranch(root string) proc.Invocation {
	inv := b.base()
	inv.CaptureStdout = true
	inv.Args = []string{"branch", "--show-current"}
	inv.Dir = root
	return inv
}

// AddSubmodule builds `git submodule add` for the given submodule.
func (b Builder) AddSubmodule(root, branch, submodule, url string) proc.Invocation {
	inv := b.base()
	inv.StderrLevel = logx.LevelTrace
	inv.Args = []string{
		"-c", "core.autocrlf=false",
		"submodule", "--quiet", "add",
		"-b", branch,
		"--force",
		"--name", submodule,
		url,
		submodule,
	}
	inv.Dir = root
	return inv
}

// Clone builds `git clone` into root, recursing into submodules and
// truncating history to a depth of 1 when shallow is requested. Quiet
// unless the builder is verbose.
func (b Builder) Clone(root, url, branch string, shallow bool) proc.Invocation {
	inv := b.base()
	inv.StderrLevel = logx.LevelTrace
	inv.Args = []string{"clone", "--recurse-submodules"}
	if shallow {
		inv.Args = append(inv.Args, "--depth", "1")
	}
	inv.Args = append(inv.Args, "--branch", branch)
	if !b.Verbose {
		inv.Args = append(inv.Args, "--quiet")
	}
	inv.Args = append(inv.Args,
		"-c", "advice.detachedHead=false",
		url,
		root,
	)
	return inv
}

// Pull builds `git pull` from url/branch in root. Quiet unless the
// builder is verbose.
func (b Builder) Pull(root, url, branch string) proc.Invocation {
	inv := b.base()
	inv.StderrLevel = logx.LevelTrace
	inv.Args = []string{"pull", "--recurse-submodules"}
	if !b.Verbose {
		inv.Args = append(inv.Args, "--quiet")
	}
	inv.Args = append(inv.Args, url, branch)
	inv.Dir = root
	return inv
}

// HasRemote builds a probe for the remote's url config entry. Absence
// is signaled by the exit code, not an error.
func (b Builder) HasRemote(root, name string) proc.Invocation {
	inv := b.base()
	inv.AllowFailure = true
	inv.StderrLevel = logx.LevelDebug
	inv.Args = []string{"config", "remote." + name + ".url"}
	inv.Dir = root
	return inv
}

// RenameRemote builds `git remote rename from to` in root.
func (b Builder) RenameRemote(root, from, to string) proc.Invocation {
	inv := b.base()
	inv.Args = []string{"remote", "rename", from, to}
	inv.Dir = root
	return inv
}

// AddRemote builds `git remote add name url` in root.
func (b Builder) AddRemote(root, name, url string) proc.Invocation {
	inv := b.base()
	inv.Args = []string{"remote", "add", name, url}
	inv.Dir = root
	return inv
}

// SetRemotePush builds `git remote set-url --push remote url` in root.
func (b Builder) SetRemotePush(root, remote, url string) proc.Invocation {
	inv := b.base()
	inv.Args = []string{"remote", "set-url", "--push", remote, url}
	inv.Dir = root
	return inv
}

// SetAssumeUnchanged toggles the assume-unchanged index flag on file.
func (b Builder) SetAssumeUnchanged(root, file string, on bool) proc.Invocation {
	flag := "--no-assume-unchanged"
	if on {
		flag = "--assume-unchanged"
	}
	inv := b.base()
	inv.Args = []string{"update-index", flag, filepath.ToSlash(file)}
	inv.Dir = root
	return inv
}

// IsTracked builds a probe for whether file is known to git. A
// nonzero exit means "not tracked", which is a valid outcome.
func (b Builder) IsTracked(root, file string) proc.Invocation {
	inv := b.base()
	inv.AllowFailure = true
	inv.StdoutLevel = logx.LevelDebug
	inv.StderrLevel = logx.LevelDebug
	inv.Args = []string{"ls-files", "--error-unmatch", filepath.ToSlash(file)}
	inv.Dir = root
	return inv
}

// IsRepo builds a probe for whether root is inside a git work tree.
// The "not a git repository" stderr line is reclassified to trace so
// routine probing does not read as an error in logs.
func (b Builder) IsRepo(root string) proc.Invocation {
	inv := b.base()
	inv.AllowFailure = true
	inv.StderrFilter = func(line string) logx.Level {
		if strings.Contains(line, "not a git repo") {
			return logx.LevelTrace
		}
		return inv.StderrLevel
	}
	inv.Args = []string{"rev-parse", "--is-inside-work-tree"}
	inv.Dir = root
	return inv
}

// RemoteBranchExists builds `git ls-remote` probing for branch at url.
// Runs against no local work tree; existence is in the exit code.
func (b Builder) RemoteBranchExists(url, branch string) proc.Invocation {
	inv := b.base()
	inv.AllowFailure = true
	inv.Args = []string{"ls-remote", "--exit-code", "--heads", url, branch}
	return inv
}

// HasUncommittedChanges builds `git status --porcelain`, capturing
// stdout; any output means the tree is dirty.
func (b Builder) HasUncommittedChanges(root string) proc.Invocation {
	inv := b.base()
	inv.AllowFailure = true
	inv.CaptureStdout = true
	inv.Args = []string{"status", "-s", "--porcelain"}
	inv.Dir = root
	return inv
}

// HasStashedChanges builds `git stash show`; a zero exit means a stash
// entry exists.
func (b Builder) HasStashedChanges(root string) proc.Invocation {
	inv := b.base()
	inv.AllowFailure = true
	inv.StderrLevel = logx.LevelTrace
	inv.Args = []string{"stash", "show"}
	inv.Dir = root
	return inv
}

// RemoteURL builds `git remote get-url origin`, capturing stdout.
func (b Builder) RemoteURL(root string) proc.Invocation {
	inv := b.base()
	inv.CaptureStdout = true
	inv.Args = []string{"remote", "get-url", "origin"}
	inv.Dir = root
	return inv
}
