// Package tool provides the task-facing git operation objects that the
// build-task lifecycle runs, plus the background submodule adder.
package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonathanFeenstra/mob/internal/git"
	"github.com/JonathanFeenstra/mob/internal/logx"
	"github.com/JonathanFeenstra/mob/internal/proc"
)

// Task is a runnable unit of git work. Both tools in this package
// implement it, as does anything queued on the SubmoduleAdder.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// Op selects what Git.Run does; fixed at construction.
type Op int

const (
	// OpClone clones the repo.
	OpClone Op = iota + 1

	// OpPull pulls the repo.
	OpPull

	// OpCloneOrPull pulls if the repo exists, clones otherwise.
	OpCloneOrPull
)

// Git is the tool tasks use to fetch and update their source trees.
// Configure it with the fluent setters, then call Run once.
type Git struct {
	op Op

	url     string
	root    string
	branch  string
	shallow bool

	ignoreTS bool
	revertTS bool

	credsUsername string
	credsEmail    string

	remoteOrg         string
	remoteKey         string
	noPushUpstream    bool
	pushDefaultOrigin bool

	bin string
}

// NewGit creates a git tool performing the given operation.
func NewGit(op Op) *Git {
	return &Git{op: op}
}

// Name returns the tool name used for log attribution.
func (g *Git) Name() string { return "git" }

// URL sets the url to clone or pull from.
func (g *Git) URL(u string) *Git {
	g.url = u
	return g
}

// Root sets the root directory of the git repo.
func (g *Git) Root(dir string) *Git {
	g.root = dir
	return g
}

// Branch sets the branch to clone or pull.
func (g *Git) Branch(name string) *Git {
	g.branch = name
	return g
}

// Shallow clones with `--depth 1` when set.
func (g *Git) Shallow(b bool) *Git {
	g.shallow = b
	return g
}

// IgnoreTSOnClone marks all .ts files assume-unchanged after cloning.
func (g *Git) IgnoreTSOnClone(b bool) *Git {
	g.ignoreTS = b
	return g
}

// RevertTSOnPull reverts all .ts files before pulling.
func (g *Git) RevertTSOnPull(b bool) *Git {
	g.revertTS = b
	return g
}

// Credentials sets user.name and user.email after cloning.
func (g *Git) Credentials(username, email string) *Git {
	g.credsUsername = username
	g.credsEmail = email
	return g
}

// Remote enables the origin/upstream remote rewrite after cloning.
func (g *Git) Remote(org, key string, noPushUpstream, pushDefaultOrigin bool) *Git {
	g.remoteOrg = org
	g.remoteKey = key
	g.noPushUpstream = noPushUpstream
	g.pushDefaultOrigin = pushDefaultOrigin
	return g
}

// Binary sets the git binary to use.
func (g *Git) Binary(bin string) *Git {
	g.bin = bin
	return g
}

// Execute implements git.Runner: processes spawned by the repo wrapper
// run here so their output is attributed to this tool.
func (g *Git) Execute(ctx context.Context, inv proc.Invocation) (proc.Result, error) {
	ctx = logx.WithLogger(ctx, logx.FromContext(ctx).Named(g.Name()))
	return proc.Run(ctx, inv)
}

func (g *Git) repo() *git.Repo {
	return git.New(g.root).Binary(g.bin).Runner(g)
}

// Run performs the configured operation. URL and root are required;
// anything else is optional.
func (g *Git) Run(ctx context.Context) error {
	if g.url == "" || g.root == "" {
		return &git.FatalError{Op: g.Name(), Path: g.root, Err: git.ErrMissingParams}
	}

	switch g.op {
	case OpClone:
		_, err := g.clone(ctx)
		return err

	case OpPull:
		return g.pull(ctx)

	case OpCloneOrPull:
		cloned, err := g.clone(ctx)
		if err != nil {
			return err
		}
		if !cloned {
			return g.pull(ctx)
		}
		return nil

	default:
		return &git.FatalError{Op: g.Name(), Err: fmt.Errorf("unknown op %d", g.op)}
	}
}

// clone clones the repo and applies the post-clone configuration.
// Returns false without error when the root already holds a clone,
// detected by the .git marker.
func (g *Git) clone(ctx context.Context) (bool, error) {
	dotGit := filepath.Join(g.root, ".git")
	if _, err := os.Stat(dotGit); err == nil {
		logx.FromContext(ctx).Tracef("not cloning, %s exists", dotGit)
		return false, nil
	}

	r := g.repo()

	if err := r.Clone(ctx, g.url, g.branch, g.shallow); err != nil {
		return false, err
	}

	if g.credsUsername != "" || g.credsEmail != "" {
		if err := r.SetCredentials(ctx, g.credsUsername, g.credsEmail); err != nil {
			return false, err
		}
	}

	if g.remoteOrg != "" {
		err := r.SetOriginAndUpstreamRemotes(ctx,
			g.remoteOrg, g.remoteKey, g.noPushUpstream, g.pushDefaultOrigin)
		if err != nil {
			return false, err
		}
	}

	if g.ignoreTS {
		if err := r.IgnoreTS(ctx, true); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (g *Git) pull(ctx context.Context) error {
	r := g.repo()

	if g.revertTS {
		if err := r.RevertTS(ctx); err != nil {
			return err
		}
	}

	return r.Pull(ctx, g.url, g.branch)
}
