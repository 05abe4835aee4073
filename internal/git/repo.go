package git

import (
	"context"
	"errors"
	"strings"

	"github.com/JonathanFeenstra/mob/internal/gitcmd"
	"github.com/JonathanFeenstra/mob/internal/logx"
	"github.com/JonathanFeenstra/mob/internal/proc"
)

// Runner lets a tool own the execution of git processes so that their
// output is attributed to the task running the tool. A nil runner runs
// processes directly.
type Runner interface {
	Execute(ctx context.Context, inv proc.Invocation) (proc.Result, error)
}

// Repo wraps git commands against one working tree, composing them
// into safety-checked domain operations. It owns no OS resources;
// every operation spawns a fresh process.
type Repo struct {
	root   string
	cmd    gitcmd.Builder
	runner Runner
}

// New creates a repo wrapper for the working tree at root.
func New(root string) *Repo {
	return &Repo{root: root}
}

// Binary sets the git binary to use; defaults to "git" from PATH.
func (r *Repo) Binary(bin string) *Repo {
	r.cmd.Bin = bin
	return r
}

// Runner sets the runner git processes are forwarded through.
func (r *Repo) Runner(run Runner) *Repo {
	r.runner = run
	return r
}

// Root returns the working tree path.
func (r *Repo) Root() string {
	return r.root
}

func (r *Repo) run(ctx context.Context, inv proc.Invocation) (proc.Result, error) {
	if r.runner != nil {
		return r.runner.Execute(ctx, inv)
	}
	return proc.Run(ctx, inv)
}

// builder derives a command builder for ctx. When the logger runs at
// trace level the quiet flags are dropped so clone and pull progress
// shows up in the log.
func (r *Repo) builder(ctx context.Context) gitcmd.Builder {
	b := r.cmd
	b.Verbose = logx.FromContext(ctx).Enabled(logx.LevelTrace)
	return b
}

// Clone clones url at the given branch into the root directory.
func (r *Repo) Clone(ctx context.Context, url, branch string, shallow bool) error {
	_, err := r.run(ctx, r.builder(ctx).Clone(r.root, url, branch, shallow))
	return err
}

// Pull pulls branch from url into the root directory.
func (r *Repo) Pull(ctx context.Context, url, branch string) error {
	_, err := r.run(ctx, r.builder(ctx).Pull(r.root, url, branch))
	return err
}

// InitRepo runs `git init` in the root directory.
func (r *Repo) InitRepo(ctx context.Context) error {
	_, err := r.run(ctx, r.cmd.Init(r.root))
	return err
}

// ApplyDiff applies the given diff, fed to `git apply` on stdin. Used
// to apply PR diffs downloaded from github.
func (r *Repo) ApplyDiff(ctx context.Context, diff string) error {
	_, err := r.run(ctx, r.cmd.Apply(r.root, diff))
	return err
}

// Fetch fetches branch from the named remote.
func (r *Repo) Fetch(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, r.cmd.Fetch(r.root, remote, branch))
	return err
}

// Checkout checks out the given ref.
func (r *Repo) Checkout(ctx context.Context, what string) error {
	_, err := r.run(ctx, r.cmd.Checkout(r.root, what))
	return err
}

// SetConfig runs `git config key value`.
func (r *Repo) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.run(ctx, r.cmd.SetConfig(r.root, key, value))
	return err
}

// SetCredentials sets user.name and user.email; empty values are
// skipped.
func (r *Repo) SetCredentials(ctx context.Context, username, email string) error {
	logx.FromContext(ctx).Debugf("setting up credentials")

	if username != "" {
		if err := r.SetConfig(ctx, "user.name", username); err != nil {
			return err
		}
	}
	if email != "" {
		if err := r.SetConfig(ctx, "user.email", email); err != nil {
			return err
		}
	}
	return nil
}

// AddSubmodule runs `git submodule add` for the given submodule.
func (r *Repo) AddSubmodule(ctx context.Context, branch, submodule, url string) error {
	_, err := r.run(ctx, r.cmd.AddSubmodule(r.root, branch, submodule, url))
	return err
}

// SetAssumeUnchanged toggles the assume-unchanged index flag on the
// given file, relative to the root.
func (r *Repo) SetAssumeUnchanged(ctx context.Context, file string, on bool) error {
	_, err := r.run(ctx, r.cmd.SetAssumeUnchanged(r.root, file, on))
	return err
}

// IsTracked reports whether the given file is known to git. An
// untracked file is a valid outcome, not an error.
func (r *Repo) IsTracked(ctx context.Context, file string) (bool, error) {
	res, err := r.run(ctx, r.cmd.IsTracked(r.root, file))
	if err != nil {
		return false, err
	}
	return res.Code == 0, nil
}

// IsRepo reports whether the root directory is a valid git repository.
func (r *Repo) IsRepo(ctx context.Context) (bool, error) {
	res, err := r.run(ctx, r.cmd.IsRepo(r.root))
	if err != nil {
		return false, err
	}
	return res.Code == 0, nil
}

// CurrentBranch returns the name of the active branch.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	res, err := r.run(ctx, r.cmd.CurrentBranch(r.root))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// HasUncommittedChanges reports whether the working tree is dirty.
func (r *Repo) HasUncommittedChanges(ctx context.Context) (bool, error) {
	res, err := r.run(ctx, r.cmd.HasUncommittedChanges(r.root))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// HasStashedChanges reports whether the repo has stashed changes.
func (r *Repo) HasStashedChanges(ctx context.Context) (bool, error) {
	res, err := r.run(ctx, r.cmd.HasStashedChanges(r.root))
	if err != nil {
		return false, err
	}
	return res.Code == 0, nil
}

// GitFile returns the git file used by the origin remote, such as
// "modorganizer.git". Fails fatally when the remote URL cannot be
// parsed.
func (r *Repo) GitFile(ctx context.Context) (string, error) {
	res, err := r.run(ctx, r.cmd.RemoteURL(r.root))
	if err != nil {
		return "", err
	}
	return gitFileFromURL(res.Stdout)
}

// gitFileFromURL extracts the trailing path component from a remote
// URL.
func gitFileFromURL(out string) (string, error) {
	if strings.TrimSpace(out) == "" {
		return "", &FatalError{Op: "git-file", Err: errors.New("empty remote url")}
	}

	slash := strings.LastIndex(out, "/")
	if slash < 0 {
		return "", &FatalError{
			Op:   "git-file",
			Path: strings.TrimSpace(out),
			Err:  errors.New("bad get-url output"),
		}
	}

	s := strings.TrimSpace(out[slash+1:])
	if s == "" {
		return "", &FatalError{
			Op:   "git-file",
			Path: strings.TrimSpace(out),
			Err:  errors.New("bad get-url output"),
		}
	}

	return s, nil
}
