package tool

import (
	"context"

	"github.com/JonathanFeenstra/mob/internal/git"
	"github.com/JonathanFeenstra/mob/internal/logx"
	"github.com/JonathanFeenstra/mob/internal/proc"
)

// Submodule adds one submodule to a repo. Instances are not normally
// run directly; they are handed to a SubmoduleAdder, which runs them
// from its own goroutine.
type Submodule struct {
	url       string
	root      string
	branch    string
	submodule string

	bin string
}

// NewSubmodule creates an unconfigured submodule tool.
func NewSubmodule() *Submodule {
	return &Submodule{}
}

// Name returns the tool name used for log attribution.
func (s *Submodule) Name() string { return "git submodule" }

// URL sets the remote url.
func (s *Submodule) URL(u string) *Submodule {
	s.url = u
	return s
}

// Root sets the root directory of the repo.
func (s *Submodule) Root(dir string) *Submodule {
	s.root = dir
	return s
}

// Branch sets the branch name.
func (s *Submodule) Branch(name string) *Submodule {
	s.branch = name
	return s
}

// Submodule sets the submodule name.
func (s *Submodule) Submodule(name string) *Submodule {
	s.submodule = name
	return s
}

// SubmoduleName returns the configured submodule name.
func (s *Submodule) SubmoduleName() string { return s.submodule }

// Binary sets the git binary to use.
func (s *Submodule) Binary(bin string) *Submodule {
	s.bin = bin
	return s
}

// Execute implements git.Runner.
func (s *Submodule) Execute(ctx context.Context, inv proc.Invocation) (proc.Result, error) {
	ctx = logx.WithLogger(ctx, logx.FromContext(ctx).Named(s.Name()))
	return proc.Run(ctx, inv)
}

// Run adds the submodule to the repo at root.
func (s *Submodule) Run(ctx context.Context) error {
	return git.New(s.root).Binary(s.bin).Runner(s).
		AddSubmodule(ctx, s.branch, s.submodule, s.url)
}
