package gitcmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanFeenstra/mob/internal/logx"
	"github.com/JonathanFeenstra/mob/internal/proc"
)

func TestBinaryDefaults(t *testing.T) {
	var b Builder
	assert.Equal(t, "git", b.Init("/repo").Binary)

	b = Builder{Bin: "/opt/git/bin/git"}
	assert.Equal(t, "/opt/git/bin/git", b.Init("/repo").Binary)
}

func TestPromptsAlwaysDisabled(t *testing.T) {
	var b Builder

	invocations := []proc.Invocation{
		b.Init("/repo"),
		b.Clone("/repo", "url", "main", false),
		b.Pull("/repo", "url", "main"),
		b.Fetch("/repo", "origin", "main"),
		b.IsRepo("/repo"),
		b.RemoteBranchExists("url", "main"),
		b.HasUncommittedChanges("/repo"),
	}

	for _, inv := range invocations {
		assert.Equal(t, "never", inv.Env["GCM_INTERACTIVE"], "args: %v", inv.Args)
		assert.Equal(t, "0", inv.Env["GIT_TERMINAL_PROMPT"], "args: %v", inv.Args)
	}
}

func TestClone(t *testing.T) {
	var b Builder

	inv := b.Clone("/src/repo", "git@github.com:org/repo.git", "master", false)
	assert.Equal(t, []string{
		"clone", "--recurse-submodules",
		"--branch", "master",
		"--quiet",
		"-c", "advice.detachedHead=false",
		"git@github.com:org/repo.git",
		"/src/repo",
	}, inv.Args)
	assert.Empty(t, inv.Dir, "clone runs outside the target directory")
	assert.Equal(t, logx.LevelTrace, inv.StderrLevel)
}

func TestCloneShallow(t *testing.T) {
	var b Builder

	inv := b.Clone("/src/repo", "url", "master", true)
	assert.Contains(t, inv.Args, "--depth")

	require.Greater(t, len(inv.Args), 3)
	assert.Equal(t, []string{"--depth", "1"}, inv.Args[2:4])
}

func TestCloneVerboseKeepsProgress(t *testing.T) {
	b := Builder{Verbose: true}

	inv := b.Clone("/src/repo", "url", "master", false)
	assert.NotContains(t, inv.Args, "--quiet")
	assert.Equal(t, logx.LevelTrace, inv.StderrLevel)

	inv = b.Pull("/src/repo", "url", "master")
	assert.Equal(t, []string{"pull", "--recurse-submodules", "url", "master"}, inv.Args)
}

func TestCloneDeterministic(t *testing.T) {
	var b Builder

	a := b.Clone("/src/repo", "url", "master", true)
	c := b.Clone("/src/repo", "url", "master", true)
	assert.Equal(t, a.Args, c.Args)
	assert.Equal(t, a.Env, c.Env)
	assert.Equal(t, a.Dir, c.Dir)
}

func TestPull(t *testing.T) {
	var b Builder

	inv := b.Pull("/src/repo", "url", "master")
	assert.Equal(t, []string{"pull", "--recurse-submodules", "--quiet", "url", "master"}, inv.Args)
	assert.Equal(t, "/src/repo", inv.Dir)
}

func TestCheckoutSuppressesDetachedHeadAdvice(t *testing.T) {
	var b Builder

	inv := b.Checkout("/repo", "v2.5.0")
	assert.Equal(t, []string{"-c", "advice.detachedHead=false", "checkout", "-q", "v2.5.0"}, inv.Args)
}

func TestProbesTolerateFailure(t *testing.T) {
	var b Builder

	probes := []proc.Invocation{
		b.IsRepo("/repo"),
		b.IsTracked("/repo", "file.ts"),
		b.HasRemote("/repo", "upstream"),
		b.HasStashedChanges("/repo"),
		b.HasUncommittedChanges("/repo"),
		b.RemoteBranchExists("url", "main"),
	}

	for _, inv := range probes {
		assert.True(t, inv.AllowFailure, "args: %v", inv.Args)
	}
}

func TestIsRepoDowngradesKnownNoise(t *testing.T) {
	var b Builder

	inv := b.IsRepo("/repo")
	require.NotNil(t, inv.StderrFilter)

	lv := inv.StderrFilter("fatal: not a git repository (or any of the parent directories): .git")
	assert.Equal(t, logx.LevelTrace, lv)

	lv = inv.StderrFilter("fatal: something else went wrong")
	assert.Equal(t, logx.LevelError, lv)
}

func TestCapturingCommands(t *testing.T) {
	var b Builder

	assert.True(t, b.CurrentBranch("/repo").CaptureStdout)
	assert.True(t, b.RemoteURL("/repo").CaptureStdout)
	assert.True(t, b.HasUncommittedChanges("/repo").CaptureStdout)
	assert.False(t, b.Pull("/repo", "url", "main").CaptureStdout)
}

func TestSetAssumeUnchanged(t *testing.T) {
	var b Builder

	on := b.SetAssumeUnchanged("/repo", "translations/app_en.ts", true)
	assert.Equal(t, []string{"update-index", "--assume-unchanged", "translations/app_en.ts"}, on.Args)

	off := b.SetAssumeUnchanged("/repo", "translations/app_en.ts", false)
	assert.Equal(t, []string{"update-index", "--no-assume-unchanged", "translations/app_en.ts"}, off.Args)
}

func TestApplyFeedsDiffOnStdin(t *testing.T) {
	var b Builder

	inv := b.Apply("/repo", "--- a/x\n+++ b/x\n")
	assert.Equal(t, []string{"apply", "--whitespace", "nowarn", "-"}, inv.Args)
	assert.Equal(t, "--- a/x\n+++ b/x\n", inv.Stdin)
}

func TestAddSubmodule(t *testing.T) {
	var b Builder

	inv := b.AddSubmodule("/repo", "main", "game_features", "git@github.com:org/game_features.git")
	assert.Equal(t, []string{
		"-c", "core.autocrlf=false",
		"submodule", "--quiet", "add",
		"-b", "main",
		"--force",
		"--name", "game_features",
		"git@github.com:org/game_features.git",
		"game_features",
	}, inv.Args)
}

func TestRemoteCommands(t *testing.T) {
	var b Builder

	assert.Equal(t, []string{"remote", "rename", "origin", "upstream"},
		b.RenameRemote("/repo", "origin", "upstream").Args)
	assert.Equal(t, []string{"remote", "add", "origin", "git@github.com:org/x.git"},
		b.AddRemote("/repo", "origin", "git@github.com:org/x.git").Args)
	assert.Equal(t, []string{"remote", "set-url", "--push", "upstream", "nopushurl"},
		b.SetRemotePush("/repo", "upstream", "nopushurl").Args)
	assert.Equal(t, []string{"config", "remote.upstream.url"},
		b.HasRemote("/repo", "upstream").Args)
}

func TestRemoteBranchExistsHasNoWorkingDirectory(t *testing.T) {
	var b Builder

	inv := b.RemoteBranchExists("git@github.com:org/x.git", "release")
	assert.Equal(t, []string{"ls-remote", "--exit-code", "--heads", "git@github.com:org/x.git", "release"}, inv.Args)
	assert.Empty(t, inv.Dir)
}
