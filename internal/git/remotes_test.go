package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listRemotes(t *testing.T, repo string) []string {
	t.Helper()
	out := gitOutput(t, repo, "remote")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestHasRemote(t *testing.T) {
	repo := setupTestRepo(t)
	r := New(repo)

	has, err := r.HasRemote(testCtx(), "origin")
	require.NoError(t, err)
	assert.False(t, has)

	runGit(t, repo, "remote", "add", "origin", "git@github.com:org/project.git")

	has, err = r.HasRemote(testCtx(), "origin")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestAddRemote(t *testing.T) {
	repo := setupTestRepo(t)
	runGit(t, repo, "remote", "add", "origin", "git@github.com:upstream-org/project.git")
	r := New(repo)

	err := r.AddRemote(testCtx(), RemoteSpec{
		Name:        "fork",
		Org:         "myfork",
		Key:         "/keys/fork.ppk",
		PushDefault: true,
	})
	require.NoError(t, err)

	// git file resolved from the existing origin remote
	assert.Equal(t, "git@github.com:myfork/project.git",
		gitOutput(t, repo, "remote", "get-url", "fork"))
	assert.Equal(t, "fork", gitOutput(t, repo, "config", "remote.pushdefault"))
	assert.Equal(t, "/keys/fork.ppk", gitOutput(t, repo, "config", "remote.fork.puttykeyfile"))
}

func TestAddRemoteAlreadyExists(t *testing.T) {
	repo := setupTestRepo(t)
	runGit(t, repo, "remote", "add", "fork", "git@github.com:somewhere/else.git")
	r := New(repo)

	err := r.AddRemote(testCtx(), RemoteSpec{
		Name:    "fork",
		Org:     "myfork",
		GitFile: "project.git",
	})
	require.NoError(t, err)

	// untouched
	assert.Equal(t, "git@github.com:somewhere/else.git",
		gitOutput(t, repo, "remote", "get-url", "fork"))
}

func TestAddRemoteCustomURLPattern(t *testing.T) {
	repo := setupTestRepo(t)
	r := New(repo)

	err := r.AddRemote(testCtx(), RemoteSpec{
		Name:       "mirror",
		Org:        "mirrors",
		URLPattern: "https://gitlab.example.com/%s/%s",
		GitFile:    "project.git",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.example.com/mirrors/project.git",
		gitOutput(t, repo, "remote", "get-url", "mirror"))
}

func TestSetOriginAndUpstreamRemotes(t *testing.T) {
	repo := setupTestRepo(t)
	runGit(t, repo, "remote", "add", "origin", "git@github.com:upstream-org/modorganizer.git")
	r := New(repo)

	err := r.SetOriginAndUpstreamRemotes(testCtx(), "myfork", "", true, true)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"origin", "upstream"}, listRemotes(t, repo))
	assert.Equal(t, "git@github.com:upstream-org/modorganizer.git",
		gitOutput(t, repo, "remote", "get-url", "upstream"))
	assert.Equal(t, "nopushurl",
		gitOutput(t, repo, "remote", "get-url", "--push", "upstream"))
	assert.Equal(t, "git@github.com:myfork/modorganizer.git",
		gitOutput(t, repo, "remote", "get-url", "origin"))
	assert.Equal(t, "origin", gitOutput(t, repo, "config", "remote.pushdefault"))
}

func TestSetOriginAndUpstreamRemotesIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	runGit(t, repo, "remote", "add", "origin", "git@github.com:upstream-org/modorganizer.git")
	r := New(repo)

	require.NoError(t, r.SetOriginAndUpstreamRemotes(testCtx(), "myfork", "", false, false))
	require.NoError(t, r.SetOriginAndUpstreamRemotes(testCtx(), "myfork", "", false, false))

	remotes := listRemotes(t, repo)
	assert.ElementsMatch(t, []string{"origin", "upstream"}, remotes)

	upstreams := 0
	for _, name := range remotes {
		if name == "upstream" {
			upstreams++
		}
	}
	assert.Equal(t, 1, upstreams)
}

func TestRenameRemote(t *testing.T) {
	repo := setupTestRepo(t)
	runGit(t, repo, "remote", "add", "origin", "git@github.com:org/project.git")
	r := New(repo)

	require.NoError(t, r.RenameRemote(testCtx(), "origin", "upstream"))

	assert.ElementsMatch(t, []string{"upstream"}, listRemotes(t, repo))
}
