package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanFeenstra/mob/internal/config"
)

func TestDeleteDirectoryNotARepo(t *testing.T) {
	dir := resolveTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0644))
	cfg := config.Default()

	require.NoError(t, DeleteDirectory(testCtx(), &cfg, dir))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "directory should be gone")
}

func TestDeleteDirectoryClean(t *testing.T) {
	repo := setupTestRepo(t)
	cfg := config.Default()

	require.NoError(t, DeleteDirectory(testCtx(), &cfg, repo))

	_, err := os.Stat(repo)
	assert.True(t, os.IsNotExist(err), "clean repo should be deleted")
}

func TestDeleteDirectoryUncommittedChanges(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "wip.txt"), []byte("work\n"), 0644))
	cfg := config.Default()

	err := DeleteDirectory(testCtx(), &cfg, repo)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), repo)
	assert.Contains(t, err.Error(), "--ignore-uncommitted-changes")

	// the directory must be left untouched
	_, statErr := os.Stat(filepath.Join(repo, "wip.txt"))
	assert.NoError(t, statErr)
}

func TestDeleteDirectoryStashedChanges(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("changed\n"), 0644))
	runGit(t, repo, "stash", "push", "-m", "wip")
	cfg := config.Default()

	err := DeleteDirectory(testCtx(), &cfg, repo)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "stashed")

	_, statErr := os.Stat(repo)
	assert.NoError(t, statErr)
}

func TestDeleteDirectoryOverride(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "wip.txt"), []byte("work\n"), 0644))

	cfg := config.Default()
	cfg.Global.IgnoreUncommitted = true

	require.NoError(t, DeleteDirectory(testCtx(), &cfg, repo))

	_, err := os.Stat(repo)
	assert.True(t, os.IsNotExist(err), "override should allow the delete")
}

func TestDeleteDirectoryMissing(t *testing.T) {
	cfg := config.Default()
	dir := filepath.Join(resolveTempDir(t), "never-created")

	assert.NoError(t, DeleteDirectory(testCtx(), &cfg, dir))
}
