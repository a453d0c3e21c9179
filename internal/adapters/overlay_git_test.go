package adapters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"
)

func newOverlayRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func TestOverlayStageAndCommit(t *testing.T) {
	dir, repo := newOverlayRepo(t)
	path := filepath.Join(dir, "ros-melodic", "foo", "PKGBUILD")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("pkgname='ros-melodic-foo'\n"), 0o644))

	adapter := NewOverlayGitAdapter(dir)
	adapter.Clock = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, adapter.Stage([]string{path}))
	hash, err := adapter.Commit("regenerate recipes for melodic")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	head, err := repo.Head()
	require.NoError(t, err)
	require.Equal(t, hash, head.Hash().String())

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	require.Equal(t, "regenerate recipes for melodic", commit.Message)
	require.Equal(t, "ros-pkgbuild", commit.Author.Name)
}

func TestOverlayRemove(t *testing.T) {
	dir, repo := newOverlayRepo(t)
	path := filepath.Join(dir, "ros-melodic", "foo", "PKGBUILD")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("pkgname='ros-melodic-foo'\n"), 0o644))

	adapter := NewOverlayGitAdapter(dir)
	require.NoError(t, adapter.Stage([]string{path}))
	_, err := adapter.Commit("add recipe")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	require.NoError(t, adapter.Remove([]string{path}))
	_, err = adapter.Commit("drop recipe")
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	status, err := worktree.Status()
	require.NoError(t, err)
	require.True(t, status.IsClean())
}

func TestOverlayNotARepository(t *testing.T) {
	adapter := NewOverlayGitAdapter(t.TempDir())
	err := adapter.Stage([]string{"whatever"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a git repository")
}
