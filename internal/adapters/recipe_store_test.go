package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const storedRecipe = `# Script generated with ros-pkgbuild
pkgname='ros-melodic-foo'
pkgver=1.2.3
arch=('any')
pkgrel=4
`

func TestWriteAndExistingVersion(t *testing.T) {
	store := NewRecipeStoreAdapter(t.TempDir())

	path, err := store.Write("melodic", "foo", storedRecipe)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(store.Dir, "ros-melodic", "foo", "PKGBUILD"), path)

	version, found, err := store.ExistingVersion("melodic", "foo")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1.2.3-r4", version)
}

func TestExistingVersionAbsent(t *testing.T) {
	store := NewRecipeStoreAdapter(t.TempDir())

	_, found, err := store.ExistingVersion("melodic", "ghost")
	require.NoError(t, err)
	require.False(t, found)
}

func TestExistingVersionUnparseable(t *testing.T) {
	store := NewRecipeStoreAdapter(t.TempDir())
	_, err := store.Write("melodic", "foo", "# not a recipe\n")
	require.NoError(t, err)

	_, found, err := store.ExistingVersion("melodic", "foo")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRemoveExisting(t *testing.T) {
	store := NewRecipeStoreAdapter(t.TempDir())
	path, err := store.Write("melodic", "foo", storedRecipe)
	require.NoError(t, err)

	removed, err := store.RemoveExisting("melodic", "foo")
	require.NoError(t, err)
	require.Equal(t, []string{path}, removed)
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// Removing again is a no-op.
	removed, err = store.RemoveExisting("melodic", "foo")
	require.NoError(t, err)
	require.Empty(t, removed)
}

func TestPatchFiles(t *testing.T) {
	store := NewRecipeStoreAdapter(t.TempDir())
	filesDir := filepath.Join(store.Dir, "ros-melodic", "foo", "files")
	require.NoError(t, os.MkdirAll(filesDir, 0755))
	patch := filepath.Join(filesDir, "fix-build.patch")
	require.NoError(t, os.WriteFile(patch, []byte("--- a\n+++ b\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(filesDir, "README"), []byte("not a patch"), 0644))

	patches, err := store.PatchFiles("melodic", "foo")
	require.NoError(t, err)
	require.Equal(t, []string{patch}, patches)

	patches, err = store.PatchFiles("melodic", "bar")
	require.NoError(t, err)
	require.Empty(t, patches)
}
