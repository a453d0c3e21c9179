package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ros-pkgbuild/internal/types"
)

func TestSourceArchive(t *testing.T) {
	adapter := NewArchiveResolverAdapter()
	repo := types.ReleaseRepository{
		URL:     "https://github.com/example-release/foo.git",
		Version: "1.2.3-1",
		Tags:    types.ReleaseTags{Release: "release/{distro}/{package}/{version}"},
	}

	uri, err := adapter.SourceArchive("foo", repo, "melodic")
	require.NoError(t, err)
	require.Equal(t, "https://github.com/example-release/foo/archive/release/melodic/foo/1.2.3-1.tar.gz", uri)
}

func TestSourceArchiveWithoutGitSuffix(t *testing.T) {
	adapter := NewArchiveResolverAdapter()
	repo := types.ReleaseRepository{
		URL:     "https://github.com/example-release/foo",
		Version: "2.0.0-2",
		Tags:    types.ReleaseTags{Release: "{package}-{version}"},
	}

	uri, err := adapter.SourceArchive("foo", repo, "jazzy")
	require.NoError(t, err)
	require.Equal(t, "https://github.com/example-release/foo/archive/foo-2.0.0-2.tar.gz", uri)
}

func TestSourceArchiveMissingFields(t *testing.T) {
	adapter := NewArchiveResolverAdapter()

	_, err := adapter.SourceArchive("foo", types.ReleaseRepository{URL: "https://example.org"}, "melodic")
	require.Error(t, err)

	_, err = adapter.SourceArchive("foo", types.ReleaseRepository{Tags: types.ReleaseTags{Release: "tag"}}, "melodic")
	require.Error(t, err)
}
