package adapters

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"ros-pkgbuild/internal/types"
)

const cacheYAML = `type: cache
version: 2
distribution_file:
  - repositories:
      foo_repo:
        release:
          url: https://github.com/example-release/foo.git
          version: 1.2.3-1
          packages: [foo, foo_msgs]
          tags:
            release: release/{distro}/{package}/{version}
      solo:
        release:
          url: https://github.com/example-release/solo.git
          version: 0.1.0-1
          tags:
            release: release/{distro}/{package}/{version}
release_package_xmls:
  foo: "<package><name>foo</name></package>"
`

func newDistroServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/index-v4.yaml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `type: index
version: 4
distributions:
  melodic:
    distribution_cache: %s/melodic-cache.yaml.gz
    distribution_type: ros1
  jazzy:
    distribution_type: ros2
`, server.URL)
	})
	mux.HandleFunc("/melodic-cache.yaml.gz", func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(cacheYAML))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		_, _ = w.Write(buf.Bytes())
	})
	return server
}

func TestIndex(t *testing.T) {
	server := newDistroServer(t)
	adapter := NewDistroSourceAdapter(server.URL+"/index-v4.yaml", "")

	index, err := adapter.Index(context.Background())
	require.NoError(t, err)
	require.Len(t, index.Distributions, 2)
	require.Equal(t, types.DistributionTypeRos1, index.Distributions["melodic"].DistributionType)
	require.Equal(t, types.DistributionTypeRos2, index.Distributions["jazzy"].DistributionType)
}

func TestDistribution(t *testing.T) {
	server := newDistroServer(t)
	adapter := NewDistroSourceAdapter(server.URL+"/index-v4.yaml", "")

	dist, err := adapter.Distribution(context.Background(), "melodic")
	require.NoError(t, err)
	require.Equal(t, "melodic", dist.Name)
	require.False(t, dist.IsRos2)

	require.True(t, dist.HasPackage("foo"))
	require.True(t, dist.HasPackage("foo_msgs"))
	// A repository without an explicit package list releases itself.
	require.True(t, dist.HasPackage("solo"))
	require.False(t, dist.HasPackage("bar"))

	repo, ok := dist.ReleaseFor("foo_msgs")
	require.True(t, ok)
	require.Equal(t, "1.2.3-1", repo.Version)

	xml, ok := dist.PackageXML("foo")
	require.True(t, ok)
	require.Contains(t, xml, "<name>foo</name>")

	require.Equal(t, []string{"foo", "foo_msgs", "solo"}, dist.PackageNames())
}

func TestDistributionUnknown(t *testing.T) {
	server := newDistroServer(t)
	adapter := NewDistroSourceAdapter(server.URL+"/index-v4.yaml", "")

	_, err := adapter.Distribution(context.Background(), "hydro")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown distribution")
}

func TestDistributionWithoutCacheReference(t *testing.T) {
	server := newDistroServer(t)
	adapter := NewDistroSourceAdapter(server.URL+"/index-v4.yaml", "")

	_, err := adapter.Distribution(context.Background(), "jazzy")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no cache reference")
}

func TestFetchUsesDiskCache(t *testing.T) {
	server := newDistroServer(t)
	cacheDir := t.TempDir()
	adapter := NewDistroSourceAdapter(server.URL+"/index-v4.yaml", cacheDir)

	_, err := adapter.Distribution(context.Background(), "melodic")
	require.NoError(t, err)

	// With the downloads cached on disk the server is no longer needed.
	server.Close()
	dist, err := adapter.Distribution(context.Background(), "melodic")
	require.NoError(t, err)
	require.True(t, dist.HasPackage("foo"))
}

func TestFetchNotFoundIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	adapter := NewDistroSourceAdapter(server.URL+"/index-v4.yaml", "")

	_, err := adapter.Index(context.Background())
	require.Error(t, err)
}
