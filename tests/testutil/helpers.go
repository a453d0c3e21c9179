// Package testutil provides shared test helpers used across the
// integration and e2e test packages.
package testutil

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// ServeRosdistro serves the rosdistro fixtures in fixtureDir over an
// httptest server. The committed index fixture references its cache
// files through the __SERVER__ placeholder, which is substituted with
// the server's own URL at request time; *.yaml.gz requests are served
// by gzipping the matching plain-yaml fixture on the fly so the
// fixtures stay reviewable as text.
func ServeRosdistro(t *testing.T, fixtureDir string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/index-v4.yaml", func(w http.ResponseWriter, _ *http.Request) {
		raw, err := os.ReadFile(filepath.Join(fixtureDir, "index-v4.yaml"))
		require.NoError(t, err)
		_, _ = w.Write(bytes.ReplaceAll(raw, []byte("__SERVER__"), []byte(server.URL)))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if !strings.HasSuffix(name, ".yaml.gz") {
			http.NotFound(w, r)
			return
		}
		raw, err := os.ReadFile(filepath.Join(fixtureDir, strings.TrimSuffix(name, ".gz")))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		zw := gzip.NewWriter(w)
		_, err = zw.Write(raw)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	})
	return server
}
