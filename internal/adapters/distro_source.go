package adapters

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"ros-pkgbuild/internal/shared"
	"ros-pkgbuild/internal/types"
)

// DefaultIndexURL points at the upstream rosdistro index.
const DefaultIndexURL = "https://raw.githubusercontent.com/ros/rosdistro/master/index-v4.yaml"

// DistroSourceAdapter fetches the rosdistro index and distribution cache
// documents over HTTP, with bounded retry and an optional on-disk cache.
type DistroSourceAdapter struct {
	IndexURL string
	CacheDir string
	Client   *http.Client
}

func NewDistroSourceAdapter(indexURL string, cacheDir string) *DistroSourceAdapter {
	if indexURL == "" {
		indexURL = DefaultIndexURL
	}
	return &DistroSourceAdapter{
		IndexURL: indexURL,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *DistroSourceAdapter) Index(ctx context.Context) (types.Index, error) {
	data, err := a.fetch(ctx, a.IndexURL)
	if err != nil {
		return types.Index{}, err
	}
	var index types.Index
	if err := yaml.Unmarshal(data, &index); err != nil {
		return types.Index{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse distribution index").
			WithCause(err)
	}
	return index, nil
}

func (a *DistroSourceAdapter) Distribution(ctx context.Context, name string) (types.Distribution, error) {
	index, err := a.Index(ctx)
	if err != nil {
		return types.Distribution{}, err
	}
	entry, ok := index.Distributions[name]
	if !ok {
		return types.Distribution{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown distribution %q", name))
	}
	if entry.DistributionCache == "" {
		return types.Distribution{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("distribution %q has no cache reference", name))
	}
	data, err := a.fetch(ctx, entry.DistributionCache)
	if err != nil {
		return types.Distribution{}, err
	}
	if strings.HasSuffix(entry.DistributionCache, ".gz") {
		data, err = gunzip(data)
		if err != nil {
			return types.Distribution{}, err
		}
	}
	var cache types.DistributionCacheFile
	if err := yaml.Unmarshal(data, &cache); err != nil {
		return types.Distribution{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to parse distribution cache for %q", name)).
			WithCause(err)
	}
	repos := map[string]types.Repository{}
	for _, file := range cache.DistributionFiles {
		for repoName, repo := range file.Repositories {
			repos[repoName] = repo
		}
	}
	isRos2 := entry.DistributionType == types.DistributionTypeRos2
	log.Ctx(ctx).Debug().
		Str("distro", name).
		Int("repositories", len(repos)).
		Int("manifests", len(cache.ReleasePackageXMLs)).
		Msg("distribution loaded")
	return types.NewDistribution(name, isRos2, repos, cache.ReleasePackageXMLs), nil
}

// fetch retrieves a URL with exponential backoff, consulting and filling
// the on-disk cache when a cache directory is configured.
func (a *DistroSourceAdapter) fetch(ctx context.Context, url string) ([]byte, error) {
	if cached, ok := a.readCache(url); ok {
		return cached, nil
	}
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := a.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			err := shared.HTTPStatusError(resp.StatusCode, url)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to fetch %s", url)).
			WithCause(err)
	}
	a.writeCache(url, body)
	return body, nil
}

func (a *DistroSourceAdapter) readCache(url string) ([]byte, bool) {
	if a.CacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(a.cachePath(url))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (a *DistroSourceAdapter) writeCache(url string, data []byte) {
	if a.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(a.CacheDir, 0755); err != nil {
		return
	}
	_ = os.WriteFile(a.cachePath(url), data, 0644)
}

func (a *DistroSourceAdapter) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(a.CacheDir, hex.EncodeToString(sum[:16]))
}

func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open gzipped distribution cache").
			WithCause(err)
	}
	defer reader.Close()
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decompress distribution cache").
			WithCause(err)
	}
	return out, nil
}
