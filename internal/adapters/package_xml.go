package adapters

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-pkgbuild/internal/types"
)

// PackageXMLAdapter parses the package manifests cached inside a
// distribution and serves both dependency walking and descriptive
// metadata from them. Parsed manifests are cached per package.
type PackageXMLAdapter struct {
	mu    sync.Mutex
	cache map[string]packageXML
}

func NewPackageXMLAdapter() *PackageXMLAdapter {
	return &PackageXMLAdapter{cache: map[string]packageXML{}}
}

type packageXML struct {
	Name        string        `xml:"name"`
	Version     string        `xml:"version"`
	Description string        `xml:"description"`
	Licenses    []string      `xml:"license"`
	URLs        []manifestURL `xml:"url"`
	Export      exportSection `xml:"export"`

	// Standard ROS dependency tags (REP-140 / REP-149). <depend> expands
	// into both the build and run groups.
	Depend          []string `xml:"depend"`
	BuildDepend     []string `xml:"build_depend"`
	BuildtoolDepend []string `xml:"buildtool_depend"`
	ExecDepend      []string `xml:"exec_depend"`
	RunDepend       []string `xml:"run_depend"`
	TestDepend      []string `xml:"test_depend"`
}

type manifestURL struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type exportSection struct {
	BuildType string `xml:"build_type"`
}

func (a *PackageXMLAdapter) Depends(ctx context.Context, dist types.Distribution, pkg string, depType types.DependencyType) ([]string, error) {
	manifest, err := a.load(dist, pkg)
	if err != nil {
		return nil, err
	}
	switch depType {
	case types.DependencyTypeBuildtool:
		return uniqueTrimmed(manifest.BuildtoolDepend), nil
	case types.DependencyTypeBuild:
		return uniqueTrimmed(manifest.BuildDepend, manifest.Depend), nil
	case types.DependencyTypeRun:
		return uniqueTrimmed(manifest.ExecDepend, manifest.RunDepend, manifest.Depend), nil
	case types.DependencyTypeTest:
		return uniqueTrimmed(manifest.TestDepend), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported dependency type %q", string(depType)))
	}
}

func (a *PackageXMLAdapter) Metadata(ctx context.Context, dist types.Distribution, pkg string) (types.PackageMetadata, error) {
	manifest, err := a.load(dist, pkg)
	if err != nil {
		return types.PackageMetadata{}, err
	}
	meta := types.PackageMetadata{
		Description: strings.TrimSpace(manifest.Description),
		BuildType:   types.BuildTypeCatkin,
	}
	for _, license := range manifest.Licenses {
		if trimmed := strings.TrimSpace(license); trimmed != "" {
			meta.Licenses = append(meta.Licenses, trimmed)
		}
	}
	for _, url := range manifest.URLs {
		if url.Type == "" || url.Type == "website" {
			meta.Homepage = strings.TrimSpace(url.Value)
			break
		}
	}
	if buildType := strings.TrimSpace(manifest.Export.BuildType); buildType != "" {
		meta.BuildType = types.BuildType(buildType)
	}
	return meta, nil
}

func (a *PackageXMLAdapter) load(dist types.Distribution, pkg string) (packageXML, error) {
	key := dist.Name + "/" + pkg
	a.mu.Lock()
	defer a.mu.Unlock()
	if cached, ok := a.cache[key]; ok {
		return cached, nil
	}
	raw, ok := dist.PackageXML(pkg)
	if !ok {
		return packageXML{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no cached manifest for package %q in distribution %s", pkg, dist.Name))
	}
	var manifest packageXML
	if err := xml.Unmarshal([]byte(raw), &manifest); err != nil {
		return packageXML{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to parse manifest for package %q", pkg)).
			WithCause(err)
	}
	a.cache[key] = manifest
	return manifest, nil
}

// uniqueTrimmed merges the given lists, trims whitespace, and drops
// repeats while keeping first-seen order. Entries that trim to nothing
// are kept so the caller can report them as unresolvable.
func uniqueTrimmed(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range lists {
		for _, entry := range list {
			name := strings.TrimSpace(entry)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
