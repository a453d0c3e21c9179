package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ros-pkgbuild/internal/policies"
	"ros-pkgbuild/internal/ports"
	"ros-pkgbuild/internal/types"
)

// defaultKeywords are the architectures every recipe targets, all marked
// unstable.
var defaultKeywords = []string{"x86", "amd64", "arm", "arm64"}

// RecipeBuilder populates one Recipe per (distribution, package) request.
// Graph walking and metadata lookups are delegated to ports; the builder
// itself performs no retries and owns no network state, so concurrent
// Build calls for different packages are safe.
type RecipeBuilder struct {
	Walker   ports.DependencyWalkerPort
	Metadata ports.PackageMetadataPort
	Archive  ports.ArchiveResolverPort
	Depends  policies.DependPolicy
	Python   policies.PythonPolicy
}

func NewRecipeBuilder(walker ports.DependencyWalkerPort, metadata ports.PackageMetadataPort, archive ports.ArchiveResolverPort) RecipeBuilder {
	return RecipeBuilder{
		Walker:   walker,
		Metadata: metadata,
		Archive:  archive,
		Depends:  policies.DefaultDependPolicy(),
		Python:   policies.DefaultPythonPolicy(),
	}
}

func (b RecipeBuilder) Build(ctx context.Context, dist types.Distribution, pkgName string) (*Recipe, error) {
	assert.NotEmpty(ctx, dist.Name, "distribution name must be set")
	assert.NotEmpty(ctx, pkgName, "package name must be set")

	repo, ok := dist.ReleaseFor(pkgName)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown package %q in distribution %s", pkgName, dist.Name))
	}

	recipe := NewRecipe(dist.Name, pkgName, b.Depends)
	recipe.IsRos2 = dist.IsRos2
	recipe.SupportsPython3 = b.Python.SupportsPython3(pkgName)

	version, err := FormatVersion(repo.Version)
	if err != nil {
		return nil, err
	}
	recipe.Version = version

	srcURI, err := b.Archive.SourceArchive(pkgName, repo, dist.Name)
	if err != nil {
		return nil, err
	}
	recipe.SourceURI = srcURI

	// Fetch every dependency list up front, then insert run dependencies
	// first: the build-bucket no-op rule only sees run entries that are
	// already in place.
	lists := map[types.DependencyType][]string{}
	for _, depType := range []types.DependencyType{
		types.DependencyTypeBuildtool,
		types.DependencyTypeBuild,
		types.DependencyTypeRun,
		types.DependencyTypeTest,
	} {
		names, err := b.Walker.Depends(ctx, dist, pkgName, depType)
		if err != nil {
			return nil, err
		}
		lists[depType] = names
	}

	// A blank manifest entry cannot be routed to any bucket; it is
	// recorded as unresolved and vetoes rendering later.
	insert := func(names []string, add func(string, bool)) {
		for _, dep := range names {
			if strings.TrimSpace(dep) == "" {
				recipe.MarkUnresolved(dep)
				continue
			}
			add(dep, dist.HasPackage(dep))
		}
	}
	insert(lists[types.DependencyTypeRun], recipe.AddRunDepend)
	insert(lists[types.DependencyTypeBuild], recipe.AddBuildDepend)
	insert(lists[types.DependencyTypeBuildtool], recipe.AddBuildDepend)
	insert(lists[types.DependencyTypeTest], recipe.AddTestDepend)

	for _, arch := range defaultKeywords {
		recipe.AddKeyword(arch, false)
	}

	meta, err := b.Metadata.Metadata(ctx, dist, pkgName)
	if err != nil {
		log.Ctx(ctx).Warn().
			Str("package", pkgName).
			Str("distro", dist.Name).
			Err(err).
			Msg("fetch metadata failed, keeping defaults")
		return recipe, nil
	}
	if len(meta.Licenses) > 0 {
		recipe.UpstreamLicenses = meta.Licenses
	}
	recipe.Description = meta.Description
	if meta.Homepage != "" {
		recipe.Homepage = meta.Homepage
	}
	if meta.BuildType != "" {
		recipe.BuildType = meta.BuildType
	}
	return recipe, nil
}
