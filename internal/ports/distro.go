package ports

import (
	"context"

	"ros-pkgbuild/internal/types"
)

type DistroSourcePort interface {
	Index(ctx context.Context) (types.Index, error)
	Distribution(ctx context.Context, name string) (types.Distribution, error)
}

// DependencyWalkerPort returns the flat set of direct dependency names of
// one package for one dependency type. The core assumes no ordering beyond
// stable single iteration.
type DependencyWalkerPort interface {
	Depends(ctx context.Context, dist types.Distribution, pkg string, depType types.DependencyType) ([]string, error)
}

type PackageMetadataPort interface {
	Metadata(ctx context.Context, dist types.Distribution, pkg string) (types.PackageMetadata, error)
}

type ArchiveResolverPort interface {
	SourceArchive(pkg string, repo types.ReleaseRepository, distro string) (string, error)
}
