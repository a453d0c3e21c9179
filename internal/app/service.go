package app

import (
	"time"

	"ros-pkgbuild/internal/adapters"
	"ros-pkgbuild/internal/policies"
	"ros-pkgbuild/internal/ports"
)

type Service struct {
	Distro   ports.DistroSourcePort
	Walker   ports.DependencyWalkerPort
	Metadata ports.PackageMetadataPort
	Archive  ports.ArchiveResolverPort
	Recipes  ports.RecipeStorePort
	Overlay  ports.OverlayPort
	Depends  policies.DependPolicy
	Python   policies.PythonPolicy
	Clock    func() time.Time
}

// NewService wires the default adapters. Overlay stays nil unless the
// caller wants generation batches committed.
func NewService(indexURL string, cacheDir string, outputDir string) Service {
	manifests := adapters.NewPackageXMLAdapter()
	return Service{
		Distro:   adapters.NewDistroSourceAdapter(indexURL, cacheDir),
		Walker:   manifests,
		Metadata: manifests,
		Archive:  adapters.NewArchiveResolverAdapter(),
		Recipes:  adapters.NewRecipeStoreAdapter(outputDir),
		Depends:  policies.DefaultDependPolicy(),
		Python:   policies.DefaultPythonPolicy(),
		Clock:    time.Now,
	}
}
