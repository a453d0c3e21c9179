package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-pkgbuild/internal/core"
)

type InspectRequest struct {
	Distro  string
	Package string
}

type InspectResult struct {
	Package              string
	Version              string
	BuildType            string
	SourceURI            string
	IsRos2               bool
	SupportsPython3      bool
	BuildDepends         []string
	BuildDependsExternal []string
	RunDepends           []string
	RunDependsExternal   []string
	TestDepends          []string
	TestDependsExternal  []string
	Unresolved           []string
}

// Inspect builds a recipe without rendering or persisting it and reports
// the classified dependency buckets.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	if strings.TrimSpace(req.Distro) == "" || strings.TrimSpace(req.Package) == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("distribution and package names are required")
	}
	dist, err := s.Distro.Distribution(ctx, req.Distro)
	if err != nil {
		return InspectResult{}, err
	}
	builder := core.RecipeBuilder{
		Walker:   s.Walker,
		Metadata: s.Metadata,
		Archive:  s.Archive,
		Depends:  s.Depends,
		Python:   s.Python,
	}
	recipe, err := builder.Build(ctx, dist, req.Package)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		Package:              recipe.Name,
		Version:              recipe.Version,
		BuildType:            string(recipe.BuildType),
		SourceURI:            recipe.SourceURI,
		IsRos2:               recipe.IsRos2,
		SupportsPython3:      recipe.SupportsPython3,
		BuildDepends:         recipe.BuildDepends(),
		BuildDependsExternal: recipe.BuildDependsExternal(),
		RunDepends:           recipe.RunDepends(),
		RunDependsExternal:   recipe.RunDependsExternal(),
		TestDepends:          recipe.TestDepends(),
		TestDependsExternal:  recipe.TestDependsExternal(),
		Unresolved:           recipe.Unresolved(),
	}, nil
}
