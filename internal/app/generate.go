package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ros-pkgbuild/internal/core"
	"ros-pkgbuild/internal/types"
)

// Distributor defaults for the recipe license header.
const (
	defaultDistributor = "Open Source Robotics Foundation"
	defaultLicense     = "BSD"
)

type GenerateRequest struct {
	Distro           string
	Packages         []string
	Distributor      string
	License          string
	PreserveExisting bool
	Commit           bool
}

type PackageFailure struct {
	Package    string
	Reason     string
	Unresolved []string
}

type GenerateResult struct {
	Distro     string
	Written    []string
	Skipped    []string
	Failures   []PackageFailure
	CommitHash string
}

// Generate renders recipes for the requested packages (or the whole
// distribution when none are named). One package's failure never aborts
// the batch; failures are collected on the result.
func (s Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	distroName := strings.TrimSpace(req.Distro)
	if distroName == "" {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("distribution name is required")
	}
	if req.Commit && s.Overlay == nil {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("commit requested but no overlay repository configured")
	}
	dist, err := s.Distro.Distribution(ctx, distroName)
	if err != nil {
		return GenerateResult{}, err
	}
	packages := req.Packages
	if len(packages) == 0 {
		packages = dist.PackageNames()
	}

	builder := core.RecipeBuilder{
		Walker:   s.Walker,
		Metadata: s.Metadata,
		Archive:  s.Archive,
		Depends:  s.Depends,
		Python:   s.Python,
	}

	result := GenerateResult{Distro: distroName}
	var staged []string
	for _, pkg := range packages {
		path, skipped, err := s.generateOne(ctx, builder, dist, pkg, req)
		if err != nil {
			failure := PackageFailure{Package: pkg, Reason: errorMessage(err)}
			if unresolved := unresolvedOf(err); len(unresolved) > 0 {
				failure.Unresolved = unresolved
				for _, dep := range unresolved {
					log.Ctx(ctx).Error().Str("package", pkg).Str("dependency", dep).Msg("unresolved dependency")
				}
			} else {
				log.Ctx(ctx).Error().Str("package", pkg).Err(err).Msg("failed to generate recipe")
			}
			result.Failures = append(result.Failures, failure)
			continue
		}
		if skipped {
			result.Skipped = append(result.Skipped, pkg)
			continue
		}
		result.Written = append(result.Written, path)
		staged = append(staged, path)
		log.Ctx(ctx).Info().Str("package", pkg).Str("path", path).Msg("recipe generated")
	}

	if req.Commit && len(staged) > 0 {
		if err := s.Overlay.Stage(staged); err != nil {
			return result, err
		}
		hash, err := s.Overlay.Commit(fmt.Sprintf("regenerate recipes for %s", distroName))
		if err != nil {
			return result, err
		}
		result.CommitHash = hash
	}
	return result, nil
}

func (s Service) generateOne(ctx context.Context, builder core.RecipeBuilder, dist types.Distribution, pkg string, req GenerateRequest) (string, bool, error) {
	repo, ok := dist.ReleaseFor(pkg)
	if !ok {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown package %q in distribution %s", pkg, dist.Name))
	}
	version, err := core.FormatVersion(repo.Version)
	if err != nil {
		return "", false, err
	}
	existing, found, err := s.Recipes.ExistingVersion(dist.Name, pkg)
	if err != nil {
		return "", false, err
	}
	if found {
		if req.PreserveExisting {
			newer, err := core.NewerVersion(existing, version)
			if err == nil && !newer {
				log.Ctx(ctx).Info().Str("package", pkg).Str("version", existing).Msg("recipe up to date, skipping")
				return "", true, nil
			}
		}
		removed, err := s.Recipes.RemoveExisting(dist.Name, pkg)
		if err != nil {
			return "", false, err
		}
		if req.Commit && len(removed) > 0 {
			if err := s.Overlay.Remove(removed); err != nil {
				return "", false, err
			}
		}
	}

	recipe, err := builder.Build(ctx, dist, pkg)
	if err != nil {
		return "", false, err
	}
	patches, err := s.Recipes.PatchFiles(dist.Name, pkg)
	if err != nil {
		return "", false, err
	}
	recipe.Patches = patches
	recipe.HasPatches = len(patches) > 0
	if s.Clock != nil {
		recipe.Clock = s.Clock
	}

	distributor := req.Distributor
	if distributor == "" {
		distributor = defaultDistributor
	}
	license := req.License
	if license == "" {
		license = defaultLicense
	}
	text, err := recipe.Render(distributor, license)
	if err != nil {
		return "", false, withUnresolved(err, recipe.Unresolved())
	}
	path, err := s.Recipes.Write(dist.Name, pkg, text)
	if err != nil {
		return "", false, err
	}
	return path, false, nil
}
