package adapters

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-pkgbuild/internal/types"
)

// ArchiveResolverAdapter turns a release repository record into a source
// archive URI by expanding the release tag template and pointing at the
// forge's tarball endpoint.
type ArchiveResolverAdapter struct{}

func NewArchiveResolverAdapter() ArchiveResolverAdapter {
	return ArchiveResolverAdapter{}
}

func (ArchiveResolverAdapter) SourceArchive(pkg string, repo types.ReleaseRepository, distro string) (string, error) {
	if repo.URL == "" || repo.Tags.Release == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("release repository for %q has no url or release tag", pkg))
	}
	tag := repo.Tags.Release
	replacer := strings.NewReplacer(
		"{package}", pkg,
		"{distro}", distro,
		"{version}", repo.Version,
	)
	tag = replacer.Replace(tag)
	base := strings.TrimSuffix(repo.URL, ".git")
	return fmt.Sprintf("%s/archive/%s.tar.gz", base, tag), nil
}
