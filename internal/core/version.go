package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"
)

// FormatVersion turns a release repository version ("1.2.3-1") into the
// composite recipe version ("1.2.3-r1"): upstream version plus an
// r-tagged release increment.
func FormatVersion(repoVersion string) (string, error) {
	upstream, increment, found := strings.Cut(repoVersion, "-")
	if !found || upstream == "" || increment == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed release version %q", repoVersion))
	}
	return fmt.Sprintf("%s-r%s", upstream, increment), nil
}

// SplitVersion splits a composite recipe version into the upstream
// version (pkgver) and the release increment with its leading tag letter
// stripped (pkgrel). A missing separator or an empty release increment is
// a data error.
func SplitVersion(version string) (string, string, error) {
	upstream, release, found := strings.Cut(version, "-")
	if !found || upstream == "" {
		return "", "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed version %q: missing release separator", version))
	}
	// Drop everything past a second separator; only the release segment
	// between the first two separators carries the increment.
	release, _, _ = strings.Cut(release, "-")
	if len(release) < 2 {
		return "", "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed version %q: empty release increment", version))
	}
	return upstream, release[1:], nil
}

// NewerVersion reports whether candidate is strictly newer than existing.
// Both are composite recipe versions; comparison follows Debian version
// ordering, which handles the r-tagged increment naturally.
func NewerVersion(existing string, candidate string) (bool, error) {
	existingParsed, err := debversion.NewVersion(existing)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unparseable existing version %q", existing)).
			WithCause(err)
	}
	candidateParsed, err := debversion.NewVersion(candidate)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unparseable candidate version %q", candidate)).
			WithCause(err)
	}
	return candidateParsed.GreaterThan(existingParsed), nil
}
