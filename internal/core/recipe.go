package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-pkgbuild/internal/policies"
	"ros-pkgbuild/internal/shared"
	"ros-pkgbuild/internal/types"
)

const (
	defaultHomepage   = "https://wiki.ros.org"
	defaultMaintainer = "ROS Build Team <devel@lists.ros.org>"
)

// keyword is a target architecture entry. Tracked for the short recipe
// format; the PKGBUILD renderer does not emit it.
type keyword struct {
	arch   string
	stable bool
}

func (k keyword) String() string {
	if k.stable {
		return k.arch
	}
	return "~" + k.arch
}

// Recipe holds every field needed to render one package's PKGBUILD.
// It is created fresh per (distribution, package) request, mutated only
// during construction, rendered once, then discarded.
type Recipe struct {
	Name             string
	Version          string
	Distro           string
	Description      string
	Homepage         string
	SourceURI        string
	Maintainer       string
	UpstreamLicenses []string
	BuildType        types.BuildType
	HasPatches       bool
	Patches          []string
	IsRos2           bool
	SupportsPython3  bool

	// Clock feeds the copyright-year line, the one non-deterministic
	// piece of the rendered text.
	Clock func() time.Time

	dependPolicy policies.DependPolicy

	depends          []string
	dependsExternal  []string
	rdepends         []string
	rdependsExternal []string
	tdepends         []string
	tdependsExternal []string
	keywords         []keyword
	unresolved       []string
}

// NewRecipe creates a recipe with the format's default metadata, to be
// overwritten by whatever the package manifest provides.
func NewRecipe(distro string, name string, dependPolicy policies.DependPolicy) *Recipe {
	return &Recipe{
		Name:             name,
		Distro:           distro,
		Homepage:         defaultHomepage,
		Maintainer:       defaultMaintainer,
		UpstreamLicenses: []string{"LGPL-2"},
		BuildType:        types.BuildTypeCatkin,
		SupportsPython3:  true,
		Clock:            time.Now,
		dependPolicy:     dependPolicy,
	}
}

// AddBuildDepend records a build dependency. A name already tracked as a
// run dependency (internal or external) is skipped entirely: the run
// bucket subsumes it, and run dependencies must therefore be inserted
// first. Within a bucket nothing is de-duplicated.
func (r *Recipe) AddBuildDepend(name string, internal bool) {
	if slices.Contains(r.rdepends, name) || slices.Contains(r.rdependsExternal, name) {
		return
	}
	if internal {
		r.depends = append(r.depends, name)
		return
	}
	r.dependsExternal = append(r.dependsExternal, name)
}

// AddRunDepend records a run dependency. External names on the
// depend-only allow list are host toolchain packages and go to the
// external build bucket instead.
func (r *Recipe) AddRunDepend(name string, internal bool) {
	switch {
	case !internal && r.dependPolicy.ExternalOnly(name):
		r.dependsExternal = append(r.dependsExternal, name)
	case internal:
		r.rdepends = append(r.rdepends, name)
	default:
		r.rdependsExternal = append(r.rdependsExternal, name)
	}
}

func (r *Recipe) AddTestDepend(name string, internal bool) {
	if internal {
		r.tdepends = append(r.tdepends, name)
		return
	}
	r.tdependsExternal = append(r.tdependsExternal, name)
}

func (r *Recipe) AddKeyword(arch string, stable bool) {
	r.keywords = append(r.keywords, keyword{arch: arch, stable: stable})
}

// MarkUnresolved records a dependency that could not be classified.
// A non-empty list makes Render fail.
func (r *Recipe) MarkUnresolved(name string) {
	r.unresolved = append(r.unresolved, name)
}

// Unresolved returns the dependencies that could not be classified.
func (r *Recipe) Unresolved() []string {
	return slices.Clone(r.unresolved)
}

func (r *Recipe) BuildDepends() []string         { return slices.Clone(r.depends) }
func (r *Recipe) BuildDependsExternal() []string { return slices.Clone(r.dependsExternal) }
func (r *Recipe) RunDepends() []string           { return slices.Clone(r.rdepends) }
func (r *Recipe) RunDependsExternal() []string   { return slices.Clone(r.rdependsExternal) }
func (r *Recipe) TestDepends() []string          { return slices.Clone(r.tdepends) }
func (r *Recipe) TestDependsExternal() []string  { return slices.Clone(r.tdependsExternal) }

// Keywords returns the tracked architecture keywords in their rendered
// form (a ~ prefix marks unstable).
func (r *Recipe) Keywords() []string {
	out := make([]string, len(r.keywords))
	for i, k := range r.keywords {
		out[i] = k.String()
	}
	return out
}

// buildDispatch maps a build type to its inheritance line and the shell
// bodies of the two recipe phases. Every supported build system drives
// the build through colcon, so the bodies only vary by distro path.
type buildDispatch struct {
	inherit      string
	buildBlock   func(distro string) string
	packageBlock func(distro string) string
}

var buildDispatchTable = map[types.BuildType]buildDispatch{
	types.BuildTypeCatkin:      {inherit: "ros-cmake", buildBlock: colconBuildBlock, packageBlock: colconPackageBlock},
	types.BuildTypeCmake:       {inherit: "ros-cmake", buildBlock: colconBuildBlock, packageBlock: colconPackageBlock},
	types.BuildTypeAmentPython: {inherit: "ament-python", buildBlock: colconBuildBlock, packageBlock: colconPackageBlock},
	types.BuildTypeAmentCmake:  {inherit: "ament-cmake", buildBlock: colconBuildBlock, packageBlock: colconPackageBlock},
}

func colconBuildBlock(distro string) string {
	return fmt.Sprintf(`
build() {
    cd "${srcdir}"
    [ -f /opt/ros/%s/setup.bash ] && source /opt/ros/%s/setup.bash
    colcon build
}
`, distro, distro)
}

func colconPackageBlock(distro string) string {
	return fmt.Sprintf(`
package() {
    cd "${srcdir}"
    colcon build --install-base "${pkgdir}"/opt/ros/%s
    rm "${pkgdir}"/opt/ros/%s/*setup*
    rm "${pkgdir}"/opt/ros/%s/COLCON_IGNORE
    rm "${pkgdir}"/opt/ros/%s/.colcon_install_layout
    chown -R ros:ros "${pkgdir}"/opt/ros/%s
    chmod -R 777 "${pkgdir}"/opt/ros/%s
}
`, distro, distro, distro, distro, distro, distro)
}

// InheritLine returns the build-system inheritance line of the short
// recipe format. The PKGBUILD renderer does not emit it.
func (r *Recipe) InheritLine() (string, error) {
	dispatch, ok := buildDispatchTable[r.BuildType]
	if !ok {
		return "", unknownBuildTypeError(r.BuildType)
	}
	return fmt.Sprintf("inherit %s\n\n", dispatch.inherit), nil
}

// PythonCompat returns the python-version compatibility line of the short
// recipe format.
func (r *Recipe) PythonCompat(pythonVersions []string) string {
	verString := pythonVersions[0]
	if len(pythonVersions) > 1 {
		verString = "{" + strings.Join(pythonVersions, ",") + "}"
	}
	return fmt.Sprintf("PYTHON_COMPAT=( python%s )\n\n", verString)
}

// licenseHeader is the wall-clock-derived copyright block. Everything
// below it renders byte-identically for identical inputs.
func (r *Recipe) licenseHeader(distributor string, licenseText string) string {
	year := r.Clock().UTC().Format("2006")
	return fmt.Sprintf("# Copyright %s %s\n# Distributed under the terms of the %s license\n\n", year, distributor, licenseText)
}

// Render serializes the recipe into the final PKGBUILD text. Field order
// is fixed; within-bucket dependency order follows insertion order.
func (r *Recipe) Render(distributor string, licenseText string) (string, error) {
	if len(r.unresolved) > 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("unresolved dependencies for %s: %s", r.Name, strings.Join(r.unresolved, ", ")))
	}
	dispatch, ok := buildDispatchTable[r.BuildType]
	if !ok {
		return "", unknownBuildTypeError(r.BuildType)
	}
	pkgver, pkgrel, err := SplitVersion(r.Version)
	if err != nil {
		return "", err
	}

	description := shared.TrimDescription(shared.SanitizeDescription(r.Description))

	var entries []string
	entries = append(entries, "# Script generated with ros-pkgbuild")
	entries = append(entries, fmt.Sprintf("# Maintainer: %s", r.Maintainer))
	entries = append(entries, fmt.Sprintf("pkgname='ros-%s-%s'", r.Distro, r.Name))
	entries = append(entries, fmt.Sprintf("pkgdesc=\"%s\"", description))
	entries = append(entries, fmt.Sprintf("url=%s", r.Homepage))
	entries = append(entries, fmt.Sprintf("pkgver=%s", pkgver))
	entries = append(entries, "arch=('any')")
	entries = append(entries, fmt.Sprintf("pkgrel=%s", pkgrel))
	licenses := make([]string, len(r.UpstreamLicenses))
	for i, license := range r.UpstreamLicenses {
		licenses[i] = fmt.Sprintf("'%s'", license)
	}
	entries = append(entries, fmt.Sprintf("license=(%s)", strings.Join(licenses, " ")))
	entries = append(entries, "epoch=0")
	entries = append(entries, fmt.Sprintf("groups=('ros' 'ros-%s')", r.Distro))
	entries = append(entries, fmt.Sprintf("makedepends=(%s)", strings.Join(r.targetDependencies(r.depends, r.dependsExternal), " ")))
	entries = append(entries, fmt.Sprintf("depends=(%s)", strings.Join(r.targetDependencies(r.rdepends, r.rdependsExternal), " ")))
	entries = append(entries, fmt.Sprintf("source=(\"ros-%s-%s-%s.tar.gz::%s\")", r.Distro, r.Name, r.Version, r.SourceURI))
	entries = append(entries, "md5sums=('SKIP')")
	entries = append(entries, dispatch.buildBlock(r.Distro))
	entries = append(entries, dispatch.packageBlock(r.Distro))

	return r.licenseHeader(distributor, licenseText) + strings.Join(entries, "\n"), nil
}

// targetDependencies rewrites a pair of buckets into target-namespace
// identifiers: internal names gain the ros-<distro>- prefix, externals
// pass through verbatim, and any entry starting with the python3 marker
// is rewritten to the generic python namespace (first occurrence only).
func (r *Recipe) targetDependencies(internal []string, external []string) []string {
	out := make([]string, 0, len(internal)+len(external))
	for _, dep := range internal {
		out = append(out, fmt.Sprintf("ros-%s-%s", r.Distro, dep))
	}
	out = append(out, external...)
	for i, dep := range out {
		if strings.HasPrefix(dep, "python3") {
			out[i] = strings.Replace(dep, "python3", "python", 1)
		}
	}
	return out
}

func unknownBuildTypeError(buildType types.BuildType) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unknown build type %q", string(buildType)))
}
