package types

import "sort"

// Index mirrors the top-level rosdistro index.yaml document.
type Index struct {
	Type          string                `yaml:"type"`
	Version       int                   `yaml:"version"`
	Distributions map[string]IndexEntry `yaml:"distributions"`
}

type IndexEntry struct {
	DistributionCache  string           `yaml:"distribution_cache"`
	DistributionStatus string           `yaml:"distribution_status,omitempty"`
	DistributionType   DistributionType `yaml:"distribution_type"`
}

// DistributionCacheFile mirrors the gzipped cache document referenced by an
// index entry. It bundles the distribution file with every released
// package manifest so dependency walking needs no further network access.
type DistributionCacheFile struct {
	Type               string             `yaml:"type"`
	Version            int                `yaml:"version"`
	DistributionFiles  []DistributionFile `yaml:"distribution_file"`
	ReleasePackageXMLs map[string]string  `yaml:"release_package_xmls"`
}

type DistributionFile struct {
	Repositories map[string]Repository `yaml:"repositories"`
}

type Repository struct {
	Release *ReleaseRepository `yaml:"release,omitempty"`
}

type ReleaseRepository struct {
	URL      string      `yaml:"url"`
	Version  string      `yaml:"version"`
	Packages []string    `yaml:"packages,omitempty"`
	Tags     ReleaseTags `yaml:"tags"`
}

type ReleaseTags struct {
	Release string `yaml:"release"`
}

// Distribution is the in-memory view assembled from an index entry and its
// cache file: the release repositories, a package-name index used for
// internal/external dependency classification, and the cached manifests.
type Distribution struct {
	Name         string
	IsRos2       bool
	Repositories map[string]Repository

	// releasePackages maps a package name to the repository that
	// releases it. A repository with an empty package list releases a
	// single package named after the repository itself.
	releasePackages map[string]string
	packageXMLs     map[string]string
}

// NewDistribution assembles the lookup indexes for one distribution.
func NewDistribution(name string, isRos2 bool, repos map[string]Repository, packageXMLs map[string]string) Distribution {
	releasePackages := map[string]string{}
	for repoName, repo := range repos {
		if repo.Release == nil {
			continue
		}
		if len(repo.Release.Packages) == 0 {
			releasePackages[repoName] = repoName
			continue
		}
		for _, pkg := range repo.Release.Packages {
			releasePackages[pkg] = repoName
		}
	}
	return Distribution{
		Name:            name,
		IsRos2:          isRos2,
		Repositories:    repos,
		releasePackages: releasePackages,
		packageXMLs:     packageXMLs,
	}
}

// HasPackage reports whether name is released by this distribution, which
// is the internal/external classification test for dependencies.
func (d Distribution) HasPackage(name string) bool {
	_, ok := d.releasePackages[name]
	return ok
}

// ReleaseFor returns the release repository record for a package.
func (d Distribution) ReleaseFor(pkg string) (ReleaseRepository, bool) {
	repoName, ok := d.releasePackages[pkg]
	if !ok {
		return ReleaseRepository{}, false
	}
	repo, ok := d.Repositories[repoName]
	if !ok || repo.Release == nil {
		return ReleaseRepository{}, false
	}
	return *repo.Release, true
}

// PackageNames returns the sorted package-name index.
func (d Distribution) PackageNames() []string {
	names := make([]string, 0, len(d.releasePackages))
	for name := range d.releasePackages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PackageXML returns the cached manifest text for a package.
func (d Distribution) PackageXML(pkg string) (string, bool) {
	xml, ok := d.packageXMLs[pkg]
	return xml, ok
}

// PackageMetadata carries the descriptive fields parsed from a package
// manifest. Fetch failures degrade to zero values on the recipe side.
type PackageMetadata struct {
	Licenses    []string
	Description string
	Homepage    string
	BuildType   BuildType
}
