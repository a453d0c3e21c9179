// Package policies holds the fixed classification tables that steer
// dependency routing. They are injected at construction so deployments can
// extend them without touching the classification logic.
package policies

// DefaultExternalOnly lists host-toolchain packages that are always
// satisfied by the system package manager, never by the ROS namespace,
// even though packages declare them as run dependencies.
var DefaultExternalOnly = []string{
	"dev-util/gperf",
	"app-doc/doxygen",
	"virtual/pkgconfig",
}

// DefaultNoPython3 lists packages known not to support Python 3 yet.
// Updated on an as-needed basis.
var DefaultNoPython3 = []string{
	"tf",
}

// DependPolicy answers whether an external dependency must bypass the
// run-dependency bucket and always be tracked as a build-side external.
type DependPolicy struct {
	externalOnly map[string]struct{}
}

func NewDependPolicy(externalOnly []string) DependPolicy {
	table := make(map[string]struct{}, len(externalOnly))
	for _, name := range externalOnly {
		table[name] = struct{}{}
	}
	return DependPolicy{externalOnly: table}
}

func DefaultDependPolicy() DependPolicy {
	return NewDependPolicy(DefaultExternalOnly)
}

func (p DependPolicy) ExternalOnly(name string) bool {
	_, ok := p.externalOnly[name]
	return ok
}

// PythonPolicy answers whether a package supports the target Python major
// version.
type PythonPolicy struct {
	noPython3 map[string]struct{}
}

func NewPythonPolicy(noPython3 []string) PythonPolicy {
	table := make(map[string]struct{}, len(noPython3))
	for _, name := range noPython3 {
		table[name] = struct{}{}
	}
	return PythonPolicy{noPython3: table}
}

func DefaultPythonPolicy() PythonPolicy {
	return NewPythonPolicy(DefaultNoPython3)
}

func (p PythonPolicy) SupportsPython3(pkg string) bool {
	_, ok := p.noPython3[pkg]
	return !ok
}
