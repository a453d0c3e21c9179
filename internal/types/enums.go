package types

// BuildType identifies the build system declared in a package manifest's
// export section. The recipe renderer only understands this closed set.
type BuildType string

const (
	BuildTypeCatkin      BuildType = "catkin"
	BuildTypeCmake       BuildType = "cmake"
	BuildTypeAmentPython BuildType = "ament_python"
	BuildTypeAmentCmake  BuildType = "ament_cmake"
)

type DependencyType string

const (
	DependencyTypeBuildtool DependencyType = "buildtool"
	DependencyTypeBuild     DependencyType = "build"
	DependencyTypeRun       DependencyType = "run"
	DependencyTypeTest      DependencyType = "test"
)

type DistributionType string

const (
	DistributionTypeRos1 DistributionType = "ros1"
	DistributionTypeRos2 DistributionType = "ros2"
)
