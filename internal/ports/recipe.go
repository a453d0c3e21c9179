package ports

type RecipeStorePort interface {
	Write(distro string, pkg string, text string) (string, error)
	ExistingVersion(distro string, pkg string) (string, bool, error)
	RemoveExisting(distro string, pkg string) ([]string, error)
	PatchFiles(distro string, pkg string) ([]string, error)
}

// OverlayPort manipulates the version-controlled overlay repository that
// holds the generated recipes.
type OverlayPort interface {
	Stage(paths []string) error
	Remove(paths []string) error
	Commit(message string) (string, error)
}
