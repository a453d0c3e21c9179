package adapters

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const recipeFileName = "PKGBUILD"

// RecipeStoreAdapter lays recipes out on disk as
// <dir>/ros-<distro>/<pkg>/PKGBUILD, with optional patches under a
// files/ subdirectory next to the recipe.
type RecipeStoreAdapter struct {
	Dir string
}

func NewRecipeStoreAdapter(dir string) RecipeStoreAdapter {
	return RecipeStoreAdapter{Dir: dir}
}

func (a RecipeStoreAdapter) packageDir(distro string, pkg string) string {
	return filepath.Join(a.Dir, fmt.Sprintf("ros-%s", distro), pkg)
}

func (a RecipeStoreAdapter) Write(distro string, pkg string, text string) (string, error) {
	dir := a.packageDir(distro, pkg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create recipe directory for %s", pkg)).
			WithCause(err)
	}
	path := filepath.Join(dir, recipeFileName)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write recipe for %s", pkg)).
			WithCause(err)
	}
	return path, nil
}

// ExistingVersion reconstructs the composite version of an already
// generated recipe from its pkgver and pkgrel lines.
func (a RecipeStoreAdapter) ExistingVersion(distro string, pkg string) (string, bool, error) {
	path := filepath.Join(a.packageDir(distro, pkg), recipeFileName)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read existing recipe for %s", pkg)).
			WithCause(err)
	}
	defer file.Close()
	var pkgver, pkgrel string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if value, ok := strings.CutPrefix(line, "pkgver="); ok {
			pkgver = strings.TrimSpace(value)
		}
		if value, ok := strings.CutPrefix(line, "pkgrel="); ok {
			pkgrel = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to scan existing recipe for %s", pkg)).
			WithCause(err)
	}
	if pkgver == "" || pkgrel == "" {
		return "", false, nil
	}
	return fmt.Sprintf("%s-r%s", pkgver, pkgrel), true, nil
}

// RemoveExisting deletes a previously generated recipe file and returns
// the removed paths.
func (a RecipeStoreAdapter) RemoveExisting(distro string, pkg string) ([]string, error) {
	path := filepath.Join(a.packageDir(distro, pkg), recipeFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to stat existing recipe for %s", pkg)).
			WithCause(err)
	}
	if err := os.Remove(path); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to remove existing recipe for %s", pkg)).
			WithCause(err)
	}
	return []string{path}, nil
}

// PatchFiles lists the *.patch files shipped next to a package's recipe.
func (a RecipeStoreAdapter) PatchFiles(distro string, pkg string) ([]string, error) {
	pattern := filepath.Join(a.packageDir(distro, pkg), "files", "*.patch")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to list patches for %s", pkg)).
			WithCause(err)
	}
	return matches, nil
}
