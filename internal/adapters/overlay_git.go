package adapters

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// OverlayGitAdapter stages and commits generated recipes in the overlay
// repository checked out at Dir.
type OverlayGitAdapter struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
	Clock       func() time.Time
}

func NewOverlayGitAdapter(dir string) OverlayGitAdapter {
	return OverlayGitAdapter{
		Dir:         dir,
		AuthorName:  "ros-pkgbuild",
		AuthorEmail: "devel@lists.ros.org",
		Clock:       time.Now,
	}
}

func (a OverlayGitAdapter) Stage(paths []string) error {
	worktree, err := a.worktree()
	if err != nil {
		return err
	}
	for _, path := range paths {
		rel, err := a.relative(path)
		if err != nil {
			return err
		}
		if _, err := worktree.Add(rel); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to stage %s", rel)).
				WithCause(err)
		}
	}
	return nil
}

func (a OverlayGitAdapter) Remove(paths []string) error {
	worktree, err := a.worktree()
	if err != nil {
		return err
	}
	for _, path := range paths {
		rel, err := a.relative(path)
		if err != nil {
			return err
		}
		if _, err := worktree.Remove(rel); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to remove %s from the index", rel)).
				WithCause(err)
		}
	}
	return nil
}

func (a OverlayGitAdapter) Commit(message string) (string, error) {
	worktree, err := a.worktree()
	if err != nil {
		return "", err
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  a.AuthorName,
			Email: a.AuthorEmail,
			When:  a.Clock(),
		},
	})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to commit overlay changes").
			WithCause(err)
	}
	return hash.String(), nil
}

func (a OverlayGitAdapter) worktree() (*git.Worktree, error) {
	repo, err := git.PlainOpen(a.Dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("overlay directory %s is not a git repository", a.Dir)).
			WithCause(err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open overlay worktree").
			WithCause(err)
	}
	return worktree, nil
}

func (a OverlayGitAdapter) relative(path string) (string, error) {
	rel, err := filepath.Rel(a.Dir, path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("path %s is outside the overlay directory", path)).
			WithCause(err)
	}
	return rel, nil
}
