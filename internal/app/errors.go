package app

import (
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// unresolvedError carries the unresolved dependency names alongside the
// rendering error so the batch report can list them.
type unresolvedError struct {
	err  error
	deps []string
}

func (e *unresolvedError) Error() string { return e.err.Error() }

func (e *unresolvedError) Unwrap() error { return e.err }

func withUnresolved(err error, deps []string) error {
	if len(deps) == 0 {
		return err
	}
	return &unresolvedError{err: err, deps: deps}
}

func unresolvedOf(err error) []string {
	var unresolved *unresolvedError
	if errors.As(err, &unresolved) {
		return unresolved.deps
	}
	return nil
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
