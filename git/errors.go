package git

import (
	"errors"
	"fmt"
)

// ErrNotRepository is returned when no git repository encloses a path.
var ErrNotRepository = errors.New("not a git repository")

// ErrCookbookMissing is returned when no cookbook path holds the cookbook.
var ErrCookbookMissing = errors.New("cookbook not found in cookbook path")

// ErrPathMissing is returned when a subpath does not exist in a tree.
var ErrPathMissing = errors.New("path does not exist in tree")

// ErrInvalidOptions is returned for missing or out of range options.
var ErrInvalidOptions = errors.New("invalid options")

// ErrNoHead is returned when a repository has no commit to check out.
var ErrNoHead = errors.New("repository has no commits")

// ErrBranchMissing is returned when the requested branch does not exist.
var ErrBranchMissing = errors.New("branch does not exist")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf is WrapError with a format string.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
