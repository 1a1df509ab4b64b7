// Package errs wraps the cockroachdb/errors primitives the codebase relies
// on, so call sites never import that module directly.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

// New builds a stack-carrying error.
func New(msg string) error {
	return cr.New(msg)
}

// Wrap annotates err with msg, keeping the original stack. Wrapping nil
// stays nil so repositories can wrap unconditionally.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches a sentinel so errors.Is(err, mark) holds without losing the
// cause. Marking nil returns the sentinel itself.
func Mark(err error, mark error) error {
	if err == nil {
		return mark
	}
	return cr.Mark(err, mark)
}
