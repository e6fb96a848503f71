// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing errors for the depot CLI.
//
// An ActionableError records what operation failed, which resource was
// involved, and what the user can do about it. Command handlers format it
// for display; everything below the CLI layer wraps causes with
// fmt.Errorf and lets the boundary attach the actionable context.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError is an error carrying enough context to render a useful
// message: the attempted operation, the resource involved, and fix
// suggestions. Construct it through Context:
//
//	return issue.Context("load catalog").
//		Resource(cfg.DepotURL).
//		Suggest("Check depot_url in your config").
//		Wrap(err)
type ActionableError struct {
	// Operation is a verb phrase describing what was attempted
	// (e.g., "load catalog", "merge archive").
	Operation string
	// Resource identifies the file, URL, or entity involved. Optional.
	Resource string
	// Suggestions are fix hints shown under the message. Optional.
	Suggestions []string
	// Cause is the underlying error. Optional.
	Cause error
}

// Error implements the error interface with the concise one-line form.
func (e *ActionableError) Error() string {
	var b strings.Builder
	b.WriteString("failed to ")
	b.WriteString(e.Operation)
	if e.Resource != "" {
		b.WriteString(": ")
		b.WriteString(e.Resource)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the cause for errors.Is/As chains.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal display. Suggestions are listed
// as bullets; verbose mode appends the numbered cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return b.String()
}

// Builder assembles an ActionableError incrementally. The zero value is
// not useful; start with Context.
type Builder struct {
	err ActionableError
}

// Context starts a builder for the given operation. The operation is
// required; it is the only field every ActionableError must carry.
func Context(operation string) *Builder {
	return &Builder{err: ActionableError{Operation: operation}}
}

// Resource records the file, URL, or entity the operation touched.
func (b *Builder) Resource(res string) *Builder {
	b.err.Resource = res
	return b
}

// Suggest adds one fix hint. May be called repeatedly.
func (b *Builder) Suggest(hint string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, hint)
	return b
}

// Wrap attaches the underlying cause and returns the finished error.
func (b *Builder) Wrap(cause error) error {
	b.err.Cause = cause
	return b.Err()
}

// Err returns the finished error without a cause.
func (b *Builder) Err() error {
	e := b.err
	return &e
}
