// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// The depot config file is CUE; this package holds the schema-unify-decode
// flow so the config package only deals with Go structs:
//
//	//go:embed config_schema.cue
//	var schema string
//
//	cfg, err := cueutil.Decode[Config](schema, "#Config", data,
//		cueutil.WithFilename("config.cue"))
package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// MaxDocumentSize bounds the size of a CUE document accepted by Decode.
// Anything larger than 1MB is not a plausible depot config file.
const MaxDocumentSize = 1 << 20

type (
	options struct {
		filename string
		concrete bool
	}

	// Option adjusts Decode behavior.
	Option func(*options)
)

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithConcrete controls whether every field must be concrete after
// unification. Off by default so optional config fields may stay unset.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// Decode compiles the user document, unifies it with the definition at
// defPath inside the embedded schema, validates, and decodes into T.
func Decode[T any](schema, defPath string, data []byte, opts ...Option) (*T, error) {
	o := options{filename: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}

	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("%s: document size %d bytes exceeds maximum %d bytes", o.filename, len(data), MaxDocumentSize)
	}

	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schema)
	if schemaVal.Err() != nil {
		return nil, fmt.Errorf("internal error: schema does not compile: %w", schemaVal.Err())
	}
	def := schemaVal.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	userVal := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userVal.Err() != nil {
		return nil, formatError(userVal.Err(), o.filename)
	}

	unified := def.Unify(userVal)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, formatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, formatError(err, o.filename)
	}
	return &out, nil
}

// formatError rewrites CUE errors as "<file>: <json-path>: <message>" so
// users can locate the offending field without reading CUE diagnostics.
func formatError(err error, filename string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	var lines []string
	for _, e := range errs {
		path := jsonPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path inside the message.
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		if path != "" {
			lines = append(lines, path+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filename, strings.Join(lines, "\n  "))
}

// jsonPath renders a CUE error path such as ["search", "workers"] or
// ["includes", "0"] in the familiar "search.workers" / "includes[0]" form.
func jsonPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
