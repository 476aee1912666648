// Package flexparser is the public entry point of spec.md §4.I: it
// accepts a grammar (a slice of statement/block shapes forming the
// root block's body), normalizes the configuration options, and runs
// project parsing starting from one entry source.
//
// The historical four ways of spelling a grammar spec (a single
// statement shape, a single block shape, an ordered set of shapes, or
// a pre-built root-block/parser class) collapse here to one uniform
// form, []shape.Shape — a slice of length one is exactly "a single
// shape's root body"; there is no separate "parser class" or
// "root-block shape" case because this port's root block never has
// its own opening/closing slots to wrap (spec.md §4.F), only a body.
package flexparser

import (
	"io/fs"

	"github.com/hgrecco/flexparser/project"
	"github.com/hgrecco/flexparser/shape"
	"github.com/hgrecco/flexparser/source"
	"github.com/hgrecco/flexparser/split"
	"github.com/hgrecco/flexparser/token"
)

// Options bundles spec.md §4.I's configuration table. The zero value
// is usable: strip_spaces and prefer_resource_as_file default true,
// delimiters default to end-of-line only, and the locator defaults to
// project.DefaultLocator.
type Options struct {
	// Config is the opaque value threaded to every statement shape's
	// TryParse call.
	Config shape.Config
	// StripSpaces trims whitespace from each split statement. It
	// defaults to true, and setting the field directly has no effect:
	// use DisableStripSpaces to turn it off.
	StripSpaces    bool
	stripSpacesSet bool
	// Delimiters configures the line splitter (component B). The zero
	// value is "no delimiters" (one statement per line).
	Delimiters []split.Delimiter
	// Locator overrides the default include resolver.
	Locator project.Locator
	// FS supplies packaged resources; required only if the grammar's
	// entry point or any include target is a packaged SourceID.
	FS fs.FS
	// PreferResourceAsFile mirrors spec.md §4.I; defaults true.
	PreferResourceAsFile    bool
	preferResourceAsFileSet bool
	// IncludeOnlyOnce makes a repeated include edge fatal rather than
	// silently skipped. Defaults true (spec.md §9).
	IncludeOnlyOnce    bool
	includeOnlyOnceSet bool
}

// DisableStripSpaces turns off the default whitespace trimming.
func (o Options) DisableStripSpaces() Options {
	o.StripSpaces = false
	o.stripSpacesSet = true
	return o
}

// DisablePreferResourceAsFile turns off the default file-first
// resolution of packaged resources.
func (o Options) DisablePreferResourceAsFile() Options {
	o.PreferResourceAsFile = false
	o.preferResourceAsFileSet = true
	return o
}

// DisableIncludeOnlyOnce allows the same include edge to be visited
// more than once without it being a fatal error.
func (o Options) DisableIncludeOnlyOnce() Options {
	o.IncludeOnlyOnce = false
	o.includeOnlyOnceSet = true
	return o
}

func (o Options) withDefaults() Options {
	if !o.stripSpacesSet {
		o.StripSpaces = true
	}
	if !o.preferResourceAsFileSet {
		o.PreferResourceAsFile = true
	}
	if !o.includeOnlyOnceSet {
		o.IncludeOnlyOnce = true
	}
	if o.Locator == nil {
		o.Locator = project.DefaultLocator
	}
	return o
}

func (o Options) splitConfig() split.Config {
	return split.Config{Delimiters: o.Delimiters, StripSpaces: o.StripSpaces}
}

func (o Options) projectConfig(body []shape.Shape) project.Config {
	return project.Config{
		Body:                 body,
		StatementConfig:      o.Config,
		Delimiters:           o.splitConfig(),
		Locator:              o.Locator,
		FS:                   o.FS,
		PreferResourceAsFile: o.PreferResourceAsFile,
		IncludeOnlyOnce:      o.IncludeOnlyOnce,
	}
}

// Parse parses entry and, transitively, every source it includes,
// against the grammar described by body (spec.md §4.H, §4.I).
func Parse(entry token.SourceID, body []shape.Shape, opts Options) (*project.Project, error) {
	return project.Parse(entry, opts.withDefaults().projectConfig(body))
}

// ParseFile parses a single filesystem source, ignoring any include
// directives it may contain — a thin convenience over source.ParseFile
// for grammars and callers that don't need the project/include graph.
func ParseFile(path string, body []shape.Shape, opts Options) (*source.ParsedSource, error) {
	o := opts.withDefaults()
	return source.ParseFile(path, body, o.Config, o.splitConfig())
}

// ParseString parses text directly under the given SourceID, without
// touching the filesystem or expanding includes — useful for tests
// and for parsing an already-materialized snippet (SPEC_FULL.md §4's
// "Features recovered from original_source/" — Python's
// Parser.parse_string).
func ParseString(text string, id token.SourceID, body []shape.Shape, opts Options) (*source.ParsedSource, error) {
	o := opts.withDefaults()
	return source.ParseString(text, id, body, o.Config, o.splitConfig())
}

// Statements adapts a list of statement shapes into a grammar body —
// syntactic sugar for the common case of a flat disjunction of
// statement shapes with no nested blocks.
func Statements(ss ...shape.Statement) []shape.Shape {
	out := make([]shape.Shape, len(ss))
	for i, s := range ss {
		out[i] = shape.Stmt(s)
	}
	return out
}
