// Package project implements the project and include driver (spec.md
// §4.H): parsing an entry source, discovering include directives in
// its tree, resolving them through a pluggable locator, and parsing
// transitively with cycle protection — the closest analogue in this
// module to cue/load's loader and its importStack-based cycle
// detection.
package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hgrecco/flexparser/errors"
	"github.com/hgrecco/flexparser/shape"
	"github.com/hgrecco/flexparser/source"
	"github.com/hgrecco/flexparser/split"
	"github.com/hgrecco/flexparser/token"
)

// Includer is implemented by a statement shape's accepted value when
// that shape is an include directive (spec.md §4.H, §6): Target names
// another source to splice in at this point.
type Includer interface {
	IncludeTarget() string
}

// Locator resolves an include directive's target string, found inside
// includingOrigin, to the SourceID of the source it names.
type Locator func(includingOrigin token.SourceID, target string) (token.SourceID, error)

// Key addresses one entry of a Project: the sentinel Root for the
// entry point, or the (including origin, target string) pair of one
// include edge (spec.md §3).
type Key struct {
	root            bool
	includingOrigin token.SourceID
	target          string
}

// Root is the sentinel key of the entry point.
var Root = Key{root: true}

func includeKey(includingOrigin token.SourceID, target string) Key {
	return Key{includingOrigin: includingOrigin, target: target}
}

func (k Key) String() string {
	if k.root {
		return "ROOT"
	}
	return fmt.Sprintf("%s->%q", k.includingOrigin, k.target)
}

// Config bundles the options of spec.md §4.I that the project driver
// (as opposed to a single source parse) needs.
type Config struct {
	Body            []shape.Shape
	StatementConfig shape.Config
	Delimiters      split.Config
	Locator         Locator
	FS              fs.FS
	PreferResourceAsFile bool
	// IncludeOnlyOnce makes a second visit to the same (including
	// origin, target) edge a fatal error instead of being silently
	// skipped (spec.md §9's resolved Open Question: "fatal by
	// default, configurable off").
	IncludeOnlyOnce bool
}

// Project is the ordered mapping of spec.md §3: one entry per parsed
// source, discovered depth-first in include order, keyed by Key.
type Project struct {
	cfg     Config
	order   []Key
	sources map[Key]*source.ParsedSource
}

type pendingInclude struct {
	includingOrigin token.SourceID
	target          string
}

// Parse parses entry and transitively every source it (transitively)
// includes, per spec.md §4.H.
func Parse(entry token.SourceID, cfg Config) (*Project, error) {
	if cfg.Locator == nil {
		cfg.Locator = DefaultLocator
	}
	p := &Project{cfg: cfg, sources: map[Key]*source.ParsedSource{}}

	if err := p.parseInto(Root, entry); err != nil {
		return nil, err
	}
	if err := p.expandIncludes(Root, entry); err != nil {
		return nil, err
	}
	return p, nil
}

// expandIncludes walks key's include directives in source order and
// fully expands each one — parsing it and recursing into its own
// includes — before moving on to the next, so p.order ends up
// depth-first by include position within the including source (spec.md
// §3, §5), the same traversal shape as cue/load's importStack-driven
// loader.
func (p *Project) expandIncludes(key Key, id token.SourceID) error {
	for _, item := range p.pendingFrom(key, id) {
		nextID, err := p.cfg.Locator(item.includingOrigin, item.target)
		if err != nil {
			return fmt.Errorf("flexparser: locate %q from %s: %w", item.target, item.includingOrigin, err)
		}
		childKey := includeKey(item.includingOrigin, item.target)
		if _, exists := p.sources[childKey]; exists {
			if p.cfg.IncludeOnlyOnce {
				return fmt.Errorf("flexparser: duplicate include %q from %s", item.target, item.includingOrigin)
			}
			continue
		}

		if err := p.parseInto(childKey, nextID); err != nil {
			return err
		}
		if err := p.expandIncludes(childKey, nextID); err != nil {
			return err
		}
	}
	return nil
}

func (p *Project) parseInto(key Key, id token.SourceID) error {
	var ps *source.ParsedSource
	var err error
	if id.IsPackaged() {
		if p.cfg.FS == nil {
			return fmt.Errorf("flexparser: packaged source %s requires a Config.FS", id)
		}
		ps, err = source.ParseResource(p.cfg.FS, id, p.cfg.Body, p.cfg.StatementConfig, p.cfg.Delimiters, p.cfg.PreferResourceAsFile)
	} else {
		ps, err = source.ParseFile(id.Path, p.cfg.Body, p.cfg.StatementConfig, p.cfg.Delimiters)
	}
	if err != nil {
		return err
	}
	p.order = append(p.order, key)
	p.sources[key] = ps
	return nil
}

// pendingFrom collects, in source order, the include directives found
// in the source stored under key (whose origin is id).
func (p *Project) pendingFrom(key Key, id token.SourceID) []pendingInclude {
	ps := p.sources[key]
	var out []pendingInclude
	for _, n := range shape.Flatten(ps.Tree) {
		if inc, ok := n.(Includer); ok {
			out = append(out, pendingInclude{includingOrigin: id, target: inc.IncludeTarget()})
		}
	}
	return out
}

// Get returns the parsed source stored under key, if any.
func (p *Project) Get(key Key) (*source.ParsedSource, bool) {
	ps, ok := p.sources[key]
	return ps, ok
}

// Order returns the Keys of every parsed source in discovery order:
// depth-first by include position within the including source
// (spec.md §3, §5).
func (p *Project) Order() []Key {
	out := make([]Key, len(p.order))
	copy(out, p.order)
	return out
}

// RootSource returns the entry point's parsed source.
func (p *Project) RootSource() *source.ParsedSource {
	return p.sources[Root]
}

// HasErrors reports whether any parsed source in the project contains
// an in-grammar error.
func (p *Project) HasErrors() bool {
	for _, key := range p.order {
		if shape.Errors(p.sources[key].Tree) != nil {
			return true
		}
	}
	return false
}

// LocalizedErrors walks every parsed source in the project and
// returns each in-grammar error augmented with its originating
// SourceID (spec.md §6, §7).
func (p *Project) LocalizedErrors() errors.List {
	var list errors.List
	for _, key := range p.order {
		ps := p.sources[key]
		for _, e := range shape.Errors(ps.Tree) {
			list.Add(ps.Origin, e)
		}
	}
	return list
}

// IterStatements flattens the project into a single in-order stream
// of non-include parsed values, recursing into an included source at
// the point of its include directive — so a reader sees an inlined
// stream, exactly as if the include had been pasted in place (spec.md
// §4.H, §6).
func (p *Project) IterStatements(includeOnlyOnce bool) []token.Positioned {
	visited := map[Key]bool{}
	var walk func(key Key, origin token.SourceID) []token.Positioned
	walk = func(key Key, origin token.SourceID) []token.Positioned {
		if includeOnlyOnce {
			if visited[key] {
				return nil
			}
			visited[key] = true
		}
		ps := p.sources[key]
		var out []token.Positioned
		for _, n := range shape.Flatten(ps.Tree) {
			inc, ok := n.(Includer)
			if !ok {
				out = append(out, n)
				continue
			}
			childKey := includeKey(origin, inc.IncludeTarget())
			if childPS, ok := p.sources[childKey]; ok {
				out = append(out, walk(childKey, childPS.Origin)...)
			}
		}
		return out
	}
	return walk(Root, p.RootSource().Origin)
}

// DefaultLocator resolves a filesystem target relative to the
// including file's directory, and a packaged-resource target as a new
// resource name within the same package. Absolute targets, and
// targets that escape the including directory via "..", are rejected
// (spec.md §4.H, resolving §9's worded-inconsistently Open Question).
func DefaultLocator(including token.SourceID, target string) (token.SourceID, error) {
	if including.IsPackaged() {
		return token.Packaged(including.Package, target), nil
	}
	if filepath.IsAbs(target) {
		return token.SourceID{}, fmt.Errorf("include target %q must not be absolute", target)
	}
	dir := filepath.Dir(including.Path)
	joined := filepath.Join(dir, target)
	rel, err := filepath.Rel(dir, joined)
	if err != nil {
		return token.SourceID{}, err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return token.SourceID{}, fmt.Errorf("include target %q escapes %s", target, dir)
	}
	return token.File(joined), nil
}
