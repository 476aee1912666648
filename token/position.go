// Package token defines the position and source-identity values shared
// by every other package in flexparser: a committed tree node carries a
// Position, and every parsed source is addressed by a SourceID.
package token

import "fmt"

// Position describes where a statement or block was found: a 0-based
// line index into the source's line sequence and a 0-based byte column
// into that line, as it was before any delimiter stripping.
//
// NoPos is the sentinel used for values that never came from the
// iterator: the initial state before a node is committed, and the
// synthetic end-of-stream markers (spec.md §3 invariant 1).
type Position struct {
	Line   int
	Column int
}

// NoPos is the (-1, -1) sentinel.
var NoPos = Position{Line: -1, Column: -1}

// BOSPos is the fixed (0, 0) position of every root block's synthetic
// opening.
var BOSPos = Position{Line: 0, Column: 0}

// IsValid reports whether pos was stamped from a real committed triple.
func (pos Position) IsValid() bool {
	return pos.Line >= 0 && pos.Column >= 0
}

func (pos Position) String() string {
	if !pos.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
}

// SourceID names a parseable unit: either a filesystem path, or a
// (package, resource) pair identifying a packaged resource. File keeps
// the path exactly as given; a relative path is not made absolute. It is
// comparable and usable as a map key, as required by the Project
// dictionary (spec.md §3).
type SourceID struct {
	// Path is set for filesystem sources; Package/Resource are set for
	// packaged-resource sources. Exactly one of the two forms is used.
	Path    string
	Package string
	Resource string
}

// File constructs a filesystem SourceID.
func File(path string) SourceID { return SourceID{Path: path} }

// Packaged constructs a packaged-resource SourceID.
func Packaged(pkg, resource string) SourceID {
	return SourceID{Package: pkg, Resource: resource}
}

// IsPackaged reports whether id addresses a packaged resource rather
// than a filesystem path.
func (id SourceID) IsPackaged() bool { return id.Path == "" }

func (id SourceID) String() string {
	if id.IsPackaged() {
		return fmt.Sprintf("%s:%s", id.Package, id.Resource)
	}
	return id.Path
}

// Positioned is implemented by every committed tree node: statement
// values, block values, and in-grammar error values alike. The stamp
// method is unexported so that only code in this package (via Stamp)
// can set a node's position — grammar authors get it for free, and
// only once, by embedding Base.
type Positioned interface {
	Position() Position
	stamp(Position)
}

// Base is embedded by grammar-author statement/error value types to
// satisfy Positioned. It is embedded by value and the produced node is
// used by pointer (*MyStatement), matching how cue/ast node types are
// built around an embedded position field and used as pointers.
type Base struct {
	pos     Position
	stamped bool
}

// Position returns the position stamped onto this node by the engine
// at commit time, or NoPos if it was never committed (should not
// happen for any node reachable from a parsed tree).
func (b *Base) Position() Position {
	if !b.stamped {
		return NoPos
	}
	return b.pos
}

func (b *Base) stamp(p Position) {
	b.pos = p
	b.stamped = true
}

// Stamp sets n's position. Called exactly once by the engine, when a
// value produced by try_parse is committed from the iterator (or, for
// synthetic nodes, when they are synthesized).
func Stamp(n Positioned, p Position) { n.stamp(p) }

