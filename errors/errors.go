// Package errors defines the in-grammar error model shared across
// flexparser.
//
// Two taxonomies exist, matching spec.md §7. In-grammar errors
// (values produced by a grammar author's Reject, or the engine's own
// UnknownStatement/UnexpectedEndOfStream) are tree nodes: an Error
// here is never returned as a Go error by the parser itself, and a bad
// statement never aborts a parse — it becomes a node like any other.
// Fatal errors (I/O, locator, duplicate-include) are plain Go errors
// that escape the public entry point immediately; this package has
// nothing to do with those, they are just fmt.Errorf at the call
// site.
package errors

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hgrecco/flexparser/token"
)

// Error is an in-grammar error value: a positioned node that also
// happens to be a Go error, so a grammar author's Reject payload and
// the engine's two built-in terminal errors can share one interface.
type Error interface {
	error
	token.Positioned
}

// Base is embedded by grammar-author Reject payload types, the same
// way token.Base is embedded by ordinary accepted-value types. It
// supplies Position (via the embedded token.Base) and the message.
//
//	type NotAValidIdentifier struct {
//		errors.Base
//		Text string
//	}
//	func (e *NotAValidIdentifier) Error() string {
//		return fmt.Sprintf("not a valid identifier: %q", e.Text)
//	}
type Base struct {
	token.Base
}

// Unknown is the built-in error produced when a body position cannot
// be claimed by any declared body shape (spec.md §4.A).
type Unknown struct {
	Base
	Text string
}

func (u *Unknown) Error() string { return fmt.Sprintf("unknown statement: %q", u.Text) }

// NewUnknown builds an UnknownStatement error for the given raw text.
// The caller (the block-consume loop) still stamps its position.
func NewUnknown(text string) *Unknown {
	return &Unknown{Text: text}
}

// UnexpectedEOF is the built-in error produced when the iterator is
// exhausted while a block is still open (spec.md §4.A, §4.E step 2d).
type UnexpectedEOF struct {
	Base
}

func (e *UnexpectedEOF) Error() string { return "unexpected end of stream" }

// NewUnexpectedEOF builds the UnexpectedEndOfStream marker, already
// stamped at token.NoPos per spec.md §3 invariant 1.
func NewUnexpectedEOF() *UnexpectedEOF {
	e := &UnexpectedEOF{}
	token.Stamp(e, token.NoPos)
	return e
}

// Located pairs an in-grammar Error with the SourceID of the parsed
// source it was found in, as returned by localized_errors (spec.md
// §6, §7).
type Located struct {
	Origin token.SourceID
	Err    Error
}

func (l Located) Error() string {
	return fmt.Sprintf("%s:%s: %s", l.Origin, l.Err.Position(), l.Err.Error())
}

// List aggregates Located errors, sortable by origin and position and
// de-duplicable, matching the ordering guarantees of cue/errors.List
// and cue/errors.Sanitize.
type List []Located

// Add appends err, localized to origin, to the list.
func (l *List) Add(origin token.SourceID, err Error) {
	*l = append(*l, Located{Origin: origin, Err: err})
}

// Sanitize returns a copy of l sorted by (origin, line, column) with
// exact duplicate entries removed.
func (l List) Sanitize() List {
	if len(l) == 0 {
		return nil
	}
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Located) int {
		if c := cmp.Compare(a.Origin.String(), b.Origin.String()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Err.Position().Line, b.Err.Position().Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Err.Position().Column, b.Err.Position().Column)
	})
	return slices.CompactFunc(out, func(a, b Located) bool {
		return a.Origin == b.Origin && a.Err.Position() == b.Err.Position() && a.Err.Error() == b.Err.Error()
	})
}

// Error implements the error interface for a List itself, so a List
// can be returned wherever a single error is expected.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}
