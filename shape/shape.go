// Package shape implements the statement/block grammar contracts and
// the recursive block-consumption algorithm (spec.md §4.D, §4.E,
// §4.F): the part of flexparser a grammar author actually writes
// against.
//
// Per spec.md §9's design note, shape discovery uses explicit
// registration rather than runtime type reflection: a BlockShape's
// opening/body/closing class lists are passed to NewBlock at
// construction, not discovered by introspecting generic type
// parameters. This is the idiomatic choice for a statically typed
// target and is how cue/ast fixes a node's child shapes at compile
// time rather than reflecting on them.
package shape

import (
	"github.com/hgrecco/flexparser/errors"
	"github.com/hgrecco/flexparser/iter"
	"github.com/hgrecco/flexparser/token"
)

// Config is the opaque, user-supplied value threaded to every
// Statement.TryParse call (spec.md §4.I).
type Config = any

// Outcome is the three-way result of Statement.TryParse.
type Outcome int

const (
	// Accept means the text was syntactically this shape's and well
	// formed; the returned value is the parsed node.
	Accept Outcome = iota
	// Reject means the text was syntactically this shape's but
	// semantically invalid; the returned value is a typed error node,
	// and parsing continues past it.
	Reject
	// NotMine means another shape may try this text; the returned
	// value is ignored.
	NotMine
)

// Statement is the contract a grammar author implements to turn one
// statement's text into a parsed value (spec.md §4.D).
type Statement interface {
	TryParse(text string, cfg Config) (value token.Positioned, outcome Outcome)
}

// Shape is satisfied by anything that can attempt to consume the next
// element(s) of an iterator: a Statement (via Stmt) or a nested
// *Block. It is how a Block's Body list holds a mix of statement and
// block shapes uniformly (spec.md §4.E).
type Shape interface {
	consume(it iter.Iterator, cfg Config) (token.Positioned, bool, error)
}

type statementShape struct{ s Statement }

// Stmt adapts a Statement into a Shape, for use in a Block's Opening,
// Body, or Closing lists.
func Stmt(s Statement) Shape { return statementShape{s: s} }

func (ss statementShape) consume(it iter.Iterator, cfg Config) (token.Positioned, bool, error) {
	t, ok, err := it.Peek()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	val, outcome := ss.s.TryParse(t.Text, cfg)
	if outcome == NotMine {
		return nil, false, nil
	}
	if _, _, err := it.Next(); err != nil {
		return nil, false, err
	}
	token.Stamp(val, token.Position{Line: t.Line, Column: t.Column})
	return val, true, nil
}

// Block declares a block grammar rule: an ordered disjunction of
// opening statement shapes, an ordered list of body shapes (tried in
// declared order, first non-NotMine wins), and an ordered disjunction
// of closing statement shapes. A Block value is itself a Shape, so it
// can appear inside another Block's Body list as a nested block
// (spec.md §4.E).
type Block struct {
	opening []Statement
	body    []Shape
	closing []Statement
}

// NewBlock declares a block shape from its three slots. opening and
// closing are tried as an ordered disjunction of statement shapes;
// body is tried in the declared order and may mix Stmt-wrapped
// statement shapes with nested *Block values.
func NewBlock(opening []Statement, body []Shape, closing []Statement) *Block {
	return &Block{opening: opening, body: body, closing: closing}
}

func (b *Block) consume(it iter.Iterator, cfg Config) (token.Positioned, bool, error) {
	node, ok, err := b.Consume(it, cfg)
	if err != nil || !ok {
		return nil, ok, err
	}
	return node, true, nil
}

// Node is a committed block value: the (opening, body, closing) triple
// of spec.md §3.
type Node struct {
	token.Base
	Opening token.Positioned
	Body    []token.Positioned
	Closing token.Positioned
}

// HasErrors reports whether any node in this block's full recursive
// traversal is an in-grammar error (spec.md §4.A's cached errors
// view).
func (n *Node) HasErrors() bool {
	return len(Errors(n)) > 0
}

// Consume runs the algorithm of spec.md §4.E: try each opening class;
// on success loop trying closing (first), then body (second), else
// consume one triple unconditionally as UnknownStatement; stop on a
// matched closing or on iterator exhaustion (UnexpectedEndOfStream).
func (b *Block) Consume(it iter.Iterator, cfg Config) (*Node, bool, error) {
	var opening token.Positioned
	for _, os := range b.opening {
		v, ok, err := Stmt(os).consume(it, cfg)
		if err != nil {
			return nil, false, err
		}
		if ok {
			opening = v
			break
		}
	}
	if opening == nil {
		return nil, false, nil
	}

	node := &Node{Opening: opening}
	token.Stamp(node, opening.Position())

	for {
		closedAt := -1
		for i, cs := range b.closing {
			v, ok, err := Stmt(cs).consume(it, cfg)
			if err != nil {
				return nil, false, err
			}
			if ok {
				node.Closing = v
				closedAt = i
				break
			}
		}
		if closedAt >= 0 {
			return node, true, nil
		}

		_, peekOK, err := it.Peek()
		if err != nil {
			return nil, false, err
		}
		if !peekOK {
			node.Closing = unexpectedEOF()
			return node, true, nil
		}

		matched := false
		for _, bs := range b.body {
			v, ok, err := bs.consume(it, cfg)
			if err != nil {
				return nil, false, err
			}
			if ok {
				node.Body = append(node.Body, v)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		t, ok, err := it.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			node.Closing = unexpectedEOF()
			return node, true, nil
		}
		unk := errors.NewUnknown(t.Text)
		token.Stamp(unk, token.Position{Line: t.Line, Column: t.Column})
		node.Body = append(node.Body, unk)
	}
}

func unexpectedEOF() token.Positioned {
	e := errors.NewUnexpectedEOF()
	return e
}

// BeginOfStream is the synthetic opening of every root block,
// produced unconditionally at (0, 0) without consulting the iterator
// (spec.md §4.F).
type BeginOfStream struct{ token.Base }

// EndOfStream is the synthetic closing of a root block on natural
// iterator exhaustion (spec.md §4.F).
type EndOfStream struct{ token.Base }

// ConsumeRoot drives the root block: opening is the synthetic
// BeginOfStream at (0,0); the body loop is the same as Block.Consume's
// except there is no closing class to try, so it runs until the
// iterator is exhausted and then produces a clean EndOfStream — even
// if a nested block inside it had to terminate early with
// UnexpectedEndOfStream (spec.md §4.F).
func ConsumeRoot(body []Shape, it iter.Iterator, cfg Config) (*Node, error) {
	bos := &BeginOfStream{}
	token.Stamp(bos, token.BOSPos)

	node := &Node{Opening: bos}
	token.Stamp(node, token.BOSPos)

	for {
		_, peekOK, err := it.Peek()
		if err != nil {
			return nil, err
		}
		if !peekOK {
			eos := &EndOfStream{}
			token.Stamp(eos, token.NoPos)
			node.Closing = eos
			return node, nil
		}

		matched := false
		for _, bs := range body {
			v, ok, err := bs.consume(it, cfg)
			if err != nil {
				return nil, err
			}
			if ok {
				node.Body = append(node.Body, v)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		t, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			eos := &EndOfStream{}
			token.Stamp(eos, token.NoPos)
			node.Closing = eos
			return node, nil
		}
		unk := errors.NewUnknown(t.Text)
		token.Stamp(unk, token.Position{Line: t.Line, Column: t.Column})
		node.Body = append(node.Body, unk)
	}
}

// Flatten walks n depth-first in source order: opening, then each
// body element (a nested *Node flattens recursively inline), then
// closing (spec.md §4.E "Traversal").
func Flatten(n *Node) []token.Positioned {
	var out []token.Positioned
	if n.Opening != nil {
		out = append(out, n.Opening)
	}
	for _, child := range n.Body {
		if nested, ok := child.(*Node); ok {
			out = append(out, Flatten(nested)...)
		} else {
			out = append(out, child)
		}
	}
	if n.Closing != nil {
		out = append(out, n.Closing)
	}
	return out
}

// Errors returns the subset of n's full recursive traversal that is
// tagged as an in-grammar error (spec.md §4.A).
func Errors(n *Node) []errors.Error {
	var out []errors.Error
	for _, v := range Flatten(n) {
		if e, ok := v.(errors.Error); ok {
			out = append(out, e)
		}
	}
	return out
}
