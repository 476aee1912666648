package shape

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/hgrecco/flexparser/errors"
	"github.com/hgrecco/flexparser/iter"
	"github.com/hgrecco/flexparser/token"
)

// fixedIterator replays a fixed slice of triples, the simplest possible
// iter.Iterator for exercising the consume algorithm in isolation.
type fixedIterator struct {
	triples []iter.Triple
	i       int
}

func (f *fixedIterator) Peek() (iter.Triple, bool, error) {
	if f.i >= len(f.triples) {
		return iter.Triple{}, false, nil
	}
	return f.triples[f.i], true, nil
}

func (f *fixedIterator) Next() (iter.Triple, bool, error) {
	t, ok, err := f.Peek()
	if ok {
		f.i++
	}
	return t, ok, err
}

func lines(texts ...string) *fixedIterator {
	triples := make([]iter.Triple, len(texts))
	for i, s := range texts {
		triples[i] = iter.Triple{Line: i, Column: 0, Text: s}
	}
	return &fixedIterator{triples: triples}
}

type comment struct {
	token.Base
	Text string
}

type commentShape struct{}

func (commentShape) TryParse(text string, _ Config) (token.Positioned, Outcome) {
	if !strings.HasPrefix(text, "#") {
		return nil, NotMine
	}
	return &comment{Text: text}, Accept
}

type openShape struct{}

func (openShape) TryParse(text string, _ Config) (token.Positioned, Outcome) {
	if text != "@begin" {
		return nil, NotMine
	}
	return &struct{ token.Base }{}, Accept
}

type closeShape struct{}

func (closeShape) TryParse(text string, _ Config) (token.Positioned, Outcome) {
	if text != "@end" {
		return nil, NotMine
	}
	return &struct{ token.Base }{}, Accept
}

func TestConsumeRootFlatGrammar(t *testing.T) {
	it := lines("# hi", "# bye")
	body := []Shape{Stmt(commentShape{})}
	node, err := ConsumeRoot(body, it, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(node.Body, 2))
	qt.Assert(t, qt.Equals(node.Body[0].(*comment).Text, "# hi"))
	qt.Assert(t, qt.IsFalse(node.HasErrors()))

	_, ok := node.Closing.(*EndOfStream)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestConsumeRootUnknownStatement(t *testing.T) {
	it := lines("# hi", "garbage")
	body := []Shape{Stmt(commentShape{})}
	node, err := ConsumeRoot(body, it, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(node.Body, 2))
	qt.Assert(t, qt.IsTrue(node.HasErrors()))

	unk, ok := node.Body[1].(*errors.Unknown)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(unk.Text, "garbage"))
}

func TestBlockConsumeHappyPath(t *testing.T) {
	it := lines("@begin", "# hi", "@end")
	block := NewBlock([]Statement{openShape{}}, []Shape{Stmt(commentShape{})}, []Statement{closeShape{}})
	node, ok, err := block.Consume(it, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(node.Body, 1))
	qt.Assert(t, qt.IsFalse(node.HasErrors()))
}

func TestBlockConsumeUnexpectedEOF(t *testing.T) {
	it := lines("@begin", "# hi")
	block := NewBlock([]Statement{openShape{}}, []Shape{Stmt(commentShape{})}, []Statement{closeShape{}})
	node, ok, err := block.Consume(it, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))

	_, isEOF := node.Closing.(*errors.UnexpectedEOF)
	qt.Assert(t, qt.IsTrue(isEOF))
	qt.Assert(t, qt.IsTrue(node.HasErrors()))
}

func TestBlockNotMineReturnsNilOk(t *testing.T) {
	it := lines("# hi")
	block := NewBlock([]Statement{openShape{}}, nil, []Statement{closeShape{}})
	node, ok, err := block.Consume(it, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.IsNil(node))
}

func TestFlattenRecursesIntoNestedBlocks(t *testing.T) {
	it := lines("@begin", "# hi", "@end")
	block := NewBlock([]Statement{openShape{}}, []Shape{Stmt(commentShape{})}, []Statement{closeShape{}})
	root, err := ConsumeRoot([]Shape{block}, it, nil)
	qt.Assert(t, qt.IsNil(err))

	flat := Flatten(root)
	// BOS, nested-open, comment, nested-close, EOS
	qt.Assert(t, qt.HasLen(flat, 5))
}
