package iter

import (
	"errors"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/opencontainers/go-digest"

	"github.com/hgrecco/flexparser/split"
)

type sliceLineSource struct {
	lines []string
	i     int
	err   error
}

func (s *sliceLineSource) Next() (string, bool, error) {
	if s.i >= len(s.lines) {
		return "", false, s.err
	}
	l := s.lines[s.i]
	s.i++
	return l, true, nil
}

func TestSequencePeekIsIdempotent(t *testing.T) {
	seq := NewSequence(&sliceLineSource{lines: []string{"a", "b"}}, split.Config{})
	t1, ok, err := seq.Peek()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
	t2, ok, err := seq.Peek()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(t1, t2))
	qt.Assert(t, qt.Equals(t1.Text, "a"))
}

func TestSequenceSkipsEmptyAfterStrip(t *testing.T) {
	seq := NewSequence(&sliceLineSource{lines: []string{"  ", "x"}}, split.Config{StripSpaces: true})
	tr, ok, err := seq.Next()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(tr.Text, "x"))
	qt.Assert(t, qt.Equals(tr.Line, 1))

	_, ok, err = seq.Next()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(ok))
}

func TestSequencePropagatesError(t *testing.T) {
	want := errors.New("boom")
	seq := NewSequence(&sliceLineSource{lines: nil, err: want}, split.Config{})
	_, _, err := seq.Next()
	qt.Assert(t, qt.ErrorIs(err, want))
}

func TestHashingOnlyCountsConsumedTriples(t *testing.T) {
	seq := NewSequence(&sliceLineSource{lines: []string{"a", "b"}}, split.Config{})
	h := NewHashing(seq)

	_, _, err := h.Peek()
	qt.Assert(t, qt.IsNil(err))
	afterPeek := h.Digest()

	_, _, err = h.Next()
	qt.Assert(t, qt.IsNil(err))
	afterOneNext := h.Digest()

	qt.Assert(t, qt.Not(qt.Equals(afterPeek.String(), afterOneNext.String())))
}

func TestHashingIsDeterministic(t *testing.T) {
	mk := func() *Hashing {
		return NewHashing(NewSequence(&sliceLineSource{lines: []string{"a", "b", "c"}}, split.Config{}))
	}
	h1, h2 := mk(), mk()
	for i := 0; i < 3; i++ {
		_, _, err := h1.Next()
		qt.Assert(t, qt.IsNil(err))
		_, _, err = h2.Next()
		qt.Assert(t, qt.IsNil(err))
	}
	qt.Assert(t, qt.Equals(h1.Digest().String(), h2.Digest().String()))
	qt.Assert(t, qt.Equals(h1.Digest().Algorithm(), digest.Algorithm("sha1")))
}
