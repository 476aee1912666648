// Package iter implements the peekable and hashing iterators of
// spec.md §4.C: one-element lookahead over the (line, column,
// statement) triples produced by the line splitter, and a wrapper
// that digests every triple as it is consumed.
package iter

import (
	"crypto/sha1"
	"encoding/binary"
	"hash"

	"github.com/opencontainers/go-digest"

	"github.com/hgrecco/flexparser/split"
)

// Triple is one (line, column, statement_text) value as yielded by a
// Sequence, before it is handed to any statement shape.
type Triple struct {
	Line   int
	Column int
	Text   string
}

// LineSource yields a source's lines one at a time, newline already
// stripped. Next returns ok == false once exhausted; a non-nil err is
// fatal (an I/O failure, spec.md §7).
type LineSource interface {
	Next() (line string, ok bool, err error)
}

// Iterator is the peek/commit contract component E's block-consume
// algorithm is built on: at most one element of lookahead, Peek is
// idempotent, and Next commits whatever was last peeked.
type Iterator interface {
	Peek() (Triple, bool, error)
	Next() (Triple, bool, error)
}

// Sequence is the base iterator: it reads lines from a LineSource,
// splits each one (split.Config), drops any part that is empty after
// stripping, and flattens the result into one triple stream numbered
// by 0-based line index.
type Sequence struct {
	src         LineSource
	cfg         split.Config
	nextLineIdx int
	curLine     int
	pending     []split.Part

	hasPeeked bool
	peeked    Triple
	peekedOK  bool
	peekedErr error
}

// NewSequence constructs a Sequence over src using cfg to split each
// line.
func NewSequence(src LineSource, cfg split.Config) *Sequence {
	return &Sequence{src: src, cfg: cfg}
}

func (s *Sequence) fill() (Triple, bool, error) {
	for len(s.pending) == 0 {
		line, ok, err := s.src.Next()
		if err != nil {
			return Triple{}, false, err
		}
		if !ok {
			return Triple{}, false, nil
		}
		parts := split.Split(line, s.cfg)
		kept := parts[:0:0]
		for _, p := range parts {
			if p.Text != "" {
				kept = append(kept, p)
			}
		}
		s.pending = kept
		s.curLine = s.nextLineIdx
		s.nextLineIdx++
	}
	p := s.pending[0]
	s.pending = s.pending[1:]
	return Triple{Line: s.curLine, Column: p.Column, Text: p.Text}, true, nil
}

// Peek returns the next triple without advancing. Calling it more
// than once in a row returns the same value.
func (s *Sequence) Peek() (Triple, bool, error) {
	if !s.hasPeeked {
		s.peeked, s.peekedOK, s.peekedErr = s.fill()
		s.hasPeeked = true
	}
	return s.peeked, s.peekedOK, s.peekedErr
}

// Next advances past and returns the next triple, committing whatever
// Peek last returned if Peek was called since the last Next.
func (s *Sequence) Next() (Triple, bool, error) {
	if s.hasPeeked {
		s.hasPeeked = false
		return s.peeked, s.peekedOK, s.peekedErr
	}
	return s.fill()
}

// sha1Algorithm names the digest algorithm used by Hashing's Digest.
// go-digest's predeclared algorithms (Canonical == SHA256, plus
// SHA384/SHA512) don't include SHA-1 — OCI registries deprecated it —
// so this spec's mandated SHA-1 (spec.md §3 invariant 5) is computed
// with the standard library and only labeled/hex-encoded through
// go-digest's Digest type, the same content-addressing value type
// mod/modregistry uses for registry blobs.
const sha1Algorithm digest.Algorithm = "sha1"

// Hashing wraps an Iterator and digests every triple returned by Next
// — in canonical binary form, (line, column, text) in that order — as
// it is consumed. Peek never touches the hash: only committed triples
// count toward the final digest.
type Hashing struct {
	inner Iterator
	h     hash.Hash
}

// NewHashing wraps inner with a fresh SHA-1 accumulator.
func NewHashing(inner Iterator) *Hashing {
	return &Hashing{inner: inner, h: sha1.New()}
}

func (h *Hashing) Peek() (Triple, bool, error) {
	return h.inner.Peek()
}

func (h *Hashing) Next() (Triple, bool, error) {
	t, ok, err := h.inner.Next()
	if err != nil || !ok {
		return t, ok, err
	}
	writeCanonical(h.h, t)
	return t, ok, nil
}

// Digest returns the SHA-1 digest of every triple consumed so far.
// Calling it mid-parse is valid (it reflects everything consumed up
// to that point) but the engine only reads it once, after the root
// block's consume returns.
func (h *Hashing) Digest() digest.Digest {
	return digest.NewDigestFromBytes(sha1Algorithm, h.h.Sum(nil))
}

func writeCanonical(w hash.Hash, t Triple) {
	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(t.Line))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(t.Column))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(t.Text)))
	w.Write(hdr[:])
	w.Write([]byte(t.Text))
}
