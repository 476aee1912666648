package token

import (
	"testing"

	"github.com/go-quicktest/qt"
)

type fakeNode struct{ Base }

func TestStampSetsPosition(t *testing.T) {
	n := &fakeNode{}
	qt.Assert(t, qt.Equals(n.Position(), NoPos))

	Stamp(n, Position{Line: 3, Column: 5})
	qt.Assert(t, qt.Equals(n.Position(), Position{Line: 3, Column: 5}))
}

func TestPositionString(t *testing.T) {
	qt.Assert(t, qt.Equals(NoPos.String(), "-"))
	qt.Assert(t, qt.Equals(Position{Line: 1, Column: 2}.String(), "1:2"))
}

func TestSourceIDString(t *testing.T) {
	f := File("/tmp/a.conf")
	qt.Assert(t, qt.IsFalse(f.IsPackaged()))
	qt.Assert(t, qt.Equals(f.String(), "/tmp/a.conf"))

	p := Packaged("mypkg", "a.conf")
	qt.Assert(t, qt.IsTrue(p.IsPackaged()))
	qt.Assert(t, qt.Equals(p.String(), "mypkg:a.conf"))
}

func TestSourceIDComparable(t *testing.T) {
	a := File("/tmp/a.conf")
	b := File("/tmp/a.conf")
	qt.Assert(t, qt.Equals(a, b))

	m := map[SourceID]int{a: 1}
	m[b] = 2
	qt.Assert(t, qt.HasLen(m, 1))
}
