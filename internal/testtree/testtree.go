// Package testtree provides test-only helpers for comparing and
// dumping flexparser's parsed trees: a cmp.Diff-based structural
// comparison plus a kr/pretty dump for failure messages, the role
// cmd/cue's own test helpers and internal/encoding/yaml's
// encode_test.go fill in the teacher.
package testtree

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"

	"github.com/hgrecco/flexparser/token"
)

// entry summarizes one tree node as its committed Position plus a
// %#v rendering of the node's exported fields. Diffing the rendering
// instead of the node itself sidesteps every grammar-specific node
// type's unexported token.Base.pos field without needing a
// per-type cmp.Exporter option.
type entry struct {
	Position token.Position
	Value    string
}

func summarize(nodes []token.Positioned) []entry {
	out := make([]entry, len(nodes))
	for i, n := range nodes {
		out[i] = entry{Position: n.Position(), Value: fmt.Sprintf("%#v", n)}
	}
	return out
}

// Diff returns a human-readable report of how want and got's
// flattened statement streams differ, or "" if they're equal.
func Diff(want, got []token.Positioned) string {
	return cmp.Diff(summarize(want), summarize(got))
}

// Equal reports whether want and got summarize identically.
func Equal(want, got []token.Positioned) bool {
	return cmp.Equal(summarize(want), summarize(got))
}

// Dump renders nodes with kr/pretty's verbose formatter, for a
// failure message more legible than a bare %#v on a slice of
// interface values.
func Dump(nodes []token.Positioned) string {
	return fmt.Sprintf("%# v", pretty.Formatter(nodes))
}
