package split

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestSplitNoDelimiters(t *testing.T) {
	parts := Split("  hello world  ", Config{StripSpaces: true})
	qt.Assert(t, qt.DeepEquals(parts, []Part{{Column: 0, Text: "hello world"}}))
}

func TestSplitNoDelimitersEmptyAfterStrip(t *testing.T) {
	parts := Split("   ", Config{StripSpaces: true})
	qt.Assert(t, qt.HasLen(parts, 0))
}

func TestSplitSkip(t *testing.T) {
	cfg := Config{Delimiters: []Delimiter{{Text: ";", Retention: Skip}}, StripSpaces: true}
	parts := Split("a;b;c", cfg)
	qt.Assert(t, qt.DeepEquals(parts, []Part{
		{Column: 0, Text: "a"},
		{Column: 2, Text: "b"},
		{Column: 4, Text: "c"},
	}))
}

func TestSplitWithPrevious(t *testing.T) {
	cfg := Config{Delimiters: []Delimiter{{Text: ";", Retention: WithPrevious}}}
	parts := Split("a;b", cfg)
	qt.Assert(t, qt.DeepEquals(parts, []Part{
		{Column: 0, Text: "a;"},
		{Column: 2, Text: "b"},
	}))
}

func TestSplitWithNext(t *testing.T) {
	cfg := Config{Delimiters: []Delimiter{{Text: ";", Retention: WithNext}}}
	parts := Split("a;b", cfg)
	qt.Assert(t, qt.DeepEquals(parts, []Part{
		{Column: 0, Text: "a"},
		{Column: 1, Text: ";b"},
	}))
}

func TestSplitWithNextCarriesToTail(t *testing.T) {
	cfg := Config{Delimiters: []Delimiter{{Text: ";", Retention: WithNext}}}
	parts := Split("a;", cfg)
	qt.Assert(t, qt.DeepEquals(parts, []Part{
		{Column: 0, Text: "a"},
		{Column: 1, Text: ";"},
	}))
}

func TestSplitTerminate(t *testing.T) {
	cfg := Config{Delimiters: []Delimiter{{Text: "#", Terminate: true}}}
	parts := Split("a=1 # trailing comment", cfg)
	qt.Assert(t, qt.DeepEquals(parts, []Part{
		{Column: 0, Text: "a=1 # trailing comment"},
	}))
}

func TestSplitTerminateWithCarry(t *testing.T) {
	cfg := Config{Delimiters: []Delimiter{
		{Text: ";", Retention: WithNext},
		{Text: "#", Terminate: true},
	}}
	parts := Split("a;#c", cfg)
	qt.Assert(t, qt.DeepEquals(parts, []Part{
		{Column: 0, Text: "a"},
		{Column: 1, Text: ";#c"},
	}))
}

func TestSplitStripKeepsColumnOfUnstrippedStart(t *testing.T) {
	cfg := Config{Delimiters: []Delimiter{{Text: ";", Retention: Skip}}, StripSpaces: true}
	parts := Split(" a ; b ", cfg)
	qt.Assert(t, qt.DeepEquals(parts, []Part{
		{Column: 0, Text: "a"},
		{Column: 4, Text: "b"},
	}))
}
