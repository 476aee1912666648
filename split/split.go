// Package split implements the line splitter (spec.md §4.B): turning
// one raw source line into an ordered sequence of (column, statement)
// parts, according to a configured set of literal delimiters and how
// each one is retained.
package split

import "strings"

// Retention controls what happens to a matched delimiter's own text.
type Retention int

const (
	// Skip drops the delimiter text entirely; only the text before it
	// is emitted as a statement.
	Skip Retention = iota
	// WithPrevious appends the delimiter text to the statement that
	// precedes it.
	WithPrevious
	// WithNext carries the delimiter text forward to prepend it to the
	// next emitted statement (possibly on a later delimiter match, or
	// the line's trailing remainder).
	WithNext
)

// Delimiter is one entry of the splitter's configuration: a literal,
// disjoint match string together with how it is retained and whether
// it terminates further splitting of the line.
type Delimiter struct {
	Text      string
	Retention Retention
	// Terminate stops scanning the rest of the line: everything from
	// the start of the current statement onward (the text before the
	// delimiter and the delimiter itself included) becomes one final
	// statement, prefixed by any pending WithNext carry.
	Terminate bool
}

// Config is the splitter configuration: an ordered set of delimiters
// (order breaks ties if two delimiters could match at the same
// position; the spec assumes they are disjoint so this normally never
// matters) plus whether to strip surrounding whitespace from each
// emitted statement.
type Config struct {
	Delimiters  []Delimiter
	StripSpaces bool
}

// Part is one split statement with the byte column, into the original
// (pre-strip) line, at which it starts.
type Part struct {
	Column int
	Text   string
}

// Split splits one raw line (its trailing newline already stripped by
// the reader) into parts, per spec.md §4.B. Structurally empty parts
// produced by adjacent delimiters (e.g. two SKIP delimiters in a row)
// are never emitted. With no delimiters configured, a line that is
// empty (after stripping, if cfg.StripSpaces) yields no parts at all.
// With delimiters, if cfg.StripSpaces strips a part down to "", it is
// still returned here — callers that want the "empty after stripping
// is dropped" behavior (component C, the sequence iterator) filter
// those out themselves, so Split's column bookkeeping stays a pure
// function of the unstripped input.
func Split(line string, cfg Config) []Part {
	if len(cfg.Delimiters) == 0 {
		text := line
		if cfg.StripSpaces {
			text = strings.TrimSpace(text)
		}
		if text == "" {
			return nil
		}
		return []Part{{Column: 0, Text: text}}
	}

	var parts []Part
	col := 0
	carry := ""
	i := 0
	n := len(line)

	emit := func(startCol int, text string) {
		if text == "" {
			return
		}
		if cfg.StripSpaces {
			text = strings.TrimSpace(text)
		}
		parts = append(parts, Part{Column: startCol, Text: text})
	}

	for i < n {
		d, matched := matchAt(line, i, cfg.Delimiters)
		if !matched {
			i++
			continue
		}
		textBefore := line[col:i]
		if d.Terminate {
			rest := line[col:]
			emit(col-len(carry), carry+rest)
			return parts
		}
		switch d.Retention {
		case Skip:
			emit(col-len(carry), carry+textBefore)
			carry = ""
		case WithPrevious:
			emit(col-len(carry), carry+textBefore+d.Text)
			carry = ""
		case WithNext:
			emit(col-len(carry), carry+textBefore)
			carry = d.Text
		}
		col = i + len(d.Text)
		i = col
	}

	tail := line[col:]
	if carry != "" || tail != "" {
		emit(col-len(carry), carry+tail)
	}
	return parts
}

func matchAt(line string, i int, delimiters []Delimiter) (Delimiter, bool) {
	for _, d := range delimiters {
		if d.Text == "" {
			continue
		}
		if hasPrefixAt(line, i, d.Text) {
			return d, true
		}
	}
	return Delimiter{}, false
}

func hasPrefixAt(line string, i int, prefix string) bool {
	if i+len(prefix) > len(line) {
		return false
	}
	return line[i:i+len(prefix)] == prefix
}
