// Package example is a small worked grammar used by the spec.md §8
// scenarios and by the flexparse command: comments, "ident = float"
// assignments, a @begin/@end block, and an include directive.
package example

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/hgrecco/flexparser/errors"
	"github.com/hgrecco/flexparser/shape"
	"github.com/hgrecco/flexparser/token"
)

// Comment matches a line starting with "#".
type Comment struct {
	token.Base
	Text string
}

// CommentShape is the Statement shape that produces *Comment.
type CommentShape struct{}

func (CommentShape) TryParse(text string, _ shape.Config) (token.Positioned, shape.Outcome) {
	if !strings.HasPrefix(text, "#") {
		return nil, shape.NotMine
	}
	return &Comment{Text: text}, shape.Accept
}

// EqualFloat matches "ident = float", accumulating an arbitrary
// precision decimal for the right-hand side via apd, the same
// arithmetic library cue's evaluator leans on for its own decimals.
type EqualFloat struct {
	token.Base
	Name  string
	Value *apd.Decimal
}

// NotAFloat is the in-grammar error produced when the right-hand side
// of an otherwise well-shaped "ident = ..." line doesn't parse as a
// decimal.
type NotAFloat struct {
	errors.Base
	Name string
	Text string
}

func (e *NotAFloat) Error() string {
	return fmt.Sprintf("%s = %q is not a valid float", e.Name, e.Text)
}

// EqualFloatShape is the Statement shape that produces *EqualFloat on
// success or *NotAFloat on a malformed right-hand side.
type EqualFloatShape struct{}

func (EqualFloatShape) TryParse(text string, _ shape.Config) (token.Positioned, shape.Outcome) {
	eq := strings.IndexByte(text, '=')
	if eq < 0 {
		return nil, shape.NotMine
	}
	name := strings.TrimSpace(text[:eq])
	if !isIdent(name) {
		return nil, shape.NotMine
	}
	rhs := strings.TrimSpace(text[eq+1:])
	d, _, err := apd.NewFromString(rhs)
	if err != nil {
		return &NotAFloat{Name: name, Text: rhs}, shape.Reject
	}
	return &EqualFloat{Name: name, Value: d}, shape.Accept
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Open and Close are the opening/closing statement shapes of the
// "@begin ... @end" block.
type Open struct{ token.Base }
type Close struct{ token.Base }

type OpenShape struct{}

func (OpenShape) TryParse(text string, _ shape.Config) (token.Positioned, shape.Outcome) {
	if strings.TrimSpace(text) != "@begin" {
		return nil, shape.NotMine
	}
	return &Open{}, shape.Accept
}

type CloseShape struct{}

func (CloseShape) TryParse(text string, _ shape.Config) (token.Positioned, shape.Outcome) {
	if strings.TrimSpace(text) != "@end" {
		return nil, shape.NotMine
	}
	return &Close{}, shape.Accept
}

// Block is a shape.Block over Open/body/Close, where body is Comment
// and EqualFloat: the root's flat statements without Include.
var Block = shape.NewBlock(
	[]shape.Statement{OpenShape{}},
	[]shape.Shape{shape.Stmt(CommentShape{}), shape.Stmt(EqualFloatShape{})},
	[]shape.Statement{CloseShape{}},
)

// Include matches "include <target>" and carries the target string
// for the project package's include driver.
type Include struct {
	token.Base
	Target string
}

// IncludeTarget implements project.Includer.
func (i *Include) IncludeTarget() string { return i.Target }

type IncludeShape struct{}

func (IncludeShape) TryParse(text string, _ shape.Config) (token.Positioned, shape.Outcome) {
	const prefix = "include "
	if !strings.HasPrefix(text, prefix) {
		return nil, shape.NotMine
	}
	target := strings.TrimSpace(text[len(prefix):])
	if target == "" {
		return nil, shape.NotMine
	}
	return &Include{Target: target}, shape.Accept
}

// Body is the flat root grammar of spec.md §8's scenarios 1, 2, 3, 6:
// comments, assignments, and includes, tried in this order.
var Body = []shape.Shape{
	shape.Stmt(CommentShape{}),
	shape.Stmt(EqualFloatShape{}),
	shape.Stmt(IncludeShape{}),
}

// BodyWithBlock additionally allows the @begin/@end block (scenario
// 4): Block is tried before the flat statement shapes so an opening
// "@begin" is never mistaken for anything else.
var BodyWithBlock = []shape.Shape{
	Block,
	shape.Stmt(CommentShape{}),
	shape.Stmt(EqualFloatShape{}),
	shape.Stmt(IncludeShape{}),
}

// FormatValue renders an EqualFloat's decimal the way the flexparse
// command prints it: fixed notation, no trailing exponent noise.
func FormatValue(d *apd.Decimal) string {
	return d.Text('f')
}
