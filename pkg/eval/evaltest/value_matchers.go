package evaltest

import "src.sexp.sh/pkg/parse"

// ValueMatcher is a value that can be passed to Case.Puts and has its own
// matching semantics.
type ValueMatcher interface{ matchValue(any) bool }

// Anything matches anything. It is useful when the value contains information
// that is useful when the test fails.
var Anything ValueMatcher = anything{}

type anything struct{}

func (anything) matchValue(any) bool { return true }
func (anything) String() string      { return "anything" }

// AnyNumber matches any number.
var AnyNumber ValueMatcher = anyNumber{}

type anyNumber struct{}

func (anyNumber) matchValue(x any) bool {
	_, ok := x.(*parse.Number)
	return ok
}

func (anyNumber) String() string { return "any number" }

// Nil matches the empty list.
var Nil ValueMatcher = isNil{}

type isNil struct{}

func (isNil) matchValue(x any) bool {
	n, ok := x.(parse.Node)
	return ok && parse.IsNil(n)
}

func (isNil) String() string { return "()" }
