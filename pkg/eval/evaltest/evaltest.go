// Package evaltest provides a framework for testing evaluation.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("(+ 1 2)").Puts(3),
//	    That("x").Throws(eval.UnboundSymbolError{Name: "x"}, "x"))
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.sexp.sh/pkg/eval"
	"src.sexp.sh/pkg/parse"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes []string
	setup func(ev *eval.Evaler)
	want  result
}

type result struct {
	ValueOut   []any
	ParseError error
	Exception  error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// evaluated separately, use the Then method to append code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "(+ 1 2)" evaluates to 3 reads:
//
//	That("(+ 1 2)").Puts(3)
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that evaluates the given code in addition. Multiple
// arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Evaler before the code is evaluated.
func (c Case) WithSetup(f func(*eval.Evaler)) Case {
	c.setup = f
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any value or error, for example:
//
//	That("").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Puts returns an altered Case that requires the top-level forms of the
// source code to evaluate to the specified values, in order. Each value is
// either a parse.Node, an int (shorthand for a number), or a ValueMatcher.
func (c Case) Puts(vs ...any) Case {
	c.want.ValueOut = vs
	return c
}

// Throws returns an altered Case that requires the source code to throw an
// exception with the given reason. The reason supports special matcher values
// constructed by functions like ErrorWithMessage.
//
// If at least one stacktrace string is given, the exception must also have a
// stacktrace matching the given source fragments, frame by frame (innermost
// frame first). If no stacktrace string is given, the stack trace of the
// exception is not checked.
func (c Case) Throws(reason error, stacks ...string) Case {
	c.want.Exception = exc{reason, stacks}
	return c
}

// DoesNotParse returns an altered Case that requires the source code to fail
// parsing.
func (c Case) DoesNotParse() Case {
	c.want.ParseError = AnyParseError
	return c
}

// Test runs test cases. For each test case, a new Evaler is created with
// NewEvaler.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Evaler) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Evaler is created
// with NewEvaler and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Evaler), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			ev := eval.NewEvaler(nil)
			setup(ev)
			if tc.setup != nil {
				tc.setup(ev)
			}

			r := evalAndCollect(ev, tc.codes)

			if !matchOut(tc.want.ValueOut, r.ValueOut) {
				t.Errorf("got value out (-want +got):\n%s",
					cmp.Diff(printAll(tc.want.ValueOut), printAll(r.ValueOut)))
			}
			if !matchErr(tc.want.ParseError, r.ParseError) {
				t.Errorf("got parse error %v, want %v",
					r.ParseError, tc.want.ParseError)
			}
			if !matchErr(tc.want.Exception, r.Exception) {
				t.Errorf("unexpected exception")
				if exc, ok := r.Exception.(*eval.Exception); ok {
					// For an *eval.Exception report the type of the reason.
					t.Logf("got: %T: %v", exc.Reason, exc)
					t.Logf("stack trace: %#v", getStackTexts(exc.StackTrace))
				} else {
					t.Logf("got: %T: %v", r.Exception, r.Exception)
				}
				t.Errorf("want: %v", tc.want.Exception)
			}
		})
	}
}

func evalAndCollect(ev *eval.Evaler, texts []string) result {
	var r result
	for _, text := range texts {
		err := ev.EvalSource(parse.Source{Name: "[test]", Code: text},
			eval.EvalCfg{PutValue: func(v parse.Node) {
				r.ValueOut = append(r.ValueOut, v)
			}})

		if parse.UnpackErrors(err) != nil {
			// NOTE: If multiple code pieces have parse errors, only the last
			// one is saved.
			r.ParseError = err
		} else if err != nil {
			// NOTE: If multiple code pieces throw exceptions, only the last one
			// is saved.
			r.Exception = err
		}
	}
	return r
}

func matchOut(want, got []any) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !match(got[i], want[i]) {
			return false
		}
	}
	return true
}

func match(got, want any) bool {
	switch want := want.(type) {
	case ValueMatcher:
		return want.matchValue(got)
	case int:
		return parse.Equal(got.(parse.Node), parse.NewNumber(int64(want)))
	case parse.Node:
		return parse.Equal(got.(parse.Node), want)
	}
	return false
}

func printAll(vs []any) []string {
	printed := make([]string, len(vs))
	for i, v := range vs {
		switch v := v.(type) {
		case parse.Node:
			printed[i] = v.String()
		default:
			printed[i] = fmt.Sprint(v)
		}
	}
	return printed
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}
