package eval

import (
	"bytes"
	"errors"
	"fmt"

	"src.sexp.sh/pkg/diag"
)

// Exception is the error returned for every failed evaluation. Its Reason is
// the underlying error, one of the error types in this package and in the
// errs package.
type Exception struct {
	Reason     error
	StackTrace *StackTrace
}

// StackTrace represents a stack trace as a linked list of diag.Context. The
// head is the innermost form: the culprit of the exception. Following nodes
// are the enclosing applications, from inner to outer.
type StackTrace struct {
	Head *diag.Context
	Next *StackTrace
}

// Reason returns the Reason field if err is an *Exception. Otherwise it
// returns err itself.
func Reason(err error) error {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.Reason
	}
	return err
}

// Error returns the message of the reason of the exception.
func (exc *Exception) Error() string { return exc.Reason.Error() }

// Unwrap returns the reason of the exception.
func (exc *Exception) Unwrap() error { return exc.Reason }

// Show shows the exception.
func (exc *Exception) Show(indent string) string {
	buf := new(bytes.Buffer)

	var causeDescription string
	if shower, ok := exc.Reason.(diag.Shower); ok {
		causeDescription = shower.Show(indent)
	} else {
		causeDescription = "\033[31;1m" + exc.Reason.Error() + "\033[m"
	}
	fmt.Fprintf(buf, "Exception: %s", causeDescription)

	if exc.StackTrace != nil {
		buf.WriteString("\n")
		if exc.StackTrace.Next == nil {
			buf.WriteString(exc.StackTrace.Head.ShowCompact(indent))
		} else {
			buf.WriteString(indent + "Traceback:")
			for tb := exc.StackTrace; tb != nil; tb = tb.Next {
				buf.WriteString("\n" + indent + "  ")
				buf.WriteString(tb.Head.Show(indent + "    "))
			}
		}
	}
	return buf.String()
}

// Range returns the range of the culprit, or a zero Ranging if the exception
// has no stack trace.
func (exc *Exception) Range() diag.Ranging {
	if exc.StackTrace == nil {
		return diag.Ranging{}
	}
	return exc.StackTrace.Head.Range()
}

// UnboundSymbolError is the reason of an exception when a symbol has no
// binding in the environment.
type UnboundSymbolError struct {
	Name string
}

func (e UnboundSymbolError) Error() string {
	return "unbound symbol: " + e.Name
}

// UnrecognizedOperatorError is the reason of an exception when the head of
// an application names no built-in.
type UnrecognizedOperatorError struct {
	Name string
}

func (e UnrecognizedOperatorError) Error() string {
	return "unrecognized operator: " + e.Name
}

// NotAFunctionError is the reason of an exception when the head of a
// non-empty list is not a symbol.
type NotAFunctionError struct {
	// Printed form of the head.
	Head string
}

func (e NotAFunctionError) Error() string {
	return "not a function: " + e.Head
}

// ErrTooDeep is the reason of an exception when evaluation nests deeper than
// Evaler.MaxDepth.
var ErrTooDeep = errors.New("evaluation nested too deeply")
