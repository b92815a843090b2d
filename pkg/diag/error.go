package diag

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
	// Whether the error occurred at the end of the source, so that supplying
	// more text may resolve it.
	Partial bool
	// The underlying cause, if any. It is returned by Unwrap so that callers
	// can use errors.Is and errors.As on the error.
	Cause error
}

// Variables controlling the style of the message.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	line, col := e.Context.Position()
	return fmt.Sprintf("%s: %s:%d:%d: %s",
		e.Type, e.Context.Name, line, col, e.Message)
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	return title(e.Type) + ": " + messageStart + e.Message + messageEnd +
		"\n" + indent + "  " + e.Context.ShowCompact(indent+"  ")
}

// UnpackErrors returns the constituent errors of the given type if err is an
// *Error with the given type, or a MultiError containing such errors.
// Otherwise it returns nil.
func UnpackErrors(err error, typ string) []*Error {
	if err == nil {
		return nil
	}
	var multi MultiError
	if errors.As(err, &multi) {
		var errs []*Error
		for _, e := range multi {
			errs = append(errs, UnpackErrors(e, typ)...)
		}
		return errs
	}
	var e *Error
	if errors.As(err, &e) && e.Type == typ {
		return []*Error{e}
	}
	return nil
}

// MultiError combines multiple errors, as produced when a source contains
// more than one independent problem.
type MultiError []error

func (me MultiError) Error() string {
	msgs := make([]string, len(me))
	for i, e := range me {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Show shows all the constituent errors that can be shown, one per line.
func (me MultiError) Show(indent string) string {
	var sb strings.Builder
	for i, e := range me {
		if i > 0 {
			sb.WriteString("\n" + indent)
		}
		if shower, ok := e.(Shower); ok {
			sb.WriteString(shower.Show(indent))
		} else {
			sb.WriteString(e.Error())
		}
	}
	return sb.String()
}

func title(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + s[n:]
}
