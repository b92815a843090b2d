package parse

import (
	"strings"
	"unicode/utf8"
)

// ExpectedError is the error returned when a literal or a class of
// characters is required but absent.
type ExpectedError struct {
	Label string
}

func (e ExpectedError) Error() string {
	if utf8.RuneCountInString(e.Label) == 1 {
		return "should be '" + e.Label + "'"
	}
	return "should be " + e.Label
}

// SkipSpace returns text with the maximal leading run of ASCII whitespace
// removed.
func SkipSpace(text string) string {
	i := 0
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return text[i:]
}

// Expect returns the rest of text after literal if text starts with literal.
// Otherwise it returns text unchanged and an ExpectedError.
func Expect(literal, text string) (string, error) {
	if strings.HasPrefix(text, literal) {
		return text[len(literal):], nil
	}
	return text, ExpectedError{literal}
}

// TakeWhile consumes the maximal leading run of bytes of text satisfying pred,
// and returns the matched part and the rest. An empty match is an
// ExpectedError with the given label, and text is returned unchanged as the
// rest.
func TakeWhile(text, label string, pred func(byte) bool) (matched, rest string, err error) {
	i := 0
	for i < len(text) && pred(text[i]) {
		i++
	}
	if i == 0 {
		return "", text, ExpectedError{label}
	}
	return text[:i], text[i:], nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func isAlnum(b byte) bool {
	return isDigit(b) || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// IsSymbolByte reports whether b may appear in a symbol: ASCII alphanumerics
// and ASCII punctuation other than parentheses and the single quote.
func IsSymbolByte(b byte) bool {
	if isAlnum(b) {
		return true
	}
	// All printable non-space ASCII bytes that are not alphanumerics are
	// punctuation.
	return '!' <= b && b <= '~' && b != '(' && b != ')' && b != '\''
}
