// Package parse implements the parser of s-expressions.
//
// The parser works directly on the source text, without a separate
// tokenization pass. It is a recursive-descent parser with ordered choice:
// inside a list, each child is tried as a nested list, then as a number, then
// as a symbol, and the first alternative that matches is taken. A failed
// alternative never consumes any input.
package parse

import (
	"errors"
	"strconv"

	"src.sexp.sh/pkg/diag"
)

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Config keeps configuration options when parsing.
type Config struct {
	// Maximum nesting depth of lists. If zero, DefaultMaxDepth is used.
	MaxDepth int
}

// DefaultMaxDepth is the nesting limit used when Config.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Error is a parse error with the source context where it occurred. Its
// Cause is one of ExpectedError, ErrSExpr, ErrInteger and ErrTooDeep.
type Error = diag.Error

// ErrorType is the Type of all parse errors.
const ErrorType = "parse error"

// Errors.
var (
	// ErrSExpr is returned when no alternative matches inside a list.
	ErrSExpr = errors.New("should be list, number or symbol")
	// ErrInteger is returned when a run of digits does not fit in a signed
	// 64-bit integer.
	ErrInteger = errors.New("integer literal out of range")
	// ErrTooDeep is returned when lists are nested deeper than allowed.
	ErrTooDeep = errors.New("lists nested too deeply")
)

// Parse parses one list from the start of text, after skipping leading
// whitespace. It returns the list and the text remaining after the closing
// parenthesis; the remaining text is not examined.
//
// The returned error, if not nil, is one of ExpectedError, ErrSExpr,
// ErrInteger and ErrTooDeep.
func Parse(text string) (Node, string, error) {
	ps := newParser(text, Config{})
	n, rest, err := ps.sexpr(text)
	if err != nil {
		return nil, "", err
	}
	return n, rest, nil
}

// ParseForm is like Parse, but also accepts a bare number or symbol as the
// top-level form.
func ParseForm(text string) (Node, string, error) {
	ps := newParser(text, Config{})
	n, rest, err := ps.form(text)
	if err != nil {
		return nil, "", err
	}
	return n, rest, nil
}

// Program is the result of parsing a whole source.
type Program struct {
	Source Source
	Forms  []Node
}

// ParseProgram parses all the top-level forms in the source, until only
// whitespace remains. A top-level form is a list, a number or a symbol.
//
// The returned error, if not nil, is always an *Error; its Partial field is
// set if the error occurred at the end of the code.
func ParseProgram(src Source, cfg Config) (*Program, error) {
	ps := newParser(src.Code, cfg)
	prog := &Program{Source: src}
	rest := SkipSpace(src.Code)
	for rest != "" {
		var form Node
		var err error
		form, rest, err = ps.form(rest)
		if err != nil {
			return prog, ps.wrapError(src.Name, rest, err)
		}
		prog.Forms = append(prog.Forms, form)
		rest = SkipSpace(rest)
	}
	return prog, nil
}

// UnpackErrors returns the parse errors contained in err. It returns nil if
// err contains no parse errors.
func UnpackErrors(err error) []*Error {
	return diag.UnpackErrors(err, ErrorType)
}

// parser keeps the immutable state of a parse: the whole source, so that
// positions can be computed from the remaining text, and the nesting limit.
// The only mutable state is the current nesting depth.
type parser struct {
	src      string
	maxDepth int
	depth    int
}

func newParser(src string, cfg Config) *parser {
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &parser{src: src, maxDepth: maxDepth}
}

// Returns the byte offset of the remaining text rest.
func (ps *parser) pos(rest string) int { return len(ps.src) - len(rest) }

func (ps *parser) ranging(begin, rest string) diag.Ranging {
	return diag.Ranging{From: ps.pos(begin), To: ps.pos(rest)}
}

// All parsing methods return the remaining text. On error, the remaining text
// starts at the position where the error was found.

// form = sexpr | number | symbol
func (ps *parser) form(text string) (Node, string, error) {
	text = SkipSpace(text)
	if text == "" {
		return nil, text, ExpectedError{"form"}
	}
	if text[0] == '(' {
		return ps.sexpr(text)
	}
	n, rest, err := ps.atom(text)
	if err != nil && err != ErrInteger {
		return nil, text, ExpectedError{"form"}
	}
	return n, rest, err
}

// sexpr = ws '(' ws child* ws ')'
func (ps *parser) sexpr(text string) (Node, string, error) {
	begin := SkipSpace(text)
	text, err := Expect("(", begin)
	if err != nil {
		return nil, begin, err
	}
	if ps.depth >= ps.maxDepth {
		return nil, begin, ErrTooDeep
	}
	ps.depth++
	defer func() { ps.depth-- }()

	var children []Node
	for {
		text = SkipSpace(text)
		if text == "" || text[0] == ')' {
			break
		}
		var child Node
		child, text, err = ps.child(text)
		if err != nil {
			return nil, text, err
		}
		children = append(children, child)
	}
	rest, err := Expect(")", text)
	if err != nil {
		return nil, text, err
	}
	return &List{Ranging: ps.ranging(begin, rest), Children: children}, rest, nil
}

// child = sexpr | number | symbol
func (ps *parser) child(text string) (Node, string, error) {
	if text[0] == '(' {
		// Neither a number nor a symbol can start with '(', so the error of
		// the nested list is the most informative one.
		return ps.sexpr(text)
	}
	n, rest, err := ps.atom(text)
	if err == ErrInteger {
		return nil, rest, err
	} else if err != nil {
		return nil, text, ErrSExpr
	}
	return n, rest, nil
}

// atom = number | symbol
func (ps *parser) atom(text string) (Node, string, error) {
	n, rest, err := ps.number(text)
	if err == nil || err == ErrInteger {
		return n, rest, err
	}
	return ps.symbol(text)
}

// number = ['-'] digit+
func (ps *parser) number(text string) (Node, string, error) {
	digits := text
	if digits != "" && digits[0] == '-' {
		digits = digits[1:]
	}
	_, rest, err := TakeWhile(digits, "number", isDigit)
	if err != nil {
		return nil, text, err
	}
	lit := text[:len(text)-len(rest)]
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, text, ErrInteger
	}
	return &Number{Ranging: ps.ranging(text, rest), Value: v}, rest, nil
}

// symbol = (alnum | punctuation-except-parens-and-quote)+
func (ps *parser) symbol(text string) (Node, string, error) {
	name, rest, err := TakeWhile(text, "symbol", IsSymbolByte)
	if err != nil {
		return nil, text, err
	}
	return &Symbol{Ranging: ps.ranging(text, rest), Name: name}, rest, nil
}

func (ps *parser) wrapError(name, rest string, cause error) *Error {
	p := ps.pos(rest)
	end := p
	if end < len(ps.src) {
		end++
	}
	return &Error{
		Type:    ErrorType,
		Message: cause.Error(),
		Context: *diag.NewContext(name, ps.src, diag.Ranging{From: p, To: end}),
		Partial: p == len(ps.src),
		Cause:   cause,
	}
}
