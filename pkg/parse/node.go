package parse

import (
	"strconv"
	"strings"

	"src.sexp.sh/pkg/diag"
)

// Node is a node in the expression tree. It is one of *List, *Symbol and
// *Number.
//
// The range of a node is the part of the source it was parsed from. Nodes
// built during evaluation have a zero range. Trees are never modified after
// they are built.
type Node interface {
	diag.Ranger
	// String returns the canonical source text of the node.
	String() string
	isNode()
}

// List is an ordered sequence of nodes. A non-empty list whose head is a
// *Symbol is a function application; the empty list is nil.
type List struct {
	diag.Ranging
	Children []Node
}

// Symbol is an identifier.
type Symbol struct {
	diag.Ranging
	Name string
}

// Number is a signed 64-bit integer.
type Number struct {
	diag.Ranging
	Value int64
}

func (*List) isNode()   {}
func (*Symbol) isNode() {}
func (*Number) isNode() {}

// NewList returns a *List with the given children and a zero range.
func NewList(children ...Node) *List { return &List{Children: children} }

// NewSymbol returns a *Symbol with a zero range.
func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }

// NewNumber returns a *Number with a zero range.
func NewNumber(v int64) *Number { return &Number{Value: v} }

// Nil returns the empty list.
func Nil() *List { return &List{} }

// IsNil reports whether n is the empty list.
func IsNil(n Node) bool {
	l, ok := n.(*List)
	return ok && len(l.Children) == 0
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, child := range l.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(child.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (s *Symbol) String() string { return s.Name }

func (n *Number) String() string { return strconv.FormatInt(n.Value, 10) }

// Equal reports whether two trees are structurally equal. Ranges are ignored.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Equal(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	case *Symbol:
		b, ok := b.(*Symbol)
		return ok && a.Name == b.Name
	case *Number:
		b, ok := b.(*Number)
		return ok && a.Value == b.Value
	}
	return a == nil && b == nil
}

// Kind returns a short name of the variant of n, suitable for messages.
func Kind(n Node) string {
	switch n := n.(type) {
	case *List:
		if len(n.Children) == 0 {
			return "nil"
		}
		return "list"
	case *Symbol:
		return "symbol"
	case *Number:
		return "number"
	}
	return "unknown"
}
