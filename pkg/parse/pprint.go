package parse

import (
	"fmt"
	"io"
)

const indentInc = 2

// PPrintAST pretty-prints the tree rooted at n, one node per line, with the
// kind, range and value of each node. Children are indented below their list.
func PPrintAST(n Node, w io.Writer) {
	pprintASTRec(n, w, 0)
}

func pprintASTRec(n Node, w io.Writer, indent int) {
	r := n.Range()
	fmt.Fprintf(w, "%*s", indent, "")
	switch n := n.(type) {
	case *List:
		fmt.Fprintf(w, "List %d-%d\n", r.From, r.To)
		for _, child := range n.Children {
			pprintASTRec(child, w, indent+indentInc)
		}
	case *Symbol:
		fmt.Fprintf(w, "Symbol %d-%d %q\n", r.From, r.To, n.Name)
	case *Number:
		fmt.Fprintf(w, "Number %d-%d %d\n", r.From, r.To, n.Value)
	}
}
