package diag

import (
	"strings"
	"testing"
)

var contextTests = []struct {
	Name    string
	Context *Context
	Indent  string

	WantShow        string
	WantShowCompact string
}{
	{
		Name:    "single-line culprit",
		Context: contextInParen("[test]", "(+ 1 (bad))"),
		Indent:  "_",

		WantShow: lines(
			"[test], line 1:",
			"_(+ 1 <(bad)>)",
		),
		WantShowCompact: "[test], line 1: (+ 1 <(bad)>)",
	},
	{
		Name:    "multi-line culprit",
		Context: contextInParen("[test]", "(bad\nbad)\nmore"),
		Indent:  "_",

		WantShow: lines(
			"[test], line 1-2:",
			"_<(bad>",
			"_<bad)>",
		),
		WantShowCompact: lines(
			"[test], line 1-2: <(bad>",
			"_                  <bad)>",
		),
	},
	{
		Name: "trailing newline in culprit is removed",
		//                             012345678 9
		Context: NewContext("[test]", "(+ 1 2)\n", Ranging{0, 8}),
		Indent:  "_",

		WantShow: lines(
			"[test], line 1:",
			"_<(+ 1 2)>",
		),
		WantShowCompact: "[test], line 1: <(+ 1 2)>",
	},
	{
		Name: "empty culprit",
		//                             0123
		Context: NewContext("[test]", "(+ 1", Ranging{4, 4}),

		WantShow: lines(
			"[test], line 1:",
			"(+ 1<^>",
		),
		WantShowCompact: "[test], line 1: (+ 1<^>",
	},
	{
		Name:            "unknown culprit range",
		Context:         NewContext("[test]", "(a)", Ranging{-1, -1}),
		WantShow:        "[test], unknown position",
		WantShowCompact: "[test], unknown position",
	},
	{
		Name:            "invalid culprit range",
		Context:         NewContext("[test]", "(a)", Ranging{2, 1}),
		WantShow:        "[test], invalid position 2-1",
		WantShowCompact: "[test], invalid position 2-1",
	},
}

func TestContext(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	for _, test := range contextTests {
		t.Run(test.Name, func(t *testing.T) {
			gotShow := test.Context.Show(test.Indent)
			if gotShow != test.WantShow {
				t.Errorf("Show() -> %q, want %q", gotShow, test.WantShow)
			}
			gotShowCompact := test.Context.ShowCompact(test.Indent)
			if gotShowCompact != test.WantShowCompact {
				t.Errorf("ShowCompact() -> %q, want %q",
					gotShowCompact, test.WantShowCompact)
			}
		})
	}
}

func TestContext_Position(t *testing.T) {
	c := NewContext("[test]", "(a\n  (b))", Ranging{5, 8})
	if line, col := c.Position(); line != 2 || col != 3 {
		t.Errorf("Position() -> (%d, %d), want (2, 3)", line, col)
	}
	c = NewContext("[test]", "(a)", Ranging{5, 8})
	if line, col := c.Position(); line != 0 || col != 0 {
		t.Errorf("Position() of invalid range -> (%d, %d), want (0, 0)", line, col)
	}
}

func lines(lines ...string) string {
	return strings.Join(lines, "\n")
}
