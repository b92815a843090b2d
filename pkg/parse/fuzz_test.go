package parse

import (
	"testing"
)

func FuzzParseProgram(f *testing.F) {
	f.Add("(+ 1 2)")
	f.Add("(def! a (- 3 -4))\na")
	f.Add("(a (b (c")
	f.Fuzz(func(t *testing.T, code string) {
		prog, err := ParseProgram(Source{Name: "fuzz", Code: code}, Config{})
		if err != nil {
			return
		}
		// Printing and reparsing a parsed program gives the same trees.
		for _, form := range prog.Forms {
			again, rest, err := ParseForm(form.String())
			if err != nil || rest != "" || !Equal(form, again) {
				t.Errorf("reparse of %q: got (%v, %q, %v)", form.String(), again, rest, err)
			}
		}
	})
}
