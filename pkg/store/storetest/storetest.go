// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.sexp.sh/pkg/store/storedefs"
)

var (
	cmds     = []string{"(+ 1 2)", "(def! a 1)", "(def! b 2)", "(+ a b)"}
	searches = []struct {
		next      bool
		seq       int
		prefix    string
		wantedCmd storedefs.Cmd
		wantedErr error
	}{
		{false, 5, "(+", storedefs.Cmd{Text: "(+ a b)", Seq: 4}, nil},
		{false, 5, "(def!", storedefs.Cmd{Text: "(def! b 2)", Seq: 3}, nil},
		{false, 4, "(+", storedefs.Cmd{Text: "(+ 1 2)", Seq: 1}, nil},
		{false, 3, "(-", storedefs.Cmd{}, storedefs.ErrNoMatchingCmd},

		{true, 1, "(+", storedefs.Cmd{Text: "(+ 1 2)", Seq: 1}, nil},
		{true, 1, "(def!", storedefs.Cmd{Text: "(def! a 1)", Seq: 2}, nil},
		{true, 2, "(+", storedefs.Cmd{Text: "(+ a b)", Seq: 4}, nil},
		{true, 4, "(def!", storedefs.Cmd{}, storedefs.ErrNoMatchingCmd},
	}
)

// TestCmd tests the command history functionality of a Store. The store must
// be empty.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() => (%v, %v), want (1, nil)",
			startSeq, err)
	}

	// AddCmd
	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%v) => (%v, %v), want (%v, nil)",
				cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() => (%v, %v), want (%v, nil)",
			endSeq, err, wantedEndSeq)
	}

	// CmdsWithSeq
	wantCmdWithSeqs := make([]storedefs.Cmd, len(cmds))
	for i, cmd := range cmds {
		wantCmdWithSeqs[i] = storedefs.Cmd{Text: cmd, Seq: i + 1}
	}
	for i := 0; i < len(cmds); i++ {
		for j := i; j <= len(cmds); j++ {
			cmdWithSeqs, err := store.CmdsWithSeq(i+1, j+1)
			if !equalCmds(cmdWithSeqs, wantCmdWithSeqs[i:j]) || err != nil {
				t.Errorf("store.CmdsWithSeq(%v, %v) -> (%v, %v), want (%v, nil)",
					i+1, j+1, cmdWithSeqs, err, wantCmdWithSeqs[i:j])
			}
		}
	}

	// Cmd
	for i, wantedCmd := range cmds {
		seq := i + startSeq
		cmd, err := store.Cmd(seq)
		if cmd != wantedCmd || err != nil {
			t.Errorf("store.Cmd(%v) => (%v, %v), want (%v, nil)",
				seq, cmd, err, wantedCmd)
		}
	}

	// NextCmd and PrevCmd
	for _, tt := range searches {
		f := store.PrevCmd
		funcname := "store.PrevCmd"
		if tt.next {
			f = store.NextCmd
			funcname = "store.NextCmd"
		}
		cmd, err := f(tt.seq, tt.prefix)
		if cmd != tt.wantedCmd || !matchErr(err, tt.wantedErr) {
			t.Errorf("%s(%v, %v) => (%v, %v), want (%v, %v)",
				funcname, tt.seq, tt.prefix, cmd, err, tt.wantedCmd, tt.wantedErr)
		}
	}

	// DelCmd
	if err := store.DelCmd(1); err != nil {
		t.Error("Failed to remove cmd")
	}
	if seq, err := store.Cmd(1); !matchErr(err, storedefs.ErrNoMatchingCmd) {
		t.Errorf("Cmd(1) => (%v, %v), want (%v, %v)",
			seq, err, "", storedefs.ErrNoMatchingCmd)
	}
}

// TestBindings tests the binding persistence of a Store. The store must be
// empty.
func TestBindings(t *testing.T, store storedefs.Store) {
	if _, err := store.Binding("a"); err != storedefs.ErrNoBinding {
		t.Errorf("store.Binding(a) => %v, want %v", err, storedefs.ErrNoBinding)
	}

	for _, b := range []storedefs.Binding{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}, {Name: "a", Value: "-3"}} {
		if err := store.SetBinding(b.Name, b.Value); err != nil {
			t.Errorf("store.SetBinding(%v, %v) => %v, want nil", b.Name, b.Value, err)
		}
	}
	if v, err := store.Binding("a"); v != "-3" || err != nil {
		t.Errorf("store.Binding(a) => (%q, %v), want (\"-3\", nil)", v, err)
	}

	bindings, err := store.Bindings()
	want := []storedefs.Binding{{Name: "a", Value: "-3"}, {Name: "b", Value: "2"}}
	if diff := cmp.Diff(want, bindings); diff != "" || err != nil {
		t.Errorf("store.Bindings() => error %v, diff (-want +got):\n%s", err, diff)
	}

	if err := store.DelBinding("a"); err != nil {
		t.Errorf("store.DelBinding(a) => %v, want nil", err)
	}
	if err := store.DelBinding("nonexistent"); err != nil {
		t.Errorf("store.DelBinding(nonexistent) => %v, want nil", err)
	}
	if _, err := store.Binding("a"); err != storedefs.ErrNoBinding {
		t.Errorf("after deletion, store.Binding(a) => %v, want %v",
			err, storedefs.ErrNoBinding)
	}
}

func equalCmds(a, b []storedefs.Cmd) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func matchErr(e1, e2 error) bool {
	return (e1 == nil && e2 == nil) || (e1 != nil && e2 != nil && e1.Error() == e2.Error())
}
