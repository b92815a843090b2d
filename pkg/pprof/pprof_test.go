package pprof_test

import (
	"os"
	"testing"

	"src.sexp.sh/pkg/pprof"
	"src.sexp.sh/pkg/prog"
	. "src.sexp.sh/pkg/prog/progtest"
	"src.sexp.sh/pkg/testutil"
)

func TestProgram(t *testing.T) {
	testutil.InTempDir(t)

	Test(t, pprof.Program{Inner: noopProgram{}},
		ThatSexp("-cpuprofile", "cpuprof", "-allocsprofile", "allocsprof").DoesNothing(),
		ThatSexp("-cpuprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create CPU profile:"),
		ThatSexp("-allocsprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create memory allocation profile:"),
	)

	// There isn't much to test beyond a sanity check that the profile files
	// now exist.
	for _, name := range []string{"cpuprof", "allocsprof"} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("profile file does not exist: %v", err)
		}
	}
}

func TestProgram_PropagatesError(t *testing.T) {
	Test(t, pprof.Program{Inner: prog.Composite()},
		ThatSexp().ExitsWith(2).WritesStderrContaining("no suitable subprogram"),
	)
}

type noopProgram struct{}

func (noopProgram) Run([3]*os.File, *prog.Flags, []string) error { return nil }
