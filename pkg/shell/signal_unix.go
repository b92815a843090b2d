//go:build unix

package shell

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"src.sexp.sh/pkg/sys"
)

func handleSignal(sig os.Signal, stderr io.Writer) {
	switch sig {
	case unix.SIGHUP, unix.SIGTERM:
		os.Exit(0)
	case unix.SIGUSR1:
		fmt.Fprint(stderr, sys.DumpStack())
	}
}
