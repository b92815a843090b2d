package shell

import (
	"io"

	"src.sexp.sh/pkg/sys"
)

// Starts handling signals in the background. The returned function stops the
// handling.
func initSignal(stderr io.Writer) func() {
	sigCh := sys.NotifySignals()
	go func() {
		for sig := range sigCh {
			logger.Println("signal", sys.SignalName(sig))
			handleSignal(sig, stderr)
		}
	}()
	return func() {
		sys.StopSignals(sigCh)
		close(sigCh)
	}
}
