// Package sys provide system utilities with the same API across OSes.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 256

// NotifySignals returns a channel on which the signals the shell handles get
// delivered.
func NotifySignals() chan os.Signal { return notifySignals() }

// StopSignals stops delivering signals to a channel returned by
// NotifySignals.
func StopSignals(ch chan os.Signal) { stopSignals(ch) }

// SignalName returns the conventional name of a signal, like "SIGINT".
func SignalName(sig os.Signal) string { return signalName(sig) }

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
