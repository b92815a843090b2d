package shell

import (
	"io"
	"os"
)

func handleSignal(sig os.Signal, stderr io.Writer) {}
