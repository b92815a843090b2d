// Sexp is an interpreter for a small s-expression language of integer
// arithmetic and global definitions. It runs scripts, offers an interactive
// REPL with persistent history, and can serve as a language server.
package main

import (
	"os"

	"src.sexp.sh/pkg/buildinfo"
	"src.sexp.sh/pkg/lsp"
	"src.sexp.sh/pkg/pprof"
	"src.sexp.sh/pkg/prog"
	"src.sexp.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		pprof.Program{Inner: prog.Composite(
			buildinfo.Program{}, lsp.Program{}, shell.Program{})}))
}
