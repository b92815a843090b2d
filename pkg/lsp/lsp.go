// Package lsp implements a language server for sexp.
package lsp

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"src.sexp.sh/pkg/logutil"
	"src.sexp.sh/pkg/prog"
)

var logger = logutil.GetLogger("[lsp] ")

// Program is the LSP subprogram.
type Program struct{}

// Run serves the language server protocol over stdin and stdout if -lsp is
// given, and returns prog.ErrNotSuitable otherwise.
func (Program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.LSP {
		return prog.ErrNotSuitable
	}
	<-serve(context.Background(), transport{fds[0], fds[1]})
	return nil
}

// Starts a server on the stream, and returns a channel that is closed when
// the peer disconnects.
func serve(ctx context.Context, rwc io.ReadWriteCloser) <-chan struct{} {
	ctx, cancel := context.WithCancel(ctx)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()))
	done := make(chan struct{})
	go func() {
		<-conn.DisconnectNotify()
		logger.Println("client disconnected")
		cancel()
		close(done)
	}()
	return done
}

// The output side is owned by the caller of Program.Run, so only the input
// is closed.
type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }
func (c transport) Close() error                { return c.in.Close() }
