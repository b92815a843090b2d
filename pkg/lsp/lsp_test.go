package lsp

import (
	"fmt"
	"testing"

	. "src.sexp.sh/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	Test(t, Program{},
		ThatSexp("-lsp").
			WithStdin(request(1, "initialize", "{}")).
			WritesStdoutContaining(`"hoverProvider":true`),
		ThatSexp("-lsp").
			WithStdin(request(1, "textDocument/hover", "[]")).
			WritesStdoutContaining(`"message":"invalid params"`),
	)
}

func TestProgram_NotSuitable(t *testing.T) {
	Test(t, Program{},
		ThatSexp().ExitsWith(2).WritesStderrContaining("internal error"),
	)
}

func request(id int, method, params string) string {
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":%q,"params":%s}`, id, method, params)
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}
