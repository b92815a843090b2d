package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.sexp.sh/pkg/must"
)

const testURI = lsp.DocumentURI("file:///test.sexp")

var diagnosticsTests = []struct {
	name    string
	content string
	want    []lsp.Diagnostic
}{
	{"no error", "(+ 1 2)\n(def! x 3)", []lsp.Diagnostic{}},
	{"unfinished list", "(+ 1", []lsp.Diagnostic{{
		Range:    lspRange(0, 4, 0, 4),
		Severity: lsp.Error,
		Source:   "parse",
		Message:  "should be ')'",
	}}},
	{"bad child on second line", "(+ 1 2)\n(3 'x)", []lsp.Diagnostic{{
		Range:    lspRange(1, 3, 1, 4),
		Severity: lsp.Error,
		Source:   "parse",
		Message:  "should be list, number or symbol",
	}}},
}

func TestDiagnostics(t *testing.T) {
	for _, test := range diagnosticsTests {
		t.Run(test.name, func(t *testing.T) {
			got := diagnostics(testURI, test.content)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

var hoverTests = []struct {
	name      string
	content   string
	pos       lsp.Position
	wantText  string
	wantRange *lsp.Range
}{
	{"value of def!", "(def! x 5)\n(+ x 1)\n(- y)\n", lsp.Position{Line: 0, Character: 0},
		"()", rangePtr(0, 0, 0, 10)},
	{"sees earlier definitions", "(def! x 5)\n(+ x 1)\n(- y)\n", lsp.Position{Line: 1, Character: 2},
		"6", rangePtr(1, 0, 1, 7)},
	{"error", "(def! x 5)\n(+ x 1)\n(- y)\n", lsp.Position{Line: 2, Character: 3},
		"error: unbound symbol: y", rangePtr(2, 0, 2, 5)},
	{"earlier errors are ignored", "(- y)\n(def! y 2)\n(- y)", lsp.Position{Line: 2, Character: 1},
		"-2", rangePtr(2, 0, 2, 5)},
	{"atom", "(def! x 5)\nx", lsp.Position{Line: 1, Character: 0},
		"5", rangePtr(1, 0, 1, 1)},
	{"outside any form", "(def! x 5)\n(+ x 1)\n(- y)\n", lsp.Position{Line: 3, Character: 0},
		"", nil},
	{"forms before a parse error", "(+ 1 2) (+ 3", lsp.Position{Line: 0, Character: 1},
		"3", rangePtr(0, 0, 0, 7)},
}

func TestHover(t *testing.T) {
	for _, test := range hoverTests {
		t.Run(test.name, func(t *testing.T) {
			s := newServer()
			s.content[testURI] = test.content
			result, err := s.hover(context.Background(), nil,
				mustMarshal(lsp.TextDocumentPositionParams{
					TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
					Position:     test.pos,
				}))
			if err != nil {
				t.Fatal(err)
			}
			hover := result.(lsp.Hover)
			var text string
			if len(hover.Contents) > 0 {
				text = hover.Contents[0].Value
			}
			if text != test.wantText {
				t.Errorf("got hover text %q, want %q", text, test.wantText)
			}
			if diff := cmp.Diff(test.wantRange, hover.Range); diff != "" {
				t.Errorf("hover range (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHover_UnknownDocument(t *testing.T) {
	result, err := newServer().hover(context.Background(), nil,
		mustMarshal(lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
		}))
	if err != nil {
		t.Fatal(err)
	}
	if hover := result.(lsp.Hover); hover.Contents != nil || hover.Range != nil {
		t.Errorf("got %v, want empty hover", hover)
	}
}

type item struct {
	Label string
	Kind  lsp.CompletionItemKind
	Range lsp.Range
}

var completionTests = []struct {
	name    string
	content string
	pos     lsp.Position
	want    []item
}{
	{"defined names matching the prefix",
		"(def! xyz 1)\n(def! xab 2)\n(+ x", lsp.Position{Line: 2, Character: 4},
		[]item{
			{"xab", lsp.CIKVariable, lspRange(2, 3, 2, 4)},
			{"xyz", lsp.CIKVariable, lspRange(2, 3, 2, 4)},
		}},
	{"everything after an open paren",
		"(def! a 1)\n(", lsp.Position{Line: 1, Character: 1},
		[]item{
			{"+", lsp.CIKFunction, lspRange(1, 1, 1, 1)},
			{"-", lsp.CIKFunction, lspRange(1, 1, 1, 1)},
			{"def!", lsp.CIKFunction, lspRange(1, 1, 1, 1)},
			{"a", lsp.CIKVariable, lspRange(1, 1, 1, 1)},
		}},
	{"builtin",
		"(de", lsp.Position{Line: 0, Character: 3},
		[]item{{"def!", lsp.CIKFunction, lspRange(0, 1, 0, 3)}}},
	{"nested definitions",
		"(+ (def! inner 1) 2)\n(- in", lsp.Position{Line: 1, Character: 5},
		[]item{{"inner", lsp.CIKVariable, lspRange(1, 3, 1, 5)}}},
	{"only names defined earlier",
		"(- ab) (def! abc 1)", lsp.Position{Line: 0, Character: 5},
		[]item{}},
}

func TestCompletion(t *testing.T) {
	for _, test := range completionTests {
		t.Run(test.name, func(t *testing.T) {
			s := newServer()
			s.content[testURI] = test.content
			result, err := s.completion(context.Background(), nil,
				mustMarshal(lsp.CompletionParams{
					TextDocumentPositionParams: lsp.TextDocumentPositionParams{
						TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
						Position:     test.pos,
					}}))
			if err != nil {
				t.Fatal(err)
			}
			got := []item{}
			for _, ci := range result.([]lsp.CompletionItem) {
				if ci.TextEdit == nil || ci.TextEdit.NewText != ci.Label {
					t.Errorf("item %q has text edit %v", ci.Label, ci.TextEdit)
					continue
				}
				got = append(got, item{ci.Label, ci.Kind, ci.TextEdit.Range})
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("completion (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInvalidParams(t *testing.T) {
	s := newServer()
	for name, m := range map[string]method{
		"didOpen": s.didOpen, "didChange": s.didChange, "didClose": s.didClose,
		"hover": s.hover, "completion": s.completion,
	} {
		_, err := m(context.Background(), nil, json.RawMessage(`[]`))
		if err != errInvalidParams {
			t.Errorf("%s: got error %v, want errInvalidParams", name, err)
		}
	}
}

func TestDidClose(t *testing.T) {
	s := newServer()
	s.content[testURI] = "(+ 1 2)"
	_, err := s.didClose(context.Background(), nil, mustMarshal(
		lsp.DidCloseTextDocumentParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: testURI}}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.content[testURI]; ok {
		t.Errorf("content still kept after didClose")
	}
}

var positionTests = []struct {
	s   string
	idx int
	pos lsp.Position
}{
	{"ab\ncd", 4, lsp.Position{Line: 1, Character: 1}},
	{"ab\r\ncd", 5, lsp.Position{Line: 1, Character: 1}},
	{"a\rb", 2, lsp.Position{Line: 1, Character: 0}},
	{"你好", 3, lsp.Position{Line: 0, Character: 1}},
	{"😀x", 4, lsp.Position{Line: 0, Character: 2}},
}

func TestPositionConversion(t *testing.T) {
	for _, test := range positionTests {
		if got := lspPositionFromIdx(test.s, test.idx); got != test.pos {
			t.Errorf("lspPositionFromIdx(%q, %d) = %v, want %v", test.s, test.idx, got, test.pos)
		}
		if got := lspPositionToIdx(test.s, test.pos); got != test.idx {
			t.Errorf("lspPositionToIdx(%q, %v) = %d, want %d", test.s, test.pos, got, test.idx)
		}
	}
}

func TestServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverSide, clientSide := net.Pipe()
	done := serve(ctx, serverSide)

	published := make(chan lsp.PublishDiagnosticsParams, 10)
	client := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
				var params lsp.PublishDiagnosticsParams
				must.OK(json.Unmarshal(*req.Params, &params))
				published <- params
			}
			return nil, nil
		}))

	var initResult lsp.InitializeResult
	if err := client.Call(ctx, "initialize", lsp.InitializeParams{}, &initResult); err != nil {
		t.Fatal(err)
	}
	if !initResult.Capabilities.HoverProvider {
		t.Errorf("server doesn't advertise hover")
	}

	err := client.Call(ctx, "no/such/method", nil, nil)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}

	must.OK(client.Notify(ctx, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, Text: "(+ 1"}}))
	select {
	case params := <-published:
		if params.URI != testURI || len(params.Diagnostics) != 1 {
			t.Errorf("got diagnostics %v, want one for %v", params, testURI)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for diagnostics")
	}

	client.Close()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("server didn't stop after client disconnected")
	}
}

func lspRange(l1, c1, l2, c2 int) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: l1, Character: c1},
		End:   lsp.Position{Line: l2, Character: c2},
	}
}

func rangePtr(l1, c1, l2, c2 int) *lsp.Range {
	r := lspRange(l1, c1, l2, c2)
	return &r
}

func mustMarshal(v any) json.RawMessage {
	return must.OK1(json.Marshal(v))
}
