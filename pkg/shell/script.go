package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.sexp.sh/pkg/diag"
	"src.sexp.sh/pkg/eval"
	"src.sexp.sh/pkg/parse"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
	JSON        bool
	AST         bool
	Parse       parse.Config
}

// Evaluates a script, printing the value of each top-level form. It returns
// the exit status.
func script(ev *eval.Evaler, fds [3]*os.File, args []string, cfg *scriptCfg) int {
	arg0 := args[0]

	var name, code string
	if cfg.Cmd {
		name = "code from -c"
		code = arg0
	} else {
		var err error
		name, err = filepath.Abs(arg0)
		if err != nil {
			fmt.Fprintf(fds[2],
				"cannot get full path of script %q: %v\n", arg0, err)
			return 2
		}
		code, err = readFileUTF8(name)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
			return 2
		}
	}

	src := parse.Source{Name: name, Code: code}
	p, parseErr := parse.ParseProgram(src, cfg.Parse)
	if cfg.CompileOnly {
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(parseErr))
		} else if parseErr != nil {
			diag.ShowError(fds[2], parseErr)
		}
		if parseErr != nil {
			return 2
		}
		return 0
	}
	if parseErr != nil {
		diag.ShowError(fds[2], parseErr)
		return 2
	}

	err := evalForms(ev, fds, p, cfg.AST)
	if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	return 0
}

// Evaluates the forms of a program one by one, printing the value of each
// form to stdout, and its tree before that if ast is true.
func evalForms(ev *eval.Evaler, fds [3]*os.File, p *parse.Program, ast bool) error {
	evalCfg := eval.EvalCfg{PutValue: func(v parse.Node) {
		fmt.Fprintln(fds[1], v)
	}}
	for _, form := range p.Forms {
		if ast {
			parse.PPrintAST(form, fds[1])
		}
		err := ev.EvalProgram(
			&parse.Program{Source: p.Source, Forms: []parse.Node{form}}, evalCfg)
		if err != nil {
			return err
		}
	}
	return nil
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts parse errors into JSON.
func errorsToJSON(parseErr error) []byte {
	converted := []errorInJSON{}
	for _, e := range parse.UnpackErrors(parseErr) {
		converted = append(converted,
			errorInJSON{e.Context.Name, e.Context.From, e.Context.To, e.Message})
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
