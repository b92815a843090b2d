package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"src.sexp.sh/pkg/diag"
	"src.sexp.sh/pkg/eval"
	"src.sexp.sh/pkg/parse"
	"src.sexp.sh/pkg/store/storedefs"
	"src.sexp.sh/pkg/sys"
)

// Configuration for the interactive mode.
type interactCfg struct {
	Prompt string
	AST    bool
	Parse  parse.Config
	// Where inputs are saved. May be nil.
	History storedefs.Store
}

// Runs an interactive session, reading inputs from stdin until EOF. An input
// is complete when it parses, or fails to parse before its end; until then,
// more lines are read to continue it.
func interact(ev *eval.Evaler, fds [3]*os.File, cfg *interactCfg) {
	in := bufio.NewReader(fds[0])
	showPrompt := sys.IsATTY(fds[0].Fd())
	contPrompt := strings.Repeat(" ", len(cfg.Prompt))

	var pending strings.Builder
	cmdNum := 0
	for {
		if showPrompt {
			if pending.Len() == 0 {
				fmt.Fprint(fds[2], cfg.Prompt)
			} else {
				fmt.Fprint(fds[2], contPrompt)
			}
		}
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			fmt.Fprintln(fds[2], "Cannot read input:", err)
			return
		}
		atEOF := err == io.EOF
		pending.WriteString(line)

		code := pending.String()
		if strings.TrimSpace(code) == "" {
			pending.Reset()
			if atEOF {
				break
			}
			continue
		}

		src := parse.Source{Name: fmt.Sprintf("[tty %v]", cmdNum+1), Code: code}
		p, parseErr := parse.ParseProgram(src, cfg.Parse)
		if parseErr != nil && isPartial(parseErr) && !atEOF {
			continue
		}
		cmdNum++
		pending.Reset()
		addHistory(cfg.History, code)

		if parseErr != nil {
			diag.ShowError(fds[2], parseErr)
		} else if err := evalForms(ev, fds, p, cfg.AST); err != nil {
			diag.ShowError(fds[2], err)
		}
		if atEOF {
			break
		}
	}
	if showPrompt {
		fmt.Fprintln(fds[2])
	}
}

func isPartial(err error) bool {
	for _, e := range parse.UnpackErrors(err) {
		if e.Partial {
			return true
		}
	}
	return false
}

func addHistory(st storedefs.Store, code string) {
	if st == nil {
		return
	}
	_, err := st.AddCmd(strings.TrimRight(code, "\n"))
	if err != nil {
		logger.Println("failed to add command to history:", err)
	}
}

// Restores the persisted bindings into the environment of ev, and arranges
// for future def! results to be persisted.
func persistBindings(ev *eval.Evaler, st storedefs.Store, stderr io.Writer) {
	bindings, err := st.Bindings()
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot read persisted bindings:", err)
	}
	for _, b := range bindings {
		value, err := parseValue(b.Value)
		if err != nil {
			logger.Printf("ignoring persisted binding %s: %v", b.Name, err)
			continue
		}
		ev.Env().Put(b.Name, value)
	}

	ev.AfterDefine = append(ev.AfterDefine, func(name string, value parse.Node) {
		if _, err := parseValue(value.String()); err != nil {
			logger.Printf("not persisting %s: %v", name, err)
			return
		}
		err := st.SetBinding(name, value.String())
		if err != nil {
			logger.Printf("failed to persist %s: %v", name, err)
		}
	})
}
