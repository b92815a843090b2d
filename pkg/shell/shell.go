// Package shell is the entry point for the terminal interface of sexp.
package shell

import (
	"fmt"
	"os"

	"src.sexp.sh/pkg/eval"
	"src.sexp.sh/pkg/logutil"
	"src.sexp.sh/pkg/parse"
	"src.sexp.sh/pkg/prog"
	"src.sexp.sh/pkg/store"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It runs a script when given arguments,
// and an interactive session otherwise.
type Program struct{}

// Run runs the shell.
func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.MaxDepth < 0 {
		return prog.BadUsage("-max-depth must not be negative")
	}
	cfg := loadConfig(fds, f)
	if f.MaxDepth > 0 {
		cfg.MaxDepth = f.MaxDepth
	}

	if f.History || f.Bindings {
		if len(args) > 0 {
			return prog.BadUsage("arguments are not allowed with -history or -bindings")
		}
		return listStore(fds, f)
	}

	ev := eval.NewEvaler(cfg.Bindings)
	ev.MaxDepth = cfg.MaxDepth
	parseCfg := parse.Config{MaxDepth: cfg.MaxDepth}

	if len(args) > 0 {
		exit := script(ev, fds, args, &scriptCfg{
			Cmd: f.CodeInArg, CompileOnly: f.CompileOnly, JSON: f.JSON, AST: f.AST,
			Parse: parseCfg})
		return prog.Exit(exit)
	}
	if f.CodeInArg {
		return prog.BadUsage("-c requires an argument")
	}
	if f.CompileOnly {
		return prog.BadUsage("-compileonly requires a script or -c")
	}

	cleanup := initSignal(fds[2])
	defer cleanup()

	icfg := &interactCfg{Prompt: cfg.Prompt, AST: f.AST, Parse: parseCfg}
	if cfg.History || cfg.PersistBindings {
		st, err := openStore(f)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
			fmt.Fprintln(fds[2], "History and persisted bindings will not work.")
		} else {
			defer st.Close()
			if cfg.History {
				icfg.History = st
			}
			if cfg.PersistBindings {
				persistBindings(ev, st, fds[2])
			}
		}
	}
	interact(ev, fds, icfg)
	return nil
}

// Loads rc.yaml, falling back to the default configuration with a warning
// when it can't be used.
func loadConfig(fds [3]*os.File, f *prog.Flags) *Config {
	path, err := rcPathFromFlags(f)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning: cannot find rc file:", err)
		return DefaultConfig()
	}
	if path == "" {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning:", err)
		logger.Println("ignoring rc file:", err)
		return DefaultConfig()
	}
	return cfg
}

func openStore(f *prog.Flags) (store.DBStore, error) {
	path, err := dbPathFromFlags(f)
	if err != nil {
		return nil, fmt.Errorf("cannot find database: %w", err)
	}
	return store.NewStore(path)
}

// Prints the content of the store requested by the flags.
func listStore(fds [3]*os.File, f *prog.Flags) error {
	st, err := openStore(f)
	if err != nil {
		return err
	}
	defer st.Close()

	if f.History {
		next, err := st.NextCmdSeq()
		if err != nil {
			return err
		}
		cmds, err := st.CmdsWithSeq(0, next)
		if err != nil {
			return err
		}
		for _, cmd := range cmds {
			fmt.Fprintf(fds[1], "%5d  %s\n", cmd.Seq, cmd.Text)
		}
	}
	if f.Bindings {
		bindings, err := st.Bindings()
		if err != nil {
			return err
		}
		for _, b := range bindings {
			fmt.Fprintf(fds[1], "%s = %s\n", b.Name, b.Value)
		}
	}
	return nil
}
