package shell

import (
	"os"
	"path/filepath"

	"src.sexp.sh/pkg/env"
	"src.sexp.sh/pkg/prog"
)

// rcPath returns the path of rc.yaml: $XDG_CONFIG_HOME/sexp/rc.yaml, falling
// back to the default config directory of the OS.
func rcPath() (string, error) {
	dir, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sexp", "rc.yaml"), nil
}

// dbPath returns the path of the database: $SEXP_DB if set, otherwise
// db.bolt in $XDG_DATA_HOME/sexp, falling back to the default data directory
// of the OS.
func dbPath() (string, error) {
	if p := os.Getenv(env.SEXP_DB); p != "" {
		return p, nil
	}
	dir, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sexp", "db.bolt"), nil
}

func configHome() (string, error) {
	if dir := os.Getenv(env.XDG_CONFIG_HOME); dir != "" {
		return dir, nil
	}
	return defaultConfigHome()
}

func dataHome() (string, error) {
	if dir := os.Getenv(env.XDG_DATA_HOME); dir != "" {
		return dir, nil
	}
	return defaultDataHome()
}

// Resolves the path of rc.yaml, respecting the -norc and -rc flags. An empty
// path means no rc file is used.
func rcPathFromFlags(f *prog.Flags) (string, error) {
	if f.NoRc {
		return "", nil
	}
	if f.RC != "" {
		return f.RC, nil
	}
	return rcPath()
}

// Resolves the path of the database, respecting the -db flag, and creates its
// directory if needed.
func dbPathFromFlags(f *prog.Flags) (string, error) {
	p := f.DB
	if p == "" {
		var err error
		p, err = dbPath()
		if err != nil {
			return "", err
		}
	}
	return p, os.MkdirAll(filepath.Dir(p), 0700)
}
