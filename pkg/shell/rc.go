package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"src.sexp.sh/pkg/parse"
)

// Config is the content of rc.yaml.
type Config struct {
	// Prompt shown before each input when stdin is a terminal.
	Prompt string
	// Limit of list nesting and evaluation depth. Zero means the default.
	MaxDepth int
	// Whether interactive inputs are saved in the database.
	History bool
	// Whether def! bindings are saved in the database and restored in the
	// next interactive session.
	PersistBindings bool
	// Bindings added to the base frame of the environment.
	Bindings map[string]parse.Node
}

// DefaultConfig returns the configuration used when there is no rc file.
func DefaultConfig() *Config {
	return &Config{Prompt: "sexp> ", History: true}
}

type configFile struct {
	Prompt          *string           `yaml:"prompt"`
	MaxDepth        *int              `yaml:"max-depth"`
	History         *bool             `yaml:"history"`
	PersistBindings *bool             `yaml:"persist-bindings"`
	Bindings        map[string]string `yaml:"bindings"`
}

// ValidationError aggregates the problems found in an rc file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid rc file ")
	b.WriteString(e.Path)
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig reads the rc file at path. A missing or empty file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("rc: open %s: %w", path, err)
	}
	defer file.Close()
	return readConfig(path, file)
}

func readConfig(path string, r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("rc: parse %s: %w", path, err)
	}
	return raw.toConfig(path)
}

func (raw *configFile) toConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	errs := ValidationError{Path: path}

	if raw.Prompt != nil {
		cfg.Prompt = *raw.Prompt
	}
	if raw.MaxDepth != nil {
		if *raw.MaxDepth < 0 {
			errs.Issues = append(errs.Issues,
				fmt.Sprintf("max-depth must not be negative, but is %d", *raw.MaxDepth))
		}
		cfg.MaxDepth = *raw.MaxDepth
	}
	if raw.History != nil {
		cfg.History = *raw.History
	}
	if raw.PersistBindings != nil {
		cfg.PersistBindings = *raw.PersistBindings
	}

	if len(raw.Bindings) > 0 {
		cfg.Bindings = make(map[string]parse.Node, len(raw.Bindings))
		names := make([]string, 0, len(raw.Bindings))
		for name := range raw.Bindings {
			names = append(names, name)
		}
		// Issues are reported in a stable order.
		sort.Strings(names)
		for _, name := range names {
			if !isSymbolName(name) {
				errs.Issues = append(errs.Issues,
					fmt.Sprintf("bindings: %q is not a valid symbol", name))
				continue
			}
			value, err := parseValue(raw.Bindings[name])
			if err != nil {
				errs.Issues = append(errs.Issues,
					fmt.Sprintf("bindings.%s: %v", name, err))
				continue
			}
			cfg.Bindings[name] = value
		}
	}

	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

func isSymbolName(name string) bool {
	n, rest, err := parse.ParseForm(name)
	if err != nil || rest != "" {
		return false
	}
	sym, ok := n.(*parse.Symbol)
	return ok && sym.Name == name
}

// Parses the printed form of a value that can be bound: a number or nil.
// These are the values that evaluate to themselves.
func parseValue(s string) (parse.Node, error) {
	n, rest, err := parse.ParseForm(s)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, fmt.Errorf("trailing text %q", rest)
	}
	if _, ok := n.(*parse.Number); ok || parse.IsNil(n) {
		return n, nil
	}
	return nil, fmt.Errorf("must be a number or (), but is %s", n)
}
