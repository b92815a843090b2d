// Package eval evaluates expression trees produced by the parse package.
package eval

import (
	"src.sexp.sh/pkg/diag"
	"src.sexp.sh/pkg/logutil"
	"src.sexp.sh/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// DefaultMaxDepth is the evaluation depth limit used when Evaler.MaxDepth is
// zero.
const DefaultMaxDepth = 1000

// Evaler evaluates trees against an environment that persists between
// evaluations. An Evaler is not safe for concurrent use.
type Evaler struct {
	env *Env

	// Maximum nesting of applications being evaluated. If zero,
	// DefaultMaxDepth is used.
	MaxDepth int
	// Functions called after a def! succeeds, with the defined name and
	// value.
	AfterDefine []func(name string, value parse.Node)
}

// NewEvaler creates a new Evaler whose environment has a base frame holding
// a copy of initial.
func NewEvaler(initial map[string]parse.Node) *Evaler {
	return NewEvalerWithEnv(NewEnv(initial))
}

// NewEvalerWithEnv creates a new Evaler using the given environment.
func NewEvalerWithEnv(env *Env) *Evaler {
	return &Evaler{env: env}
}

// Env returns the environment of the Evaler.
func (ev *Evaler) Env() *Env { return ev.env }

// Eval evaluates a single tree. The returned error, if not nil, is an
// *Exception. Since the source of the tree is not known, the exception has
// no stack trace.
func (ev *Evaler) Eval(n parse.Node) (parse.Node, error) {
	return ev.newCtx(nil).eval(n)
}

// Eval evaluates n against env, with default settings.
func Eval(n parse.Node, env *Env) (parse.Node, error) {
	return NewEvalerWithEnv(env).Eval(n)
}

// EvalCfg keeps configuration for (*Evaler).EvalProgram.
type EvalCfg struct {
	// Called with the value of each top-level form. May be nil.
	PutValue func(parse.Node)
}

// EvalProgram evaluates the forms of a program in order, stopping at the
// first exception. Exceptions carry a stack trace pointing into the source of
// the program.
func (ev *Evaler) EvalProgram(p *parse.Program, cfg EvalCfg) error {
	c := ev.newCtx(&p.Source)
	for _, form := range p.Forms {
		v, err := c.eval(form)
		if err != nil {
			return err
		}
		if cfg.PutValue != nil {
			cfg.PutValue(v)
		}
	}
	return nil
}

// EvalSource parses and evaluates a source. A parse error is returned as is,
// and nothing is evaluated in that case.
func (ev *Evaler) EvalSource(src parse.Source, cfg EvalCfg) error {
	p, err := parse.ParseProgram(src, parse.Config{})
	if err != nil {
		return err
	}
	return ev.EvalProgram(p, cfg)
}

// evalCtx is the state of one evaluation. The traceback holds the
// applications enclosing the form being evaluated, innermost first.
type evalCtx struct {
	ev        *Evaler
	src       *parse.Source
	maxDepth  int
	depth     int
	traceback *StackTrace
}

func (ev *Evaler) newCtx(src *parse.Source) *evalCtx {
	if ev.env.Depth() == 0 {
		panic("eval: environment has no frames")
	}
	maxDepth := ev.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &evalCtx{ev: ev, src: src, maxDepth: maxDepth}
}

// Returns a context for evaluating the parts of the application form.
func (c *evalCtx) enter(form *parse.List) *evalCtx {
	inner := *c
	inner.depth++
	if c.src != nil {
		inner.traceback = &StackTrace{Head: c.context(form), Next: c.traceback}
	}
	return &inner
}

func (c *evalCtx) context(r diag.Ranger) *diag.Context {
	return diag.NewContext(c.src.Name, c.src.Code, r)
}

// Builds an exception whose culprit is the given node.
func (c *evalCtx) errorf(culprit parse.Node, reason error) *Exception {
	exc := &Exception{Reason: reason}
	if c.src != nil {
		exc.StackTrace = &StackTrace{Head: c.context(culprit), Next: c.traceback}
	}
	return exc
}

func (c *evalCtx) eval(n parse.Node) (parse.Node, error) {
	switch n := n.(type) {
	case *parse.Number:
		return n, nil
	case *parse.Symbol:
		v, ok := c.ev.env.Get(n.Name)
		if !ok {
			return nil, c.errorf(n, UnboundSymbolError{n.Name})
		}
		return v, nil
	case *parse.List:
		if len(n.Children) == 0 {
			return n, nil
		}
		return c.apply(n)
	}
	panic("eval: unknown node type")
}

func (c *evalCtx) apply(form *parse.List) (parse.Node, error) {
	if c.depth >= c.maxDepth {
		return nil, c.errorf(form, ErrTooDeep)
	}
	head, ok := form.Children[0].(*parse.Symbol)
	if !ok {
		return nil, c.enter(form).errorf(form.Children[0],
			NotAFunctionError{form.Children[0].String()})
	}
	inner := c.enter(form)
	if special, ok := builtinSpecials[head.Name]; ok {
		return special(inner, form)
	}
	fn, ok := builtinFns[head.Name]
	if !ok {
		return nil, inner.errorf(head, UnrecognizedOperatorError{head.Name})
	}
	args := make([]parse.Node, len(form.Children)-1)
	for i, argNode := range form.Children[1:] {
		arg, err := inner.eval(argNode)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return fn(inner, form, args)
}
