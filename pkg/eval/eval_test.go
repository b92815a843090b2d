package eval_test

import (
	"math"
	"strconv"
	"testing"

	. "src.sexp.sh/pkg/eval"
	"src.sexp.sh/pkg/eval/errs"
	. "src.sexp.sh/pkg/eval/evaltest"
	"src.sexp.sh/pkg/parse"
)

var (
	maxInt64 = strconv.FormatInt(math.MaxInt64, 10)
	minInt64 = strconv.FormatInt(math.MinInt64, 10)
)

func TestEval_Atoms(t *testing.T) {
	Test(t,
		That("1").Puts(1),
		That("-42").Puts(-42),
		That("()").Puts(Nil),
		That("( )").Puts(Nil),
		That("").DoesNothing(),
		That("x").Throws(UnboundSymbolError{"x"}, "x"),
		That("1 2 ()").Puts(1, 2, Nil),
	)
}

func TestEval_Add(t *testing.T) {
	Test(t,
		That("(+)").Puts(0),
		That("(+ 0)").Puts(0),
		That("(+ 1 2 3 4)").Puts(10),
		That("(+ -1 0)").Puts(-1),
		That("(+ 1 (+ 2 3))").Puts(6),
		That("(+ 1 ())").Throws(
			errs.BadValue{What: "argument 2 to +", Valid: "number", Actual: "()"},
			"()", "(+ 1 ())"),
		That("(+ "+maxInt64+" 1)").Throws(
			errs.OutOfRange{What: "result of +",
				ValidLow: minInt64, ValidHigh: maxInt64,
				Actual: "9223372036854775808"},
			"+", "(+ "+maxInt64+" 1)"),
		// Only the result must be in range.
		That("(+ "+maxInt64+" 1 -1)").Puts(math.MaxInt64),
		That("(+ "+minInt64+" -1)").Throws(ErrorWithType(errs.OutOfRange{})),
	)
}

func TestEval_Sub(t *testing.T) {
	Test(t,
		That("(- 2)").Puts(-2),
		That("(- 1 2 3 4)").Puts(-8),
		That("(- 10 4)").Puts(6),
		That("(- (- 5))").Puts(5),
		That("(-)").Throws(
			errs.ArityMismatch{What: "arguments to -",
				ValidLow: 1, ValidHigh: -1, Actual: 0},
			"-", "(-)"),
		That("(- "+minInt64+")").Throws(
			errs.OutOfRange{What: "result of -",
				ValidLow: minInt64, ValidHigh: maxInt64,
				Actual: "9223372036854775808"}),
		That("(- 1 ())").Throws(
			errs.BadValue{What: "argument 2 to -", Valid: "number", Actual: "()"}),
	)
}

func TestEval_ArgumentsEvaluatedBeforeTypeCheck(t *testing.T) {
	Test(t,
		// The unbound symbol in the third slot is reported, even though the
		// second slot is not a number.
		That("(+ () y)").Throws(UnboundSymbolError{"y"}, "y", "(+ () y)"),
		That("(+ () (def! z 1))").Throws(ErrorWithType(errs.BadValue{})).
			Then("z").Puts(1),
	)
}

func TestEval_Def(t *testing.T) {
	Test(t,
		That("(def! a (+ 1 2))").Puts(Nil),
		That("(def! a (+ 1 2))", "a").Puts(Nil, 3),
		That("(def! a (+ 1 2))").Then("a").Puts(Nil, 3),
		That("(def! a 1)", "(def! a 2)", "a").Puts(Nil, Nil, 2),
		That("(def! a ())", "a").Puts(Nil, Nil),
		That("(def! a 1)", "(def! b a)", "(+ a b)").Puts(Nil, Nil, 2),
		That("(def! a)").Throws(
			errs.ArityMismatch{What: "arguments to def!",
				ValidLow: 2, ValidHigh: 2, Actual: 1},
			"def!", "(def! a)"),
		That("(def! a 1 2)").Throws(ErrorWithType(errs.ArityMismatch{})),
		That("(def! 1 2)").Throws(
			errs.BadValue{What: "name of def!", Valid: "symbol", Actual: "1"},
			"1", "(def! 1 2)"),
		// The name is not evaluated.
		That("(def! (a) 2)").Throws(ErrorWithType(errs.BadValue{})),
		// A failed def! binds nothing.
		That("(def! a x)").Throws(UnboundSymbolError{"x"}, "x", "(def! a x)").
			Then("a").Throws(UnboundSymbolError{"a"}),
	)
}

func TestEval_BadApplications(t *testing.T) {
	Test(t,
		That("(foo 1)").Throws(UnrecognizedOperatorError{"foo"}, "foo", "(foo 1)"),
		// Arguments of an unrecognized operator are not evaluated.
		That("(foo x)").Throws(UnrecognizedOperatorError{"foo"}),
		That("(1 2)").Throws(NotAFunctionError{"1"}, "1", "(1 2)"),
		That("(() 1)").Throws(NotAFunctionError{"()"}, "()", "(() 1)"),
		That("((+ 1) 2)").Throws(NotAFunctionError{"(+ 1)"}),
		That("(+ 1 (bar))").Throws(
			UnrecognizedOperatorError{"bar"}, "bar", "(bar)", "(+ 1 (bar))"),
		That("(+ 1 (2))").Throws(ErrorWithMessage("not a function: 2")),
	)
}

func TestEval_MaxDepth(t *testing.T) {
	TestWithSetup(t, func(ev *Evaler) { ev.MaxDepth = 2 },
		That("(+ (+ 1))").Puts(1),
		That("(+ (+ (+ 1)))").Throws(ErrTooDeep,
			"(+ 1)", "(+ (+ 1))", "(+ (+ (+ 1)))"),
		That("(def! a (def! b (+ 1)))").Throws(ErrTooDeep),
	)
}

func TestEval_ParseError(t *testing.T) {
	Test(t,
		That("(1").DoesNotParse(),
		// Nothing is evaluated if the source does not parse.
		That("(def! a 1) (").DoesNotParse().Then("a").Throws(UnboundSymbolError{"a"}),
	)
}

func TestEval_InitialBindings(t *testing.T) {
	ev := NewEvaler(map[string]parse.Node{"answer": parse.NewNumber(42)})
	v, err := ev.Eval(parse.NewList(parse.NewSymbol("+"), parse.NewSymbol("answer"), parse.NewNumber(1)))
	if err != nil {
		t.Fatalf("got error %v", err)
	}
	if !parse.Equal(v, parse.NewNumber(43)) {
		t.Errorf("got %v, want 43", v)
	}
}

func TestEval_FreeFunction(t *testing.T) {
	env := NewEnv(nil)
	def, _, err := parse.Parse("(def! a (+ 1 2))")
	if err != nil {
		t.Fatal(err)
	}
	v, err := Eval(def, env)
	if err != nil || !parse.IsNil(v) {
		t.Errorf("Eval(def!) = (%v, %v), want ((), nil)", v, err)
	}
	got, ok := env.Get("a")
	if !ok || !parse.Equal(got, parse.NewNumber(3)) {
		t.Errorf("after def!, Get(a) = (%v, %v), want (3, true)", got, ok)
	}

	v, err = Eval(parse.NewSymbol("b"), env)
	if v != nil || Reason(err) != (UnboundSymbolError{"b"}) {
		t.Errorf("Eval(b) = (%v, %v), want unbound symbol error", v, err)
	}
	// Without a source, there is no stack trace.
	if exc := err.(*Exception); exc.StackTrace != nil {
		t.Errorf("got stack trace %v, want nil", exc.StackTrace)
	}
}

func TestEval_UsesInnermostFrame(t *testing.T) {
	env := NewEnv(map[string]parse.Node{"a": parse.NewNumber(1)})
	env.PushFrame()
	env.Put("a", parse.NewNumber(10))

	v, err := Eval(parse.NewList(parse.NewSymbol("+"), parse.NewSymbol("a")), env)
	if err != nil || !parse.Equal(v, parse.NewNumber(10)) {
		t.Errorf("got (%v, %v), want (10, nil)", v, err)
	}
	def := parse.NewList(parse.NewSymbol("def!"), parse.NewSymbol("b"), parse.NewNumber(2))
	if _, err := Eval(def, env); err != nil {
		t.Fatal(err)
	}
	top, _ := env.PopFrame()
	if _, ok := top["b"]; !ok {
		t.Errorf("def! did not write to the top frame")
	}
	if _, ok := env.Get("b"); ok {
		t.Errorf("b visible after popping the top frame")
	}
}

func TestEval_PanicsWithNoFrames(t *testing.T) {
	env := NewEnv(nil)
	env.PopFrame()
	defer func() {
		if recover() == nil {
			t.Errorf("want panic, got none")
		}
	}()
	Eval(parse.NewNumber(1), env)
}

func TestAfterDefine(t *testing.T) {
	ev := NewEvaler(nil)
	var names []string
	var values []string
	ev.AfterDefine = append(ev.AfterDefine, func(name string, value parse.Node) {
		names = append(names, name)
		values = append(values, value.String())
	})
	err := ev.EvalSource(parse.Source{Name: "[test]", Code: "(def! a 1) (def! b (- a))"}, EvalCfg{})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" ||
		values[0] != "1" || values[1] != "-1" {
		t.Errorf("hooks called with %v %v", names, values)
	}
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	want := []string{"+", "-", "def!"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("got %v, want %v", names, want)
		}
	}
}
