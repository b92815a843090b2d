package eval

import (
	"errors"
	"testing"

	"src.sexp.sh/pkg/diag"
	"src.sexp.sh/pkg/eval/errs"
	"src.sexp.sh/pkg/parse"
	"src.sexp.sh/pkg/tt"
)

func evalSource(code string) error {
	return NewEvaler(nil).EvalSource(parse.Source{Name: "[test]", Code: code}, EvalCfg{})
}

func TestException_Show(t *testing.T) {
	tt.Test(t, tt.Fn("Show", func(code string) string {
		return evalSource(code).(diag.Shower).Show("")
	}), tt.Table{
		tt.Args("x").Rets(
			"Exception: \033[31;1munbound symbol: x\033[m\n" +
				"[test], line 1: \033[1;4mx\033[m"),
		tt.Args("(+ 1 x)").Rets(
			"Exception: \033[31;1munbound symbol: x\033[m\n" +
				"Traceback:\n" +
				"  [test], line 1:\n" +
				"    (+ 1 \033[1;4mx\033[m)\n" +
				"  [test], line 1:\n" +
				"    \033[1;4m(+ 1 x)\033[m"),
	})
}

func TestException_ShowWithoutStackTrace(t *testing.T) {
	exc := &Exception{Reason: errors.New("oops")}
	want := "Exception: \033[31;1moops\033[m"
	if got := exc.Show(""); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if exc.Range() != (diag.Ranging{}) {
		t.Errorf("got range %v, want zero", exc.Range())
	}
}

func TestException_Range(t *testing.T) {
	err := evalSource("(+ 1\n   x)")
	exc := err.(*Exception)
	if exc.Range() != (diag.Ranging{From: 8, To: 9}) {
		t.Errorf("got range %v, want 8-9", exc.Range())
	}
}

func TestReason(t *testing.T) {
	err := evalSource("(- 1 ())")
	var badValue errs.BadValue
	if !errors.As(err, &badValue) {
		t.Errorf("errors.As does not reach the reason of %v", err)
	}
	if Reason(err) != badValue {
		t.Errorf("Reason(err) = %v, want %v", Reason(err), badValue)
	}
	plain := errors.New("plain")
	if Reason(plain) != plain {
		t.Errorf("Reason does not return a non-exception error as is")
	}
}

func TestErrorMessages(t *testing.T) {
	tt.Test(t, tt.Fn("Error", error.Error), tt.Table{
		tt.Args(UnboundSymbolError{"a"}).Rets("unbound symbol: a"),
		tt.Args(UnrecognizedOperatorError{"foo"}).Rets("unrecognized operator: foo"),
		tt.Args(NotAFunctionError{"()"}).Rets("not a function: ()"),
		tt.Args(ErrTooDeep).Rets("evaluation nested too deeply"),
	})
}
