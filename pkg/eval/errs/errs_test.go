package errs

import (
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{
		OutOfRange{What: "sum", ValidLow: "-9223372036854775808",
			ValidHigh: "9223372036854775807", Actual: "9223372036854775808"},
		"out of range: sum must be from -9223372036854775808 to " +
			"9223372036854775807, but is 9223372036854775808",
	},
	{
		BadValue{What: "argument of +", Valid: "number", Actual: "(1 2)"},
		"bad value: argument of + must be number, but is (1 2)",
	},
	{
		ArityMismatch{What: "arguments of def!", ValidLow: 2, ValidHigh: 2, Actual: 3},
		"arity mismatch: arguments of def! must be 2 values, but is 3 values",
	},
	{
		ArityMismatch{What: "arguments of -", ValidLow: 1, ValidHigh: -1, Actual: 0},
		"arity mismatch: arguments of - must be 1 or more values, but is 0 values",
	},
	{
		ArityMismatch{What: "arguments here", ValidLow: 2, ValidHigh: 3, Actual: 1},
		"arity mismatch: arguments here must be 2 to 3 values, but is 1 value",
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}
