package eval

import (
	"math"
	"math/big"
	"sort"
	"strconv"

	"src.sexp.sh/pkg/eval/errs"
	"src.sexp.sh/pkg/parse"
)

// A special operator receives its form unevaluated.
type specialOp func(c *evalCtx, form *parse.List) (parse.Node, error)

// A built-in function receives its arguments evaluated, left to right.
type builtinFn func(c *evalCtx, form *parse.List, args []parse.Node) (parse.Node, error)

var (
	builtinSpecials map[string]specialOp
	builtinFns      map[string]builtinFn
)

func init() {
	// Initialized in init to avoid an initialization loop: def! evaluates
	// its value, which may use any special operator.
	builtinSpecials = map[string]specialOp{
		"def!": def,
	}
	builtinFns = map[string]builtinFn{
		"+": add,
		"-": sub,
	}
}

// BuiltinNames returns the sorted names of all built-in operators.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinSpecials)+len(builtinFns))
	for name := range builtinSpecials {
		names = append(names, name)
	}
	for name := range builtinFns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// (def! name value)
func def(c *evalCtx, form *parse.List) (parse.Node, error) {
	if len(form.Children) != 3 {
		return nil, c.errorf(form.Children[0], errs.ArityMismatch{
			What: "arguments to def!", ValidLow: 2, ValidHigh: 2,
			Actual: len(form.Children) - 1})
	}
	name, ok := form.Children[1].(*parse.Symbol)
	if !ok {
		return nil, c.errorf(form.Children[1], errs.BadValue{
			What: "name of def!", Valid: "symbol",
			Actual: form.Children[1].String()})
	}
	value, err := c.eval(form.Children[2])
	if err != nil {
		return nil, err
	}
	c.ev.env.Put(name.Name, value)
	logger.Printf("def! %s = %s", name.Name, value)
	for _, hook := range c.ev.AfterDefine {
		hook(name.Name, value)
	}
	return parse.Nil(), nil
}

// (+ num...)
func add(c *evalCtx, form *parse.List, args []parse.Node) (parse.Node, error) {
	nums, err := numArgs(c, form, args)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, num := range nums {
		sum.Add(sum, big.NewInt(num))
	}
	return intResult(c, form, sum)
}

// (- num...)
func sub(c *evalCtx, form *parse.List, args []parse.Node) (parse.Node, error) {
	if len(args) == 0 {
		return nil, c.errorf(form.Children[0], errs.ArityMismatch{
			What: "arguments to -", ValidLow: 1, ValidHigh: -1, Actual: 0})
	}
	nums, err := numArgs(c, form, args)
	if err != nil {
		return nil, err
	}
	result := big.NewInt(nums[0])
	if len(nums) == 1 {
		result.Neg(result)
	}
	for _, num := range nums[1:] {
		result.Sub(result, big.NewInt(num))
	}
	return intResult(c, form, result)
}

// Checks that all arguments are numbers, left to right.
func numArgs(c *evalCtx, form *parse.List, args []parse.Node) ([]int64, error) {
	nums := make([]int64, len(args))
	for i, arg := range args {
		num, ok := arg.(*parse.Number)
		if !ok {
			return nil, c.errorf(form.Children[i+1], errs.BadValue{
				What:  "argument " + strconv.Itoa(i+1) + " to " + form.Children[0].String(),
				Valid: "number", Actual: arg.String()})
		}
		nums[i] = num.Value
	}
	return nums, nil
}

var (
	minInt64 = strconv.FormatInt(math.MinInt64, 10)
	maxInt64 = strconv.FormatInt(math.MaxInt64, 10)
)

func intResult(c *evalCtx, form *parse.List, i *big.Int) (parse.Node, error) {
	if !i.IsInt64() {
		return nil, c.errorf(form.Children[0], errs.OutOfRange{
			What:     "result of " + form.Children[0].String(),
			ValidLow: minInt64, ValidHigh: maxInt64, Actual: i.String()})
	}
	return parse.NewNumber(i.Int64()), nil
}
