package asm

import (
	"math"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// evaluate does compile-time $(...) evaluations. The expression sees no
// predeclared names; labels are not values at parse time.
func evaluate(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, starlark.StringDict{})
	if err != nil {
		err = &ErrEvaluation{Expr: expr, Err: err}
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = &ErrEvaluation{Expr: expr}
		return
	}

	value, ok = st_int.Int64()
	if !ok {
		// Saturate; the range check reports it.
		value = math.MaxInt64
		if st_int.Sign() < 0 {
			value = math.MinInt64
		}
	}

	return
}
