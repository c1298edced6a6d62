package maths

import (
	"errors"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

type binaryFunc func(a, b cty.Value) (cty.Value, error)

var (
	arithmeticOps = []string{"add", "subtract", "multiply", "divide", "modulo", "pow"}
	comparisonOps = []string{"eq", "neq", "lt", "lte", "gt", "gte"}
)

// ErrDivisionByZero is returned when dividing or taking the modulo by zero.
var ErrDivisionByZero = errors.New("division by zero")

func arithmetic(op string) (binaryFunc, error) {
	switch op {
	case "add":
		return func(a, b cty.Value) (cty.Value, error) { return a.Add(b), nil }, nil
	case "subtract":
		return func(a, b cty.Value) (cty.Value, error) { return a.Subtract(b), nil }, nil
	case "multiply":
		return func(a, b cty.Value) (cty.Value, error) { return a.Multiply(b), nil }, nil
	case "divide":
		return func(a, b cty.Value) (cty.Value, error) {
			if b.Equals(cty.Zero).True() {
				return cty.NilVal, ErrDivisionByZero
			}
			return a.Divide(b), nil
		}, nil
	case "modulo":
		return func(a, b cty.Value) (cty.Value, error) {
			if b.Equals(cty.Zero).True() {
				return cty.NilVal, ErrDivisionByZero
			}
			return a.Modulo(b), nil
		}, nil
	case "pow":
		return pow, nil
	}
	return nil, fmt.Errorf("unknown arithmetic operation '%s'", op)
}

func pow(a, b cty.Value) (cty.Value, error) {
	x, _ := a.AsBigFloat().Float64()
	y, _ := b.AsBigFloat().Float64()
	r := math.Pow(x, y)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return cty.NilVal, fmt.Errorf("%v to the power of %v is not a finite number", x, y)
	}
	return cty.NumberFloatVal(r), nil
}

func compare(op string) (binaryFunc, error) {
	var fn func(a, b cty.Value) cty.Value
	switch op {
	case "eq":
		fn = cty.Value.Equals
	case "neq":
		fn = func(a, b cty.Value) cty.Value { return a.Equals(b).Not() }
	case "lt":
		fn = cty.Value.LessThan
	case "lte":
		fn = cty.Value.LessThanOrEqualTo
	case "gt":
		fn = cty.Value.GreaterThan
	case "gte":
		fn = cty.Value.GreaterThanOrEqualTo
	default:
		return nil, fmt.Errorf("unknown comparison '%s'", op)
	}
	return func(a, b cty.Value) (cty.Value, error) { return fn(a, b), nil }, nil
}
