// Package stats evaluates creature stat blocks: fixed tuples or postfix
// formulas parameterized by level.
package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrFormula is returned for malformed postfix expressions.
var ErrFormula = errors.New("malformed stat formula")

// Formula operator tokens.
const (
	OpAdd    = "+"
	OpSub    = "-"
	OpMul    = "*"
	OpDiv    = "/"
	OpPower  = "power"
	OpSqrt   = "sqrt"
	OpMiddle = "middle"

	// TokenLevel is replaced by the creature level during evaluation.
	TokenLevel = "level"
)

// Formula is a postfix (reverse-Polish) token sequence, e.g.
// ["level", "2", "*", "10", "+"] for level*2+10.
type Formula []string

// ParseFormula splits a whitespace-separated postfix expression.
func ParseFormula(expr string) Formula {
	return Formula(strings.Fields(expr))
}

// String joins the tokens back with single spaces.
func (f Formula) String() string {
	return strings.Join(f, " ")
}

// Evaluate runs the formula for the given level and truncates the result
// to an integer.
//
// Binary operators pop a (top) then b (next) and push:
// + → a+b, - → b-a, * → a*b, / → b/a, power → b^a.
// sqrt pops one value, middle pops three and pushes their median.
func (f Formula) Evaluate(level int) (int, error) {
	stack := make([]float64, 0, len(f))

	pop := func(tok string, n int) ([]float64, error) {
		if len(stack) < n {
			return nil, fmt.Errorf("%w: %q needs %d operands, have %d", ErrFormula, tok, n, len(stack))
		}
		// popped[0] is the most recently pushed value
		popped := make([]float64, n)
		for i := range n {
			popped[i] = stack[len(stack)-1-i]
		}
		stack = stack[:len(stack)-n]
		return popped, nil
	}

	for _, tok := range f {
		switch tok {
		case OpAdd, OpSub, OpMul, OpDiv, OpPower:
			ops, err := pop(tok, 2)
			if err != nil {
				return 0, err
			}
			a, b := ops[0], ops[1]
			stack = append(stack, applyBinary(tok, a, b))

		case OpSqrt:
			ops, err := pop(tok, 1)
			if err != nil {
				return 0, err
			}
			stack = append(stack, math.Sqrt(ops[0]))

		case OpMiddle:
			ops, err := pop(tok, 3)
			if err != nil {
				return 0, err
			}
			slices.Sort(ops)
			stack = append(stack, ops[1])

		case TokenLevel:
			stack = append(stack, float64(level))

		default:
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: unknown token %q", ErrFormula, tok)
			}
			stack = append(stack, v)
		}
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("%w: %d values left on stack, want 1", ErrFormula, len(stack))
	}
	result := stack[0]
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: non-finite result %v at level %d", ErrFormula, result, level)
	}
	return int(result), nil
}

func applyBinary(op string, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return b - a
	case OpMul:
		return a * b
	case OpDiv:
		return b / a
	default: // OpPower
		return math.Pow(b, a)
	}
}
