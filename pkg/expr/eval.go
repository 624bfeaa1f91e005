package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrStackUnderflow is returned when an operator finds fewer than two operands.
	ErrStackUnderflow = errors.New("operand stack underflow")
	// ErrMalformedExpression is returned when evaluation does not end with exactly one value.
	ErrMalformedExpression = errors.New("malformed expression")
	// ErrMalformedNumber is returned when a Number token is not a valid float.
	ErrMalformedNumber = errors.New("malformed number")
	// ErrNonFinite is returned when the result is NaN or infinite.
	ErrNonFinite = errors.New("non-finite result")
)

// EvaluateRPN reduces tokens in postfix order to a single value.
// Division by zero follows IEEE-754 and is not an error at this stage.
func EvaluateRPN(tokens []Token) (float64, error) {
	stack := make([]float64, 0, len(tokens))

	for _, tok := range tokens {
		switch tok.Kind {
		case Number:
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, tok.Text)
			}
			stack = append(stack, v)
		case Operator:
			if len(stack) < 2 {
				return 0, fmt.Errorf("%w: %q needs two operands", ErrStackUnderflow, tok.Text)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, apply(tok.Text, a, b))
		default:
			return 0, fmt.Errorf("%w: unexpected %s in RPN", ErrMalformedExpression, tok.Kind)
		}
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("%w: %d values left on stack", ErrMalformedExpression, len(stack))
	}
	return stack[0], nil
}

func apply(op string, a, b float64) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "×", "*":
		return a * b
	default: // "÷", "/"
		return a / b
	}
}

// Evaluate runs the whole pipeline on a display expression and returns the
// rounded result. NaN and infinities are reported as ErrNonFinite.
func Evaluate(expression string) (float64, error) {
	rpn := ToRPN(Tokenize(Sanitize(expression)))
	v, err := EvaluateRPN(rpn)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return Round(v), nil
}

// Calculate evaluates expression and formats the result for display.
func Calculate(expression string) (string, error) {
	v, err := Evaluate(expression)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}
