package expr_test

import (
	"testing"

	"github.com/aretw0/tally/pkg/expr"
	"github.com/stretchr/testify/assert"
)

func TestToRPN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"precedence honored", "3+4×2", []string{"3", "4", "2", "×", "+"}},
		{"left associative minus", "10-4-3", []string{"10", "4", "-", "3", "-"}},
		{"left associative divide", "8÷4÷2", []string{"8", "4", "÷", "2", "÷"}},
		{"grouping", "(3+4)×2", []string{"3", "4", "+", "2", "×"}},
		{"unmatched right paren absorbed", "3+4)×2", []string{"3", "4", "+", "2", "×"}},
		{"unmatched left paren absorbed", "(3+4", []string{"3", "4", "+"}},
		{"mixed", "1+2×3-4", []string{"1", "2", "3", "×", "+", "4", "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expr.ToRPN(expr.Tokenize(tt.input))
			assert.Equal(t, tt.want, expr.Texts(got))
		})
	}
}
