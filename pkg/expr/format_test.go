package expr_test

import (
	"math"
	"testing"

	"github.com/aretw0/tally/pkg/expr"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3, expr.Round(0.1+0.2))
	assert.Equal(t, 11.0, expr.Round(11))
	assert.Equal(t, -5.0, expr.Round(-5))
	assert.Equal(t, 0.333333333333, expr.Round(1.0/3))
	assert.Equal(t, math.MaxFloat64, expr.Round(math.MaxFloat64))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{11, "11"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.3, "0.3"},
		{math.Copysign(0, -1), "0"},
		{1e21, "1e+21"},
		{1.5e22, "1.5e+22"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{123456789012, "123456789012"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, expr.Format(tt.in))
		})
	}
}

func TestFormatPlain(t *testing.T) {
	assert.Equal(t, "0.0000001", expr.FormatPlain(1e-7))
	assert.Equal(t, "0.005", expr.FormatPlain(0.005))
	assert.Equal(t, "0", expr.FormatPlain(math.Copysign(0, -1)))
}
