package domain_test

import (
	"testing"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		label string
		want  domain.Key
	}{
		{"7", "7"},
		{"×", domain.KeyMultiply},
		{"*", domain.KeyMultiply},
		{"x", domain.KeyMultiply},
		{"/", domain.KeyDivide},
		{"÷", domain.KeyDivide},
		{"AC", domain.KeyClear},
		{"c", domain.KeyClear},
		{"Clear", domain.KeyClear},
		{"+/-", domain.KeySign},
		{"±", domain.KeySign},
		{" = ", domain.KeyEquals},
		{"enter", domain.KeyEquals},
		{"%", domain.KeyPercent},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := domain.ParseKey(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKey_Unknown(t *testing.T) {
	for _, label := range []string{"", "sin", "(", "12", "^"} {
		_, err := domain.ParseKey(label)
		assert.ErrorIs(t, err, domain.ErrUnknownKey, label)
	}
}

func TestParseKeys(t *testing.T) {
	keys, err := domain.ParseKeys("3 + 4 * 2 =")
	require.NoError(t, err)
	assert.Equal(t, []domain.Key{"3", domain.KeyAdd, "4", domain.KeyMultiply, "2", domain.KeyEquals}, keys)

	_, err = domain.ParseKeys("3 sqrt")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestKeypad_AllKeysClassified(t *testing.T) {
	for _, row := range domain.Keypad {
		for _, k := range row {
			_, ok := k.Class()
			assert.True(t, ok, "key %q has no class", k)
		}
	}
}

func TestExpandKeys(t *testing.T) {
	keys, err := domain.ExpandKeys("12+3= AC +/- 4x5")
	require.NoError(t, err)
	assert.Equal(t, []domain.Key{
		"1", "2", domain.KeyAdd, "3", domain.KeyEquals,
		domain.KeyClear,
		domain.KeySign,
		"4", domain.KeyMultiply, "5",
	}, keys)

	keys, err = domain.ExpandKeys("   ")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = domain.ExpandKeys("2^3")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestExpandKeys_MultiRuneLabelsInsideRun(t *testing.T) {
	tests := []struct {
		input string
		want  []domain.Key
	}{
		{"12+/-", []domain.Key{"1", "2", domain.KeySign}},
		{"5AC", []domain.Key{"5", domain.KeyClear}},
		{"3+4=AC", []domain.Key{"3", domain.KeyAdd, "4", domain.KeyEquals, domain.KeyClear}},
		{"+/-+/-", []domain.Key{domain.KeySign, domain.KeySign}},
		{"7÷2", []domain.Key{"7", domain.KeyDivide, "2"}},
		{"9/3", []domain.Key{"9", domain.KeyDivide, "3"}},
		{"1+-2", []domain.Key{"1", domain.KeyAdd, domain.KeySubtract, "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			keys, err := domain.ExpandKeys(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys)
		})
	}
}
