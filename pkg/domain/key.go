package domain

import (
	"fmt"
	"strings"
)

// Key is a calculator button label.
type Key string

const (
	KeyClear    Key = "AC"
	KeySign     Key = "+/-"
	KeyPercent  Key = "%"
	KeyEquals   Key = "="
	KeyDecimal  Key = "."
	KeyAdd      Key = "+"
	KeySubtract Key = "-"
	KeyMultiply Key = "×"
	KeyDivide   Key = "÷"
)

// KeyClass groups keys that share a transition rule.
type KeyClass string

const (
	ClassDigit    KeyClass = "digit"
	ClassDecimal  KeyClass = "decimal"
	ClassOperator KeyClass = "operator"
	ClassEquals   KeyClass = "equals"
	ClassClear    KeyClass = "clear"
	ClassSign     KeyClass = "sign"
	ClassPercent  KeyClass = "percent"
)

// Class returns the class of k, or false if k is not a calculator key.
func (k Key) Class() (KeyClass, bool) {
	switch k {
	case KeyClear:
		return ClassClear, true
	case KeySign:
		return ClassSign, true
	case KeyPercent:
		return ClassPercent, true
	case KeyEquals:
		return ClassEquals, true
	case KeyDecimal:
		return ClassDecimal, true
	case KeyAdd, KeySubtract, KeyMultiply, KeyDivide:
		return ClassOperator, true
	}
	if len(k) == 1 && k[0] >= '0' && k[0] <= '9' {
		return ClassDigit, true
	}
	return "", false
}

// Keypad is the button layout, row by row.
var Keypad = [][]Key{
	{KeyClear, KeySign, KeyPercent, KeyDivide},
	{"7", "8", "9", KeyMultiply},
	{"4", "5", "6", KeySubtract},
	{"1", "2", "3", KeyAdd},
	{"0", KeyDecimal, KeyEquals},
}

// aliases maps keyboard-friendly spellings to button labels.
var aliases = map[string]Key{
	"*":     KeyMultiply,
	"x":     KeyMultiply,
	"/":     KeyDivide,
	"c":     KeyClear,
	"ac":    KeyClear,
	"clear": KeyClear,
	"±":     KeySign,
	"neg":   KeySign,
	"enter": KeyEquals,
}

// ParseKey resolves a label (or one of its aliases) to a Key.
func ParseKey(label string) (Key, error) {
	label = strings.TrimSpace(label)
	if k := Key(label); k != "" {
		if _, ok := k.Class(); ok {
			return k, nil
		}
	}
	if k, ok := aliases[strings.ToLower(label)]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, label)
}

// ParseKeys resolves a whitespace-separated list of labels.
func ParseKeys(labels string) ([]Key, error) {
	fields := strings.Fields(labels)
	keys := make([]Key, 0, len(fields))
	for _, f := range fields {
		k, err := ParseKey(f)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// maxLabelLen is the rune length of the longest label or alias.
const maxLabelLen = 5

// ExpandKeys is ParseKeys with a fallback for compact input: a field that is
// not a label itself is split greedily, longest label first, so "12+/-="
// becomes 1 2 +/- = and "5AC" becomes 5 AC.
func ExpandKeys(input string) ([]Key, error) {
	var keys []Key
	for _, f := range strings.Fields(input) {
		if k, err := ParseKey(f); err == nil {
			keys = append(keys, k)
			continue
		}
		split, err := splitCompact(f)
		if err != nil {
			return nil, err
		}
		keys = append(keys, split...)
	}
	return keys, nil
}

func splitCompact(field string) ([]Key, error) {
	runes := []rune(field)
	var keys []Key
	for i := 0; i < len(runes); {
		n := min(maxLabelLen, len(runes)-i)
		for ; n > 0; n-- {
			if k, err := ParseKey(string(runes[i : i+n])); err == nil {
				keys = append(keys, k)
				break
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnknownKey, string(runes[i]), field)
		}
		i += n
	}
	return keys, nil
}
