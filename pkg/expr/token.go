package expr

import "strings"

// Kind classifies a lexical token.
type Kind int

const (
	Number Kind = iota
	Operator
	LeftParen
	RightParen
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Operator:
		return "operator"
	case LeftParen:
		return "lparen"
	case RightParen:
		return "rparen"
	default:
		return "unknown"
	}
}

// Token is a classified lexical unit.
type Token struct {
	Kind Kind
	Text string
}

// Display glyphs and their ASCII aliases.
const (
	Times  = "×"
	Divide = "÷"
)

// glyphReplacer swaps the display glyphs for the ASCII operators.
var glyphReplacer = strings.NewReplacer(Times, "*", Divide, "/")

// Sanitize converts display operator glyphs to their ASCII form.
func Sanitize(expression string) string {
	return glyphReplacer.Replace(expression)
}

// IsOperator reports whether s is one of the binary operators, in display or ASCII form.
func IsOperator(s string) bool {
	_, ok := precedence[s]
	return ok
}

// IsNumeric reports whether r may appear inside a number run.
func IsNumeric(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.'
}

func isOperatorRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '×', '÷':
		return true
	}
	return false
}

// Tokenize splits expression into tokens.
//
// Spaces are skipped and any rune that is neither numeric, an operator nor a
// parenthesis is dropped without error. Number runs are not validated, so
// "1.2.3" becomes a single Number token that fails later in EvaluateRPN.
//
// A '-' in operand position (start of input, or right after an operator or
// '(') that is immediately followed by a numeric rune is folded into the
// number. This is the only unary minus the grammar knows.
func Tokenize(expression string) []Token {
	runes := []rune(expression)
	tokens := make([]Token, 0, len(runes))
	expectOperand := true

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == ' ':
			i++
		case r == '-' && expectOperand && i+1 < len(runes) && IsNumeric(runes[i+1]):
			end := scanNumber(runes, i+1)
			tokens = append(tokens, Token{Kind: Number, Text: string(runes[i:end])})
			expectOperand = false
			i = end
		case isOperatorRune(r):
			tokens = append(tokens, Token{Kind: Operator, Text: string(r)})
			expectOperand = true
			i++
		case r == '(':
			tokens = append(tokens, Token{Kind: LeftParen, Text: "("})
			expectOperand = true
			i++
		case r == ')':
			tokens = append(tokens, Token{Kind: RightParen, Text: ")"})
			expectOperand = false
			i++
		case IsNumeric(r):
			end := scanNumber(runes, i)
			tokens = append(tokens, Token{Kind: Number, Text: string(runes[i:end])})
			expectOperand = false
			i = end
		default:
			// DropUnknown
			i++
		}
	}
	return tokens
}

// scanNumber returns the index just past the numeric run starting at start.
func scanNumber(runes []rune, start int) int {
	end := start
	for end < len(runes) && IsNumeric(runes[end]) {
		end++
	}
	return end
}

// Texts returns the text of each token, mostly useful in tests and logs.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
