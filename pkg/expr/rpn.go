package expr

// precedence binds every binary operator. All of them are left-associative.
var precedence = map[string]int{
	"+": 1,
	"-": 1,
	"×": 2,
	"÷": 2,
	"*": 2,
	"/": 2,
}

// ToRPN converts infix tokens to postfix order with the shunting-yard algorithm.
//
// A right parenthesis without a matching left one is absorbed, and left
// parentheses still on the stack at the end are discarded instead of being
// emitted.
func ToRPN(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	ops := make([]Token, 0, len(tokens)/2)

	for _, tok := range tokens {
		switch tok.Kind {
		case Number:
			out = append(out, tok)
		case Operator:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Kind != Operator || precedence[top.Text] < precedence[tok.Text] {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		case LeftParen:
			ops = append(ops, tok)
		case RightParen:
			for len(ops) > 0 && ops[len(ops)-1].Kind != LeftParen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) > 0 {
				ops = ops[:len(ops)-1]
			}
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.Kind == LeftParen {
			continue
		}
		out = append(out, top)
	}
	return out
}
