/*
Package expr implements the arithmetic core of the calculator.

It is split in the classic three stages, each usable on its own:

  - Tokenize turns raw text into Number, Operator and parenthesis tokens.
  - ToRPN reorders infix tokens into Reverse Polish Notation (shunting-yard).
  - EvaluateRPN reduces an RPN sequence with an operand stack.

Evaluate and Calculate chain the stages, and Round/Format turn the float
result into the canonical display string.

# Tolerant parsing

The package never reports lexical problems. Unknown characters are dropped by
the tokenizer and unmatched parentheses are absorbed by the converter. Only
structural problems (operand underflow, leftover operands), malformed numbers
and non-finite results surface, as wrapped sentinel errors.
*/
package expr
