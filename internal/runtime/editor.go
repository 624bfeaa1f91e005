package runtime

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/expr"
)

func clearAll(s *domain.State) {
	s.Expression = ""
	s.Result = ""
}

func appendDigit(s *domain.State, digit domain.Key) {
	s.Result = ""
	s.Expression += string(digit)
}

// appendDecimal adds a decimal point unless the number being typed already has one.
func appendDecimal(s *domain.State) {
	end := len(s.Expression)
	start := runStart(s.Expression, end)
	if strings.IndexByte(s.Expression[start:end], '.') >= 0 {
		return
	}
	s.Result = ""
	s.Expression += string(domain.KeyDecimal)
}

// applyOperator appends op, or replaces a trailing operator with it.
// An empty expression only accepts "-", and that lone sign can only be
// replaced by itself so the expression never starts with another operator.
func applyOperator(s *domain.State, op domain.Key) {
	if s.Expression == "" {
		if op == domain.KeySubtract {
			s.Expression = string(op)
			s.Result = ""
		}
		return
	}

	last, size := utf8.DecodeLastRuneInString(s.Expression)
	if expr.IsOperator(string(last)) {
		head := s.Expression[:len(s.Expression)-size]
		if head == "" && op != domain.KeySubtract {
			return
		}
		s.Expression = head + string(op)
	} else {
		s.Expression += string(op)
	}
	s.Result = ""
}

// toggleSign negates the last number of the expression in place.
func toggleSign(s *domain.State) {
	start, end := lastRun(s.Expression)
	if start == end {
		return
	}
	if hasSign(s.Expression, start) {
		s.Expression = s.Expression[:start-1] + s.Expression[start:]
	} else {
		s.Expression = s.Expression[:start] + "-" + s.Expression[start:]
	}
	s.Result = ""
}

// applyPercent divides the last number of the expression by 100.
func applyPercent(s *domain.State) {
	start, end := lastRun(s.Expression)
	if start == end {
		return
	}
	n, err := strconv.ParseFloat(s.Expression[start:end], 64)
	if err != nil {
		return
	}
	s.Expression = s.Expression[:start] + expr.FormatPlain(n/100) + s.Expression[end:]
	s.Result = ""
}

// evaluate runs the expression through the arithmetic pipeline.
// Failures only touch the result line; the expression stays editable.
func (e *Engine) evaluate(ctx context.Context, s *domain.State) {
	if s.Expression == "" {
		return
	}

	result, err := expr.Calculate(s.Expression)
	if err != nil {
		s.Result = domain.ResultError
		e.logger.Debug("evaluation failed", "expression", s.Expression, "err", err)
		e.emitEvaluate(ctx, s, err)
		return
	}

	s.Result = result
	s.History = s.History.Push(domain.HistoryEntry{
		Expression: s.Expression,
		Result:     result,
		Timestamp:  e.now(),
	})
	e.emitEvaluate(ctx, s, nil)
}
