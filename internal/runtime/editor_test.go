package runtime_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, engine *runtime.Engine, state *domain.State, labels ...string) *domain.State {
	t.Helper()
	keys := make([]domain.Key, len(labels))
	for i, l := range labels {
		keys[i] = domain.Key(l)
	}
	next, err := engine.PressAll(context.Background(), state, keys...)
	require.NoError(t, err)
	return next
}

func withExpression(expression string) *domain.State {
	s := domain.NewState("test")
	s.Expression = expression
	return s
}

func TestEditor_EndToEnd(t *testing.T) {
	engine := runtime.NewEngine()

	state := press(t, engine, domain.NewState("test"), "3", "+", "4", "×", "2", "=")

	assert.Equal(t, "3+4×2", state.Expression)
	assert.Equal(t, "11", state.Result)
	assert.Equal(t, "11", state.Display())
	require.Len(t, state.History, 1)
	assert.Equal(t, "3+4×2", state.History[0].Expression)
	assert.Equal(t, "11", state.History[0].Result)
}

func TestEditor_DivisionByZero(t *testing.T) {
	engine := runtime.NewEngine()

	state := press(t, engine, withExpression("5÷0"), "=")

	assert.Equal(t, domain.ResultError, state.Result)
	assert.Equal(t, "5÷0", state.Expression, "expression left for correction")
	assert.Empty(t, state.History, "errors are not recorded")

	// Editor stays usable after an error.
	state = press(t, engine, state, "+", "1")
	assert.Equal(t, "5÷0+1", state.Expression)
	assert.Empty(t, state.Result)
}

func TestEditor_EqualsOnEmptyIsNoop(t *testing.T) {
	engine := runtime.NewEngine()

	state := press(t, engine, domain.NewState("test"), "=")

	assert.Empty(t, state.Expression)
	assert.Empty(t, state.Result)
	assert.Empty(t, state.History)
}

func TestEditor_MalformedExpressionsShowError(t *testing.T) {
	engine := runtime.NewEngine()

	for _, e := range []string{"3+", "-", "1.2.3"} {
		state := press(t, engine, withExpression(e), "=")
		assert.Equal(t, domain.ResultError, state.Result, e)
	}
}

func TestEditor_LeadingMinusEvaluates(t *testing.T) {
	engine := runtime.NewEngine()

	state := press(t, engine, domain.NewState("test"), "-", "5", "+", "2", "=")

	assert.Equal(t, "-5+2", state.Expression)
	assert.Equal(t, "-3", state.Result)
}

func TestEditor_SignToggle(t *testing.T) {
	engine := runtime.NewEngine()

	tests := []struct {
		name    string
		input   string
		toggled string
	}{
		{"single number", "5", "-5"},
		{"after plus", "3+5", "3+-5"},
		{"after minus", "3-5", "3--5"},
		{"after times", "3×5", "3×-5"},
		{"leading negative", "-5", "5"},
		{"decimal", "12.5", "-12.5"},
		{"trailing operator skipped", "3+", "-3+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := press(t, engine, withExpression(tt.input), "+/-")
			assert.Equal(t, tt.toggled, once.Expression)

			twice := press(t, engine, once, "+/-")
			assert.Equal(t, tt.input, twice.Expression, "double toggle restores the original")
		})
	}
}

func TestEditor_SignToggleEvaluates(t *testing.T) {
	engine := runtime.NewEngine()

	state := press(t, engine, withExpression("3-5"), "+/-", "=")

	assert.Equal(t, "3--5", state.Expression)
	assert.Equal(t, "8", state.Result)
}

func TestEditor_SignToggleWithoutNumberIsNoop(t *testing.T) {
	engine := runtime.NewEngine()

	assert.Equal(t, "", press(t, engine, withExpression(""), "+/-").Expression)
	assert.Equal(t, "-", press(t, engine, withExpression("-"), "+/-").Expression)
}

func TestEditor_Percent(t *testing.T) {
	engine := runtime.NewEngine()

	once := press(t, engine, withExpression("200+50"), "%")
	assert.Equal(t, "200+0.5", once.Expression)

	twice := press(t, engine, once, "%")
	assert.Equal(t, "200+0.005", twice.Expression, "percent composes: n/100/100")

	negative := press(t, engine, withExpression("-50"), "%")
	assert.Equal(t, "-0.5", negative.Expression)

	tiny := press(t, engine, withExpression("0.00001"), "%")
	assert.Equal(t, "0.0000001", tiny.Expression, "never exponent notation")
}

func TestEditor_PercentWithoutNumberIsNoop(t *testing.T) {
	engine := runtime.NewEngine()

	assert.Equal(t, "", press(t, engine, withExpression(""), "%").Expression)
	assert.Equal(t, "3+.", press(t, engine, withExpression("3+."), "%").Expression)
}

func TestEditor_OperatorReplacement(t *testing.T) {
	engine := runtime.NewEngine()

	assert.Equal(t, "3-", press(t, engine, withExpression("3+"), "-").Expression)
	assert.Equal(t, "3÷", press(t, engine, withExpression("3×"), "÷").Expression)
	assert.Equal(t, "3×", press(t, engine, withExpression("3"), "×").Expression)
}

func TestEditor_LeadingOperators(t *testing.T) {
	engine := runtime.NewEngine()

	assert.Equal(t, "", press(t, engine, withExpression(""), "+").Expression, "leading plus rejected")
	assert.Equal(t, "", press(t, engine, withExpression(""), "×").Expression)
	assert.Equal(t, "", press(t, engine, withExpression(""), "÷").Expression)
	assert.Equal(t, "-", press(t, engine, withExpression(""), "-").Expression)

	// The lone sign cannot turn into another operator.
	assert.Equal(t, "-", press(t, engine, withExpression("-"), "+").Expression)
	assert.Equal(t, "-", press(t, engine, withExpression("-"), "×").Expression)
}

func TestEditor_DecimalGuard(t *testing.T) {
	engine := runtime.NewEngine()

	assert.Equal(t, "3.1", press(t, engine, withExpression("3.1"), ".").Expression)
	assert.Equal(t, "3.1+2.", press(t, engine, withExpression("3.1+2"), ".").Expression)
	assert.Equal(t, ".", press(t, engine, withExpression(""), ".").Expression)
	assert.Equal(t, "3+.", press(t, engine, withExpression("3+"), ".").Expression)
}

func TestEditor_ClearAll(t *testing.T) {
	engine := runtime.NewEngine()

	state := press(t, engine, domain.NewState("test"), "1", "+", "1", "=")
	require.Equal(t, "2", state.Result)

	state = press(t, engine, state, "AC")
	assert.Empty(t, state.Expression)
	assert.Empty(t, state.Result)
	assert.Len(t, state.History, 1, "history survives clear")
}

func TestEditor_EditingClearsResult(t *testing.T) {
	engine := runtime.NewEngine()

	state := press(t, engine, domain.NewState("test"), "1", "+", "1", "=")
	require.Equal(t, "2", state.Result)

	state = press(t, engine, state, "5")
	assert.Equal(t, "1+15", state.Expression)
	assert.Empty(t, state.Result)
}

func TestEditor_UnknownKey(t *testing.T) {
	engine := runtime.NewEngine()
	state := withExpression("3")

	next, err := engine.Press(context.Background(), state, "sin")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
	assert.Nil(t, next)
	assert.Equal(t, "3", state.Expression)
}

func TestEditor_PressDoesNotMutateInput(t *testing.T) {
	engine := runtime.NewEngine()
	state := withExpression("3+4")

	next := press(t, engine, state, "=")

	assert.Empty(t, state.Result)
	assert.Empty(t, state.History)
	assert.Equal(t, "7", next.Result)
}

func TestEditor_HistoryCap(t *testing.T) {
	engine := runtime.NewEngine()
	state := domain.NewState("test")

	for i := 1; i <= 11; i++ {
		state = press(t, engine, state, "AC", fmt.Sprint(i%10), "+", "0", "=")
	}

	require.Len(t, state.History, domain.HistoryLimit)
	assert.Equal(t, "1+0", state.History[0].Expression, "11th evaluation is newest")
	assert.Equal(t, "2+0", state.History[len(state.History)-1].Expression, "1st evaluation evicted")
}

func TestEditor_HistoryTimestamp(t *testing.T) {
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	engine := runtime.NewEngine(runtime.WithClock(func() time.Time { return fixed }))

	state := press(t, engine, withExpression("2×3"), "=")

	require.Len(t, state.History, 1)
	assert.Equal(t, fixed, state.History[0].Timestamp)
	assert.Equal(t, fixed, state.UpdatedAt)
}

func TestEngine_Restore(t *testing.T) {
	engine := runtime.NewEngine()
	state := press(t, engine, domain.NewState("test"), "2", "×", "3", "=", "AC", "1", "+")

	restored, err := engine.Restore(context.Background(), state, 0)
	require.NoError(t, err)
	assert.Equal(t, "2×3", restored.Expression)
	assert.Equal(t, "6", restored.Result)
	assert.Len(t, restored.History, 1, "restore does not re-evaluate")

	_, err = engine.Restore(context.Background(), state, 5)
	assert.ErrorIs(t, err, domain.ErrHistoryIndex)
}
