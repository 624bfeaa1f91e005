/*
Package tally is a calculator engine: a key-press input editor on top of a
tokenizer, a shunting-yard converter and an RPN evaluator.

The editor is a pure state machine. Every key press takes a domain.State and
returns a new one, so sessions can be persisted anywhere (memory, files,
Redis) and served from any surface (CLI, TUI, HTTP, MCP).

# Usage

	eng := tally.New()
	ctx := context.Background()

	state := eng.Start("desk")
	state, err := eng.Apply(ctx, state, "3 + 4 × 2 =")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(state.Display()) // 11

Free-form expressions skip the editor entirely:

	result, err := eng.Evaluate("(1+2)*3") // "9"
*/
package tally
