package tally_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/tally"
)

// ExampleEngine_Apply drives the editor with a line of key labels.
func ExampleEngine_Apply() {
	eng := tally.New()
	ctx := context.Background()

	state, err := eng.Apply(ctx, eng.Start("example"), "3 + 4 × 2 =")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(state.Expression)
	fmt.Println(state.Display())

	state, err = eng.Apply(ctx, state, "÷ 0 =")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(state.Display())
	fmt.Println(len(state.History))
	// Output:
	// 3+4×2
	// 11
	// Error
	// 1
}

// ExampleEngine_Evaluate computes a free-form expression.
func ExampleEngine_Evaluate() {
	eng := tally.New()

	for _, e := range []string{"(1+2)*3", "0.1+0.2", "10÷4", "1/0"} {
		result, err := eng.Evaluate(e)
		if err != nil {
			fmt.Println(e, "->", "Error")
			continue
		}
		fmt.Println(e, "->", result)
	}
	// Output:
	// (1+2)*3 -> 9
	// 0.1+0.2 -> 0.3
	// 10÷4 -> 2.5
	// 1/0 -> Error
}
