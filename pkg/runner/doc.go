/*
Package runner implements the line-oriented loop that drives a calculator
session.

The runner reads a line, turns it into key presses or a command, applies it
to the engine and writes the new display. I/O goes through a pluggable
IOHandler so the same loop serves an interactive terminal (TextHandler) and
machine clients speaking JSON Lines (JSONHandler).

# Usage

	r := runner.NewRunner(
		runner.WithSessions(session.NewManager(file.New(""))),
		runner.WithSessionID("desk"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, tally.New()); err != nil {
		log.Fatal(err)
	}
*/
package runner
