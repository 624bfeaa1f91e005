package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
)

// CommandKind enumerates what a REPL line asks for.
type CommandKind int

const (
	CommandKeys CommandKind = iota
	CommandHistory
	CommandRecall
	CommandHelp
	CommandExit
)

// Command is a parsed REPL line.
type Command struct {
	Kind  CommandKind
	Keys  []domain.Key
	Index int
}

// HelpText lists the REPL commands.
const HelpText = `Type keys separated by spaces or run together: 12 + 3 =  or  12+3=
Keys: 0-9 . + - × ÷ (or * /) = AC +/- %
Commands: history, recall <n>, help, exit`

// ParseCommand interprets one line of REPL input.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: CommandKeys}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return Command{Kind: CommandExit}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "history":
		return Command{Kind: CommandHistory}, nil
	case "recall":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: recall <n>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("recall: %q is not a number", fields[1])
		}
		return Command{Kind: CommandRecall, Index: n}, nil
	}

	keys, err := domain.ExpandKeys(line)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CommandKeys, Keys: keys}, nil
}
