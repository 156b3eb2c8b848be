package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errUnknownCommand = errors.New("unknown command")

// execIface is the command surface the REPL drives. App satisfies it; tests
// use a stub.
type execIface interface {
	Help() string
	Execute(ctx context.Context, cmd string, args []string) error
}

// runREPL reads commands line by line and dispatches them to a until input
// ends or the user types exit or quit. The prompt shows statusFn's result.
//
// Handlers report their own failures; only unknown commands are printed
// here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fp [%s]> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(a.Help())

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if err := a.Execute(ctx, cmd, args); errors.Is(err, errUnknownCommand) {
				printlnFn("Unknown command:", cmd)
			}
		}
	}
}
