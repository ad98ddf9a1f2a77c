package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUnknownCommand = errors.New("unknown command")

// execIface defines the minimal command surface the REPL needs to operate.
type execIface interface {
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Download(ctx context.Context, args []string) error
}

const helpText = "Available commands: upload <file> [caption], (l)ist, download <n|all>, exit"

// dispatch runs one command line. It reports false when the user asked to
// leave.
func dispatch(ctx context.Context, a execIface, parts []string) (bool, error) {
	if len(parts) == 0 {
		return true, nil
	}

	cmd, args := parts[0], parts[1:]
	switch cmd {
	case "help":
		printlnFn(helpText)
		return true, nil
	case "upload", "u":
		return true, a.Upload(ctx, args)
	case "list", "l":
		return true, a.List(ctx)
	case "download", "d":
		return true, a.Download(ctx, args)
	case "exit", "quit":
		printlnFn("Bye!")
		return false, nil
	default:
		printlnFn("Unknown command:", cmd)
		return true, fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

// runREPL reads commands from reader until EOF or exit. Command errors are
// printed and the loop continues. Commands share reader for their prompts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gallery %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		cont, err := dispatch(ctx, a, strings.Fields(line))
		if err != nil && !errors.Is(err, errUnknownCommand) {
			printlnFn("error:", err)
		}
		if !cont {
			return
		}
	}
}
