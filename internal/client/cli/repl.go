package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printFn and printlnFn are test seams for REPL output.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	loggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	View(ctx context.Context, username string) error
	Add(ctx context.Context) error
	Update(ctx context.Context, username string) error
	Delete(ctx context.Context, username string) error
}

// runREPL reads commands line by line and dispatches them to a until EOF or
// exit/quit. Errors from commands are reported by the commands themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("userdesk %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.loggedIn(ctx) {
				printlnFn("Available commands: (l)ist, view <user>, add, update <user>, delete <user>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, register, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "view", "update", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <username>", cmd))
				continue
			}
			switch cmd {
			case "view":
				_ = a.View(ctx, args[0])
			case "update":
				_ = a.Update(ctx, args[0])
			default:
				_ = a.Delete(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
