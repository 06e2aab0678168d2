package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// use a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	SignOut(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Write(ctx context.Context) error
	Categories(ctx context.Context) error
	AddCategory(ctx context.Context) error
	RenameCategory(ctx context.Context, id string) error
	DeleteCategory(ctx context.Context, id string) error
}

const (
	helpSignedOut = "Available commands: signin, signup, exit"
	helpSignedIn  = "Available commands: (l)ist, search, show <id>, write, categories, addcategory, " +
		"renamecategory <id>, deletecategory <id>, signout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a
// until the input ends or the user types exit or quit. Handlers report
// their own errors, so the returned errors are dropped here.
//
// Commands taking an id print their usage when it is missing or not a
// positive number.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("diarify %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withID := func(usage string, fn func(ctx context.Context, id string) error) {
			if len(args) == 0 || !isID(args[0]) {
				printlnFn("Usage:", usage)
				return
			}
			_ = fn(ctx, args[0])
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "signin", "login":
			_ = a.SignIn(ctx)

		case "signup", "register":
			_ = a.SignUp(ctx)

		case "signout", "logout":
			_ = a.SignOut(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx)

		case "show":
			withID("show <id>", a.Show)

		case "write":
			_ = a.Write(ctx)

		case "categories":
			_ = a.Categories(ctx)

		case "addcategory":
			_ = a.AddCategory(ctx)

		case "renamecategory":
			withID("renamecategory <id>", a.RenameCategory)

		case "deletecategory":
			withID("deletecategory <id>", a.DeleteCategory)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
