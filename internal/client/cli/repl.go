package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errUsage = errors.New("usage")

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Role(ctx context.Context, args []string) error
	Email(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Migrate(ctx context.Context, args []string) error
	Audit(ctx context.Context, args []string) error
}

type command struct {
	usage   string
	summary string
	admin   bool
	run     func(execIface, context.Context, []string) error
}

var commands = map[string]command{
	"login":   {"login", "sign in", false, execIface.Login},
	"logout":  {"logout", "forget the session", false, execIface.Logout},
	"passwd":  {"passwd", "change your password", false, execIface.ChangePassword},
	"show":    {"show [username]", "show an account (yours by default)", false, execIface.Show},
	"users":   {"users", "list accounts", true, execIface.Users},
	"create":  {"create", "create an account", true, execIface.Create},
	"reset":   {"reset <username>", "reset a password and unlock the account", true, execIface.Reset},
	"role":    {"role <username> <user|admin>", "change a role", true, execIface.Role},
	"email":   {"email <username> <address>", "change an email address", true, execIface.Email},
	"delete":  {"delete <username>", "delete an account", true, execIface.Delete},
	"migrate": {"migrate", "upgrade legacy password entries", true, execIface.Migrate},
	"audit":   {"audit [username] [limit]", "show recent audit events", true, execIface.Audit},
}

var commandOrder = []string{"login", "logout", "passwd", "show", "users", "create", "reset", "role", "email", "delete", "migrate", "audit"}

func printHelp(a execIface, w io.Writer) {
	if !a.isLoggedIn() {
		fmt.Fprintln(w, "Available commands: login, help, exit")
		return
	}
	fmt.Fprintln(w, "Available commands:")
	for _, name := range commandOrder {
		c := commands[name]
		if name == "login" || (c.admin && !a.isAdmin()) {
			continue
		}
		fmt.Fprintf(w, "  %-30s %s\n", c.usage, c.summary)
	}
	fmt.Fprintf(w, "  %-30s %s\n", "help", "show this list")
	fmt.Fprintf(w, "  %-30s %s\n", "exit", "leave the console")
}

// runREPL reads commands from reader until EOF, "exit" or "quit" and
// dispatches them to a. Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "sg %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(a, w)
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		}

		c, ok := commands[name]
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}
		if name != "login" && !a.isLoggedIn() {
			fmt.Fprintln(w, "Please login first")
			continue
		}

		if err := c.run(a, ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintln(w, "Usage:", c.usage)
				continue
			}
			fmt.Fprintln(w, "Error:", err)
		}
	}
}
