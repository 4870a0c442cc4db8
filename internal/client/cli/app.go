// Package cli implements the unseen command: signup, login, logout and status
// on top of a session.Controller.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"unseen/internal/client/session"
)

// ErrUsage is returned for an unknown command or bad flags.
var ErrUsage = errors.New("usage error")

const usage = `usage: unseen <command> [flags]

commands:
  signup  [-name NAME] [-email EMAIL]   create an account and sign in
  login   [-email EMAIL]                sign in
  logout                                forget the stored session
  status                                show who is signed in
`

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// App wires a session.Controller to a terminal.
type App struct {
	ctrl *session.Controller
	in   *bufio.Reader
	out  io.Writer
}

// NewApp returns an App reading from in and writing to out.
func NewApp(ctrl *session.Controller, in io.Reader, out io.Writer) *App {
	return &App{ctrl: ctrl, in: bufio.NewReader(in), out: out}
}

// Run executes one command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	switch args[0] {
	case "signup", "register":
		return a.signUp(ctx, args[1:])
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		return a.logout()
	case "status":
		a.status()
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", args[0], usage)
		return ErrUsage
	}
}

func (a *App) signUp(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *name == "" {
		if *name, err = a.prompt("Name"); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	if err := a.ctrl.SignUp(ctx, *name, *email, password); err != nil {
		return a.fail(err)
	}
	a.status()
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	var err error
	if *email == "" {
		if *email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	if err := a.ctrl.Login(ctx, *email, password); err != nil {
		return a.fail(err)
	}
	a.status()
	return nil
}

func (a *App) logout() error {
	if err := a.ctrl.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) status() {
	st := a.ctrl.State()
	if !st.IsAuthenticated || st.CurrentUser == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return
	}
	u := st.CurrentUser
	fmt.Fprintf(a.out, "Signed in as %s <%s> (id %s, via %s)\n", u.Name, u.Email, u.ID, u.AuthProvider)
}

// fail prints the user-facing message kept in the controller state.
func (a *App) fail(err error) error {
	msg := a.ctrl.State().Error
	if msg == "" {
		msg = err.Error()
	}
	fmt.Fprintln(a.out, msg)
	return err
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

func (a *App) password() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	pw, err := readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
