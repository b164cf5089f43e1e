package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/eaglebank/pkg/app"
	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/money"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/dto"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	errNotLoggedIn = errors.New("not logged in, use 'login' first")
	errQuit        = errors.New("quit")
)

const usage = `Commands:
  register                        create a user
  login                           log in
  logout                          forget the current user
  whoami                          show the current user
  open <name> <type>              open an account (checking, savings, business)
  accounts                        list your accounts
  deposit <account> <amount>      credit an account
  withdraw <account> <amount>     debit an account
  history <account>               list an account's transactions
  help                            show this help
  quit                            leave
<account> is an account number or id.`

var (
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
	promptColor = color.New(color.FgCyan, color.Bold)
	headColor   = color.New(color.Bold)
)

// userCommands need a logged in user.
var userCommands = map[string]bool{
	"whoami": true, "open": true, "accounts": true,
	"deposit": true, "withdraw": true, "history": true,
}

type session struct {
	app          *app.App
	in           *bufio.Reader
	out          io.Writer
	readPassword func() (string, error)
	current      *user.User
}

func newSession(a *app.App, in io.Reader, out io.Writer) *session {
	s := &session{app: a, in: bufio.NewReader(in), out: out}
	s.readPassword = s.readLine
	return s
}

// terminalPassword reads a password without echo when in is a terminal.
func terminalPassword(in *os.File) func() (string, error) {
	fd := int(in.Fd()) //nolint:gosec
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
}

func (s *session) loop() error {
	if s.readPassword == nil {
		s.readPassword = s.readLine
	}
	headColor.Fprintln(s.out, "Eagle Bank. Type 'help' for commands.") //nolint:errcheck
	for {
		promptColor.Fprint(s.out, "> ") //nolint:errcheck
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = s.exec(context.Background(), strings.Fields(line)); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			errColor.Fprintln(s.out, "Error:", err) //nolint:errcheck
		}
	}
}

func (s *session) exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, usage) //nolint:errcheck
		return nil
	case "quit", "exit":
		return errQuit
	case "register":
		return s.register(ctx)
	case "login":
		return s.login(ctx)
	case "logout":
		s.current = nil
		okColor.Fprintln(s.out, "Logged out") //nolint:errcheck
		return nil
	}

	if !userCommands[cmd] {
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	if s.current == nil {
		return errNotLoggedIn
	}
	switch cmd {
	case "whoami":
		fmt.Fprintf(s.out, "%s %s <%s> %s\n", s.current.FirstName, s.current.LastName, s.current.Email, s.current.ID) //nolint:errcheck
		return nil
	case "open":
		if len(args) != 2 {
			return errors.New("usage: open <name> <type>")
		}
		return s.open(ctx, args[0], args[1])
	case "accounts":
		return s.accounts(ctx)
	case "deposit", "withdraw":
		if len(args) != 2 {
			return fmt.Errorf("usage: %s <account> <amount>", cmd)
		}
		return s.post(ctx, cmd, args[0], args[1])
	case "history":
		if len(args) != 1 {
			return errors.New("usage: history <account>")
		}
		return s.history(ctx, args[0])
	}
	return nil
}

func (s *session) register(ctx context.Context) error {
	var in dto.UserCreate
	var err error
	if in.FirstName, err = s.ask("First name: "); err != nil {
		return err
	}
	if in.LastName, err = s.ask("Last name: "); err != nil {
		return err
	}
	dob, err := s.ask("Date of birth (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	if in.DateOfBirth, err = time.Parse(time.DateOnly, dob); err != nil {
		return fmt.Errorf("invalid date of birth %q", dob)
	}
	if in.Email, err = s.ask("Email: "); err != nil {
		return err
	}
	if in.Password, err = s.askPassword(); err != nil {
		return err
	}
	u, err := s.app.UserService.CreateUser(ctx, in)
	if err != nil {
		return err
	}
	s.current = u
	okColor.Fprintf(s.out, "Registered and logged in as %s\n", u.Email) //nolint:errcheck
	return nil
}

func (s *session) login(ctx context.Context) error {
	email, err := s.ask("Email: ")
	if err != nil {
		return err
	}
	password, err := s.askPassword()
	if err != nil {
		return err
	}
	token, err := s.app.AuthService.Login(ctx, email, password)
	if err != nil {
		return err
	}
	id, err := s.app.AuthService.ParseToken(token)
	if err != nil {
		return err
	}
	u, err := s.app.UserService.FetchUser(ctx, id, id)
	if err != nil {
		return err
	}
	s.current = u
	okColor.Fprintf(s.out, "Logged in as %s\n", u.Email) //nolint:errcheck
	return nil
}

func (s *session) open(ctx context.Context, rawName, rawType string) error {
	name, err := account.NewName(rawName)
	if err != nil {
		return err
	}
	typ, err := account.ParseType(rawType)
	if err != nil {
		return err
	}
	a, err := s.app.AccountService.CreateAccount(ctx, s.current.ID, name, typ)
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "Opened %s account %s (%s)\n", a.Type, a.Number, a.Name) //nolint:errcheck
	return nil
}

func (s *session) accounts(ctx context.Context) error {
	list, err := s.app.AccountService.ListAccounts(ctx, s.current.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(s.out, "No accounts yet") //nolint:errcheck
		return nil
	}
	headColor.Fprintf(s.out, "%-8s  %-9s  %-20s  %12s\n", "NUMBER", "TYPE", "NAME", "BALANCE") //nolint:errcheck
	for _, a := range list {
		fmt.Fprintf(s.out, "%-8s  %-9s  %-20s  %12s %s\n", a.Number, a.Type, a.Name, a.Balance, a.Currency) //nolint:errcheck
	}
	return nil
}

func (s *session) post(ctx context.Context, cmd, ref, rawAmount string) error {
	a, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return err
	}
	post := s.app.TransactionService.Deposit
	if cmd == "withdraw" {
		post = s.app.TransactionService.Withdraw
	}
	txn, err := post(ctx, a.ID, s.current.ID, amount)
	if err != nil {
		return err
	}
	updated, err := s.app.AccountService.FetchAccount(ctx, a.ID, s.current.ID)
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "%s %s %s on %s. New balance: %s %s\n", //nolint:errcheck
		txn.Type, txn.Amount, txn.Currency, updated.Number, updated.Balance, updated.Currency)
	return nil
}

func (s *session) history(ctx context.Context, ref string) error {
	a, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	txns, err := s.app.TransactionService.ListTransactions(ctx, a.ID, s.current.ID)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		fmt.Fprintln(s.out, "No transactions yet") //nolint:errcheck
		return nil
	}
	headColor.Fprintf(s.out, "%-19s  %-10s  %12s\n", "TIME", "TYPE", "AMOUNT") //nolint:errcheck
	for _, t := range txns {
		fmt.Fprintf(s.out, "%-19s  %-10s  %12s %s\n", //nolint:errcheck
			t.Timestamp.Format(time.DateTime), t.Type, t.Amount, t.Currency)
	}
	return nil
}

// resolve finds one of the current user's accounts by number or id.
func (s *session) resolve(ctx context.Context, ref string) (*account.Account, error) {
	if id, err := account.ParseID(ref); err == nil {
		return s.app.AccountService.FetchAccount(ctx, id, s.current.ID)
	}
	list, err := s.app.AccountService.ListAccounts(ctx, s.current.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if a.Number.String() == ref {
			return a, nil
		}
	}
	return nil, fmt.Errorf("no account %q", ref)
}

func (s *session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt) //nolint:errcheck
	return s.readLine()
}

func (s *session) askPassword() (string, error) {
	fmt.Fprint(s.out, "Password: ") //nolint:errcheck
	return s.readPassword()
}

func (s *session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
