// Package cli implements the crmcli subcommands on top of the REST client and
// the contact board.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/muhammadheryan/crm/client/api"
	"github.com/muhammadheryan/crm/client/board"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrUsage = errors.New("usage")

type App struct {
	client *api.Client
	in     *bufio.Reader
	out    io.Writer
	tty    int
}

// New reads prompts from in. Passwords are read without echo when in is a
// terminal and as a plain line otherwise.
func New(client *api.Client, in io.Reader, out io.Writer) *App {
	a := &App{client: client, in: bufio.NewReader(in), out: out, tty: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.tty = int(f.Fd())
	}
	return a
}

const usage = `commands:
  login -email EMAIL            log in (password is prompted)
  signup -name N -email E       create an employee account
  logout
  whoami
  contacts                      list my contacts with a summary
  add -name N -phone P [-remark R] [-status S] [-follow YYYY-MM-DD] [-called]
  called ID true|false
  status ID future|rejected|lead
  remark ID TEXT...
  follow ID YYYY-MM-DD|none
  delete ID
  stats [-watch] [-interval 10s]  per-employee stats (admin)`

// Run executes one subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "login":
		return a.login(ctx, rest)
	case "signup":
		return a.signup(ctx, rest)
	case "logout":
		if err := a.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "contacts":
		return a.contacts(ctx)
	case "add":
		return a.add(ctx, rest)
	case "called", "status", "remark", "follow":
		return a.edit(ctx, cmd, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "stats":
		return a.stats(ctx, rest)
	}

	fmt.Fprintln(a.out, usage)
	return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "login email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("%w: -email is required", ErrUsage)
	}

	password, err := a.password()
	if err != nil {
		return err
	}
	res, err := a.client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", res.User.Name, res.User.Role)
	return nil
}

func (a *App) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return fmt.Errorf("%w: -name and -email are required", ErrUsage)
	}

	password, err := a.password()
	if err != nil {
		return err
	}
	res, err := a.client.Signup(ctx, model.SignupRequest{Name: *name, Email: *email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed up as %s\n", res.User.Email)
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	me, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", me.Name, me.Email, me.Role)
	return nil
}

func (a *App) contacts(ctx context.Context) error {
	b := board.NewContactBoard(a.client)
	if err := b.Load(ctx); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tSTATUS\tCALLED\tFOLLOW UP\tREMARK")
	for _, c := range b.Contacts() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.Status, yesNo(c.Called), day(c.FollowUpDate), c.Remark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := b.Summary()
	fmt.Fprintf(a.out, "\ntotal %d  future %d  rejected %d  lead %d  converted %d  called %d\n",
		s.Total, s.Future, s.Rejected, s.Lead, s.Converted, s.Called)
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "contact name")
	phone := fs.String("phone", "", "phone number")
	remark := fs.String("remark", "", "free text")
	status := fs.String("status", "", "future, rejected or lead")
	follow := fs.String("follow", "", "follow-up date (YYYY-MM-DD)")
	called := fs.Bool("called", false, "already called")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := model.ContactRequest{Name: *name, Phone: *phone, Remark: *remark, Status: *status, Called: *called}
	if *follow != "" {
		req.FollowUpDate = follow
	}

	created, err := board.NewContactBoard(a.client).Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created contact %d\n", created.ID)
	return nil
}

func (a *App) edit(ctx context.Context, cmd string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: %s ID VALUE", ErrUsage, cmd)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad contact id %q", ErrUsage, args[0])
	}

	var command board.Command
	switch cmd {
	case "called":
		v, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("%w: called takes true or false", ErrUsage)
		}
		command = board.SetCalled{ID: id, Called: v}
	case "status":
		st, err := constant.ParseContactStatus(args[1])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		command = board.SetStatus{ID: id, Status: st}
	case "remark":
		command = board.SetRemark{ID: id, Remark: strings.Join(args[1:], " ")}
	case "follow":
		if args[1] == "none" {
			command = board.SetFollowUpDate{ID: id}
			break
		}
		d, err := time.Parse(constant.DateLayout, args[1])
		if err != nil {
			return fmt.Errorf("%w: follow takes YYYY-MM-DD or none", ErrUsage)
		}
		command = board.SetFollowUpDate{ID: id, Date: &d}
	}

	b := board.NewContactBoard(a.client)
	if err := b.Load(ctx); err != nil {
		return err
	}
	if err := b.Dispatch(ctx, command); err != nil {
		return err
	}

	c, _ := b.Contact(id)
	fmt.Fprintf(a.out, "%d %s: status=%s called=%s follow=%s\n", c.ID, c.Name, c.Status, yesNo(c.Called), day(c.FollowUpDate))
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete ID", ErrUsage)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad contact id %q", ErrUsage, args[0])
	}
	if err := board.NewContactBoard(a.client).Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted contact %d\n", id)
	return nil
}

func (a *App) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(a.out)
	watch := fs.Bool("watch", false, "keep refreshing until interrupted")
	interval := fs.Duration("interval", board.DefaultRefreshInterval, "refresh interval with -watch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sb := board.NewStatsBoard(a.client)
	if !*watch {
		if err := sb.Refresh(ctx); err != nil {
			return err
		}
		return a.printStats(sb.Rows())
	}

	sb.Run(ctx, *interval, func(err error) {
		if err != nil {
			fmt.Fprintf(a.out, "refresh failed: %v\n", err)
			return
		}
		fmt.Fprintf(a.out, "-- %s\n", sb.RefreshedAt().Format(time.TimeOnly))
		_ = a.printStats(sb.Rows())
	})
	return nil
}

func (a *App) printStats(rows []model.EmployeeStats) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCALLED TODAY\tREJECTED\tLEADS\tLATER")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n", r.ID, r.Name, r.Email, r.Stats.Called, r.Stats.Rejected, r.Stats.Leads, r.Stats.Later)
	}
	return tw.Flush()
}

func (a *App) password() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	if a.tty >= 0 {
		pw, err := readPassword(a.tty)
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func day(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(constant.DateLayout)
}
