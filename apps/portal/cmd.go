package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"syscall"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	client *apiclient.Client
	store  session.Store
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -student STUDENT_ID | -email EMAIL - log in, the password is prompted")
	fmt.Fprintln(cli.out, "  signup -first FIRST -last LAST -student-id ID -email EMAIL -username USERNAME [...] - register a student")
	fmt.Fprintln(cli.out, "  logout - end the session")
	fmt.Fprintln(cli.out, "  me - show the current user and their links")
	fmt.Fprintln(cli.out, "  profile [-first ...] [-avatar FILE] - show or update the profile")
	fmt.Fprintln(cli.out, "  programs list|add|edit|delete [FLAGS] - manage programs")
	fmt.Fprintln(cli.out, "  subjects list|add|edit|delete [FLAGS] - manage subjects")
	fmt.Fprintln(cli.out, "  schedules list|add|edit|delete -subject ID [FLAGS] - manage the schedules of a subject")
	fmt.Fprintln(cli.out, "  students list|add|edit|delete -program ID [FLAGS] - manage the roster of a program")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	rest := args[2:]
	switch args[1] {
	case "login":
		return cli.login(ctx, rest)
	case "signup":
		return cli.signup(ctx, rest)
	case "logout":
		return cli.logout(ctx)
	case "me":
		return cli.me(ctx)
	case "profile":
		return cli.profile(ctx, rest)
	case "programs":
		return cli.programs(ctx, rest)
	case "subjects":
		return cli.subjects(ctx, rest)
	case "schedules":
		return cli.schedules(ctx, rest)
	case "students":
		return cli.students(ctx, rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

// report prints the success banner and turns the error banner into the returned error.
func (cli *commandLine) report(b *banner.Board, err error) error {
	if msg := b.SuccessMessage(); msg != "" {
		fmt.Fprintln(cli.out, msg)
	}
	if err == nil {
		return nil
	}

	if msg := b.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}
	return err
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// visited returns the names of the flags given on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// action splits "list -x 1" into its verb and flags.
func action(args []string, verbs ...string) (string, []string, bool) {
	if len(args) == 0 {
		return "", nil, false
	}
	for _, v := range verbs {
		if args[0] == v {
			return v, args[1:], true
		}
	}
	return "", nil, false
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
