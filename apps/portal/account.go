package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scsit/ges/portal/auth"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/nav"
	"github.com/scsit/ges/portal/profile"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login", cli.out)
	studentID := fs.String("student", "", "Student ID, to log in as a student.")
	email := fs.String("email", "", "Email, to log in as a teacher or admin.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tab, identifier := auth.TabStudent, *studentID
	if *email != "" {
		tab, identifier = auth.TabTeacher, *email
	}
	if identifier == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := promptPassword("Password:")
	if err != nil {
		return err
	}

	router := nav.NewRouter(nav.RouteLogin)
	screen := auth.NewScreen(cli.client, cli.store, router, banner.NewBoard(nil))
	if err = screen.Login(ctx, tab, identifier, pwd); err != nil {
		return cli.report(screen.Banners, err)
	}

	sess, err := cli.store.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s). Home: %s\n", sess.Profile.Username, sess.Profile.Role, router.Current())
	return nil
}

func (cli *commandLine) signup(ctx context.Context, args []string) error {
	fs := newFlagSet("signup", cli.out)
	var form auth.SignupForm
	fs.StringVar(&form.FirstName, "first", "", "First name.")
	fs.StringVar(&form.MiddleName, "middle", "", "Middle name.")
	fs.StringVar(&form.LastName, "last", "", "Last name.")
	fs.StringVar(&form.StudentID, "student-id", "", "Student ID, used to log in.")
	fs.StringVar(&form.Email, "email", "", "Email.")
	fs.StringVar(&form.Username, "username", "", "Username.")
	fs.StringVar(&form.Gender, "gender", "", "Male, Female or Other.")
	fs.StringVar(&form.Address, "address", "", "Address.")
	fs.StringVar(&form.ContactNumber, "contact", "", "Contact number.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if form.StudentID == "" || form.Email == "" {
		fs.Usage()
		return errHelp
	}

	var err error
	if form.Password, err = promptPassword("Password:"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = promptPassword("Confirm password:"); err != nil {
		return err
	}

	screen := auth.NewScreen(cli.client, cli.store, nav.NewRouter(nav.RouteSignup), banner.NewBoard(nil))
	_, err = screen.Signup(ctx, form)
	return cli.report(screen.Banners, err)
}

func (cli *commandLine) logout(ctx context.Context) error {
	shell := nav.NewShell(cli.client, cli.store, nav.NewRouter(nav.RouteProfile))
	shell.Logout(ctx)
	fmt.Fprintln(cli.out, "Logged out.")
	return nil
}

func (cli *commandLine) me(ctx context.Context) error {
	sess, err := cli.store.Load()
	if err != nil {
		return err
	}
	shell := nav.NewShell(cli.client, cli.store, nav.NewRouter(nav.LandingRoute(sess.Profile.Role)))
	if err = shell.Mount(ctx); err != nil {
		return err
	}

	p, _ := shell.Profile()
	fmt.Fprintf(cli.out, "%s %s (%s)\n", p.FirstName, p.LastName, shell.DisplayRole())
	if p.Avatar != "" {
		fmt.Fprintf(cli.out, "Avatar: %s\n", p.Avatar)
	}
	fmt.Fprintln(cli.out, shell.Section())
	for _, link := range shell.Links() {
		mark := " "
		if shell.IsActive(link) {
			mark = "*"
		}
		fmt.Fprintf(cli.out, " %s %-20s %s\n", mark, link.Label, link.Path)
	}
	return nil
}

func (cli *commandLine) profile(ctx context.Context, args []string) error {
	fs := newFlagSet("profile", cli.out)
	fields := []struct{ name, usage string }{
		{"first", "First name."},
		{"middle", "Middle name."},
		{"last", "Last name."},
		{"username", "Username."},
		{"student-id", "Student ID (students only)."},
		{"gender", "Male, Female or Other."},
		{"contact", "Contact number."},
		{"address", "Address."},
	}
	for _, f := range fields {
		fs.String(f.name, "", f.usage)
	}
	avatar := fs.String("avatar", "", "Path to a JPEG, PNG or GIF image under 2MB.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := visited(fs)

	screen := profile.NewScreen(cli.client, banner.NewBoard(nil))
	if err := screen.Load(ctx); err != nil {
		return cli.report(screen.Banners, err)
	}
	if len(set) == 0 {
		cli.printProfile(screen)
		return nil
	}

	screen.Edit()
	staged := screen.Staged()
	targets := map[string]*string{
		"first": &staged.FirstName, "middle": &staged.MiddleName, "last": &staged.LastName,
		"username": &staged.Username, "student-id": &staged.StudentID, "gender": &staged.Gender,
		"contact": &staged.ContactNumber, "address": &staged.Address,
	}
	for _, f := range fields {
		if set[f.name] {
			*targets[f.name] = fs.Lookup(f.name).Value.String()
		}
	}

	if *avatar != "" {
		data, err := os.ReadFile(*avatar)
		if err != nil {
			return err
		}
		if err = screen.SelectAvatar(filepath.Base(*avatar), data); err != nil {
			return cli.report(screen.Banners, err)
		}
	}

	err := screen.Save(ctx)
	if err == nil {
		cli.printProfile(screen)
	}
	return cli.report(screen.Banners, err)
}

func (cli *commandLine) printProfile(screen *profile.Screen) {
	usr := screen.User()
	initials, _ := screen.Badge()

	w := cli.table()
	fmt.Fprintf(w, "Name:\t%s [%s]\n", screen.FullName(), initials)
	fmt.Fprintf(w, "Username:\t%s\n", usr.Username)
	fmt.Fprintf(w, "Email:\t%s\n", usr.Email)
	fmt.Fprintf(w, "Role:\t%s\n", usr.Role)
	if usr.StudentID != "" {
		fmt.Fprintf(w, "Student ID:\t%s\n", usr.StudentID)
	}
	fmt.Fprintf(w, "Gender:\t%s\n", usr.Gender)
	fmt.Fprintf(w, "Contact:\t%s\n", usr.ContactNumber)
	fmt.Fprintf(w, "Address:\t%s\n", usr.Address)
	if usr.Avatar != "" {
		fmt.Fprintf(w, "Avatar:\t%s\n", usr.Avatar)
	}
	w.Flush()
}
