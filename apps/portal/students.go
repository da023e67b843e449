package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/roster"
)

func (cli *commandLine) students(ctx context.Context, args []string) error {
	verb, rest, ok := action(args, verbs...)
	if !ok {
		cli.printUsage()
		return errHelp
	}

	fs := newFlagSet("students "+verb, cli.out)
	programID := fs.Int("program", 0, "Program ID.")
	id := fs.Int("id", 0, "Student record ID (edit, delete).")
	search := fs.String("search", "", "Filter on name, email or student ID (list).")
	fs.String("first", "", "First name.")
	fs.String("middle", "", "Middle name.")
	fs.String("last", "", "Last name.")
	fs.String("email", "", "Email.")
	fs.String("username", "", "Username, defaults to the student ID.")
	fs.String("student-id", "", "Student ID.")
	fs.String("address", "", "Address.")
	fs.String("contact", "", "Contact number.")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	set := visited(fs)
	if *programID == 0 || ((verb == "edit" || verb == "delete") && *id == 0) {
		fs.Usage()
		return errHelp
	}

	r := roster.New(cli.client, banner.NewBoard(nil), *programID)
	if err := r.Load(ctx); err != nil {
		return cli.report(r.Banners, err)
	}

	switch verb {
	case "list":
		r.SetSearch(*search)
		w := cli.table()
		fmt.Fprintln(w, "ID\tSTUDENT ID\tNAME\tEMAIL")
		for _, s := range r.Students() {
			name := strings.Join(strings.Fields(s.FirstName+" "+s.MiddleName+" "+s.LastName), " ")
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.ID, s.StudentID, name, s.Email)
		}
		return w.Flush()

	case "delete":
		if err := r.Delete(ctx, *id); err != nil {
			return cli.report(r.Banners, err)
		}
		fmt.Fprintf(cli.out, "Deleted student %d.\n", *id)
		return nil
	}

	var in apiclient.StudentInput
	if verb == "add" {
		in = r.Add()
	} else {
		in = r.Edit(*id)
	}
	for name, dst := range map[string]*string{
		"first": &in.FirstName, "middle": &in.MiddleName, "last": &in.LastName,
		"email": &in.Email, "username": &in.Username, "student-id": &in.StudentID,
		"address": &in.Address, "contact": &in.ContactNumber,
	} {
		if set[name] {
			*dst = fs.Lookup(name).Value.String()
		}
	}

	stud, err := r.Submit(ctx, in)
	if err != nil {
		return cli.report(r.Banners, err)
	}
	fmt.Fprintf(cli.out, "Saved student %d (%s).\n", stud.ID, stud.StudentID)
	return nil
}
