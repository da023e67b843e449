package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/manager"
)

var verbs = []string{"list", "add", "edit", "delete"}

func (cli *commandLine) loadManager(ctx context.Context) (*manager.Manager, error) {
	mgr := manager.New(cli.client, banner.NewBoard(nil))
	if err := mgr.Load(ctx); err != nil {
		return nil, cli.report(mgr.Banners, err)
	}
	return mgr, nil
}

func (cli *commandLine) programs(ctx context.Context, args []string) error {
	verb, rest, ok := action(args, verbs...)
	if !ok {
		cli.printUsage()
		return errHelp
	}

	fs := newFlagSet("programs "+verb, cli.out)
	id := fs.Int("id", 0, "Program ID (edit, delete).")
	search := fs.String("search", "", "Filter on code or name (list).")
	code := fs.String("code", "", "Program code, unique.")
	name := fs.String("name", "", "Program name.")
	dept := fs.String("department", "", "Department.")
	desc := fs.String("description", "", "Description.")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	set := visited(fs)
	if (verb == "edit" || verb == "delete") && *id == 0 {
		fs.Usage()
		return errHelp
	}

	mgr, err := cli.loadManager(ctx)
	if err != nil {
		return err
	}

	switch verb {
	case "list":
		mgr.SetSearch(*search)
		w := cli.table()
		fmt.Fprintln(w, "ID\tCODE\tNAME\tDEPARTMENT")
		for _, p := range mgr.Programs() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Code, p.Name, p.Department)
		}
		return w.Flush()

	case "delete":
		if err = mgr.DeleteProgram(ctx, *id); err != nil {
			return cli.report(mgr.Banners, err)
		}
		fmt.Fprintf(cli.out, "Deleted program %d.\n", *id)
		return nil
	}

	var in apiclient.ProgramInput
	if verb == "add" {
		mgr.AddProgram()
	} else {
		in = mgr.EditProgram(*id)
	}
	if set["code"] {
		in.Code = *code
	}
	if set["name"] {
		in.Name = *name
	}
	if set["department"] {
		in.Department = *dept
	}
	if set["description"] {
		in.Description = *desc
	}

	prog, err := mgr.SubmitProgram(ctx, in)
	if err != nil {
		return cli.report(mgr.Banners, err)
	}
	fmt.Fprintf(cli.out, "Saved program %d (%s).\n", prog.ID, prog.Code)
	return nil
}

func (cli *commandLine) subjects(ctx context.Context, args []string) error {
	verb, rest, ok := action(args, verbs...)
	if !ok {
		cli.printUsage()
		return errHelp
	}

	fs := newFlagSet("subjects "+verb, cli.out)
	id := fs.Int("id", 0, "Subject ID (edit, delete).")
	programID := fs.Int("program", 0, "Program ID (list, add).")
	code := fs.String("code", "", "Course code, unique.")
	title := fs.String("title", "", "Title.")
	desc := fs.String("description", "", "Description.")
	credits := fs.Int("credits", 0, "Credits, positive.")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	set := visited(fs)
	if ((verb == "list" || verb == "add") && *programID == 0) || ((verb == "edit" || verb == "delete") && *id == 0) {
		fs.Usage()
		return errHelp
	}

	mgr, err := cli.loadManager(ctx)
	if err != nil {
		return err
	}

	switch verb {
	case "list":
		mgr.SelectProgram(*programID)
		if _, ok := mgr.ActiveProgram(); !ok {
			return errors.Errorf("program %d not found", *programID)
		}
		w := cli.table()
		fmt.Fprintln(w, "ID\tCODE\tTITLE\tCREDITS")
		for _, s := range mgr.Subjects() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", s.ID, s.CourseCode, s.Title, s.Credits)
		}
		return w.Flush()

	case "delete":
		if err = mgr.DeleteSubject(ctx, *id); err != nil {
			return cli.report(mgr.Banners, err)
		}
		fmt.Fprintf(cli.out, "Deleted subject %d.\n", *id)
		return nil
	}

	var in apiclient.SubjectInput
	if verb == "add" {
		mgr.SelectProgram(*programID)
		if err = mgr.AddSubject(); err != nil {
			return cli.report(mgr.Banners, err)
		}
	} else {
		subj, ok := mgr.SubjectByID(*id)
		if !ok {
			return errors.Errorf("subject %d not found", *id)
		}
		mgr.SelectProgram(subj.ProgramID())
		if in, err = mgr.EditSubject(*id); err != nil {
			return cli.report(mgr.Banners, err)
		}
	}
	if set["code"] {
		in.CourseCode = *code
	}
	if set["title"] {
		in.Title = *title
	}
	if set["description"] {
		in.Description = *desc
	}
	if set["credits"] {
		in.Credits = *credits
	}
	if set["program"] {
		in.ProgramID = *programID
	}

	subj, err := mgr.SubmitSubject(ctx, in)
	if err != nil {
		return cli.report(mgr.Banners, err)
	}
	fmt.Fprintf(cli.out, "Saved subject %d (%s).\n", subj.ID, subj.CourseCode)
	return nil
}

func (cli *commandLine) schedules(ctx context.Context, args []string) error {
	verb, rest, ok := action(args, verbs...)
	if !ok {
		cli.printUsage()
		return errHelp
	}

	fs := newFlagSet("schedules "+verb, cli.out)
	subjectID := fs.Int("subject", 0, "Subject ID.")
	id := fs.Int("id", 0, "Schedule ID (edit, delete).")
	day := fs.String("day", "", "Monday to Friday.")
	start := fs.String("start", "", "Start time, 24-hour HH:MM.")
	end := fs.String("end", "", "End time, 24-hour HH:MM.")
	room := fs.String("room", "", "Room.")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	set := visited(fs)
	if *subjectID == 0 || ((verb == "edit" || verb == "delete") && *id == 0) {
		fs.Usage()
		return errHelp
	}

	mgr, err := cli.loadManager(ctx)
	if err != nil {
		return err
	}
	subj, ok := mgr.SubjectByID(*subjectID)
	if !ok {
		return errors.Errorf("subject %d not found", *subjectID)
	}
	mgr.SelectProgram(subj.ProgramID())
	if err = mgr.SelectSubject(ctx, subj.ID); err != nil {
		return cli.report(mgr.Banners, err)
	}

	var form manager.ScheduleForm
	switch verb {
	case "list":
		w := cli.table()
		fmt.Fprintf(w, "%s - %s\n", subj.CourseCode, subj.Title)
		fmt.Fprintln(w, "ID\tDAY\tSTART\tEND\tROOM")
		for _, s := range mgr.Schedules() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Day, s.Start, s.End, s.Room)
		}
		return w.Flush()

	case "delete":
		if err = mgr.DeleteSchedule(ctx, *id); err != nil {
			return cli.report(mgr.Banners, err)
		}
		fmt.Fprintf(cli.out, "Deleted schedule %d.\n", *id)
		return nil

	case "add":
		form, err = mgr.AddSchedule()
	default:
		form, err = mgr.EditSchedule(*id)
	}
	if err != nil {
		return cli.report(mgr.Banners, err)
	}
	if set["day"] {
		form.Day = *day
	}
	if set["start"] {
		form.Start = *start
	}
	if set["end"] {
		form.End = *end
	}
	if set["room"] {
		form.Room = *room
	}

	sched, err := mgr.SubmitSchedule(ctx, form)
	if err != nil {
		return cli.report(mgr.Banners, err)
	}
	fmt.Fprintf(cli.out, "Saved schedule %d: %s %s - %s, %s.\n", sched.ID, sched.Day, sched.Start, sched.End, sched.Room)
	return nil
}
