// Package roster implements the student roster screen of one program.
package roster

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/manager"
)

// ErrAttendanceUnavailable is returned by Attendance: there is no attendance endpoint yet.
var ErrAttendanceUnavailable = errors.New("attendance is not available")

const (
	msgNoProgram    = "No program ID provided in the URL"
	msgFetchFailed  = "Failed to fetch students. Please try again."
	msgSaveFailed   = "Failed to save student. Please try again."
	msgDeleteFailed = "Failed to delete student. Please try again."
)

// ProgramIDFromRoute reads the program id from a "/teacher/students/{id}" route.
func ProgramIDFromRoute(route string) (int, error) {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) == 0 {
		return 0, apiclient.Invalid(msgNoProgram)
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || id <= 0 {
		return 0, apiclient.Invalid(msgNoProgram)
	}
	return id, nil
}

// Roster is not safe for concurrent use.
type Roster struct {
	client    *apiclient.Client
	Banners   *banner.Board
	programID int

	students []apiclient.User
	search   string
	panel    manager.Panel
	stale    bool
}

func New(client *apiclient.Client, banners *banner.Board, programID int) *Roster {
	return &Roster{client: client, Banners: banners, programID: programID}
}

func (r *Roster) ProgramID() int { return r.programID }

func (r *Roster) Panel() manager.Panel { return r.panel }

// Stale reports whether the list was patched locally since the last fetch.
func (r *Roster) Stale() bool { return r.stale }

func (r *Roster) fail(err error, fallback string) error {
	msg := fallback
	if re, ok := apiclient.AsResponseError(err); ok {
		if text := re.Message(); text != "" {
			msg = text
		}
	}
	r.Banners.Error(msg)
	return err
}

// Load fetches the roster and shows the list.
func (r *Roster) Load(ctx context.Context) error {
	if r.programID <= 0 {
		r.Banners.Error(msgNoProgram)
		return apiclient.Invalid(msgNoProgram)
	}
	students, err := r.client.ListStudents(ctx, r.programID)
	if err != nil {
		return r.fail(err, msgFetchFailed)
	}
	r.students = students
	r.stale = false
	if r.panel.ID != 0 && r.index(r.panel.ID) < 0 {
		r.panel = manager.ListPanel()
	}
	if r.panel.Kind == manager.PanelIdle {
		r.panel = manager.ListPanel()
	}
	return nil
}

// Refresh re-fetches the roster, keeping the selection when it still exists.
func (r *Roster) Refresh(ctx context.Context) error {
	return r.Load(ctx)
}

func (r *Roster) SetSearch(term string) { r.search = term }

// Students returns the students matching the search term on full name, email or student ID.
func (r *Roster) Students() []apiclient.User {
	term := strings.ToLower(strings.TrimSpace(r.search))
	if term == "" {
		return r.students
	}
	var out []apiclient.User
	for _, s := range r.students {
		name := strings.Join(strings.Fields(s.FirstName+" "+s.MiddleName+" "+s.LastName), " ")
		for _, v := range []string{name, s.Email, s.StudentID} {
			if strings.Contains(strings.ToLower(v), term) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func (r *Roster) index(id int) int {
	for i, s := range r.students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Active is the student being viewed or edited.
func (r *Roster) Active() (apiclient.User, bool) {
	if r.panel.Kind != manager.PanelViewing && r.panel.Kind != manager.PanelEditing {
		return apiclient.User{}, false
	}
	if i := r.index(r.panel.ID); i >= 0 {
		return r.students[i], true
	}
	return apiclient.User{}, false
}

func (r *Roster) Select(id int) {
	r.panel = manager.ViewPanel(id)
}

// Add opens an empty form.
func (r *Roster) Add() apiclient.StudentInput {
	r.panel = manager.AddPanel()
	return apiclient.StudentInput{Program: r.programID}
}

// Edit opens the form for a student and returns its current values.
func (r *Roster) Edit(id int) apiclient.StudentInput {
	r.panel = manager.EditPanel(id)
	in := apiclient.StudentInput{Program: r.programID}
	if i := r.index(id); i >= 0 {
		s := r.students[i]
		in.FirstName, in.MiddleName, in.LastName = s.FirstName, s.MiddleName, s.LastName
		in.Email, in.Username, in.StudentID = s.Email, s.Username, s.StudentID
		in.Address, in.ContactNumber = s.Address, s.ContactNumber
	}
	return in
}

func (r *Roster) Cancel() {
	r.panel = manager.ListPanel()
}

// Submit creates or updates depending on the open form. A zero Program means this roster's program.
func (r *Roster) Submit(ctx context.Context, in apiclient.StudentInput) (apiclient.User, error) {
	if in.Program == 0 {
		in.Program = r.programID
	}

	var (
		stud apiclient.User
		err  error
	)
	switch r.panel.Kind {
	case manager.PanelAdding:
		if stud, err = r.client.CreateStudent(ctx, in); err != nil {
			return stud, r.fail(err, msgSaveFailed)
		}
		r.students = append(r.students, stud)

	case manager.PanelEditing:
		if stud, err = r.client.UpdateStudent(ctx, r.panel.ID, in); err != nil {
			return stud, r.fail(err, msgSaveFailed)
		}
		if i := r.index(stud.ID); i >= 0 {
			r.students[i] = stud
		}

	default:
		return apiclient.User{}, manager.ErrNoForm
	}

	r.stale = true
	r.panel = manager.ListPanel()
	return stud, nil
}

// Delete removes a student; deleting the active student clears the selection.
func (r *Roster) Delete(ctx context.Context, id int) error {
	if err := r.client.DeleteStudent(ctx, id); err != nil {
		return r.fail(err, msgDeleteFailed)
	}

	students := make([]apiclient.User, 0, len(r.students))
	for _, s := range r.students {
		if s.ID != id {
			students = append(students, s)
		}
	}
	r.students = students
	r.stale = true

	if r.panel.ID == id {
		r.panel = manager.ListPanel()
	}
	return nil
}

// Attendance has no backing endpoint.
func (r *Roster) Attendance(ctx context.Context, studentID int) error {
	return ErrAttendanceUnavailable
}
