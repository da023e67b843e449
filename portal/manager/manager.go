// Package manager implements the program > subject > schedule management screen.
//
// Each level of the drill-down holds one Panel. Entering a panel at a level resets every
// deeper level, so at most one form is open at a time. Mutations patch the local lists
// instead of re-fetching them, and mark them stale until the next Refresh.
package manager

import (
	"context"
	"errors"
	"strings"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/clock"
)

const (
	msgSelectProgram = "Please select a program first."
	msgSelectSubject = "Please select a subject first."
	msgNoSubject     = "No subject selected."
	msgFieldsMissing = "Please fill in all required fields."
	msgLoadFailed    = "Failed to load data. Please try again."
)

// ErrNoForm is returned by the Submit methods when their level has no open form.
var ErrNoForm = errors.New("no form is open")

// Days a schedule may fall on; the form defaults to the first.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// ScheduleView is a schedule with display times ("1:05 PM") next to the wire ones.
type ScheduleView struct {
	apiclient.Schedule
	Start string
	End   string
}

func viewOf(s apiclient.Schedule) ScheduleView {
	v := ScheduleView{Schedule: s, Start: s.StartTime, End: s.EndTime}
	if d, err := clock.ToDisplay(s.StartTime); err == nil {
		v.Start = d
	}
	if d, err := clock.ToDisplay(s.EndTime); err == nil {
		v.End = d
	}
	return v
}

// ScheduleForm holds 24-hour "HH:MM" inputs.
type ScheduleForm struct {
	Day   string
	Start string
	End   string
	Room  string
}

func NewScheduleForm() ScheduleForm {
	return ScheduleForm{Day: Days[0]}
}

// Manager is not safe for concurrent use.
type Manager struct {
	client  *apiclient.Client
	Banners *banner.Board

	programs  []apiclient.Program
	subjects  []apiclient.Subject
	schedules []ScheduleView
	search    string
	panels    [levelCount]Panel
	stale     [levelCount]bool
}

func New(client *apiclient.Client, banners *banner.Board) *Manager {
	return &Manager{client: client, Banners: banners}
}

// Panel returns the state of a level.
func (m *Manager) Panel(l Level) Panel { return m.panels[l] }

// Stale reports whether the list of a level was patched locally since the last fetch.
func (m *Manager) Stale(l Level) bool { return m.stale[l] }

// enter sets the panel of a level and resets the deeper ones.
func (m *Manager) enter(l Level, p Panel) {
	m.panels[l] = p
	for deeper := l + 1; deeper < levelCount; deeper++ {
		m.panels[deeper] = IdlePanel()
	}
	if l < LevelSchedule {
		m.schedules = nil
	}
}

func (m *Manager) fail(err error, fallback string) error {
	msg := fallback
	if re, ok := apiclient.AsResponseError(err); ok {
		if text := re.Message(); text != "" {
			msg = text
		}
	}
	m.Banners.Error(msg)
	return err
}

func (m *Manager) invalid(msg string) error {
	m.Banners.Error(msg)
	return apiclient.Invalid(msg)
}

// Load fetches programs and subjects and shows the program list.
func (m *Manager) Load(ctx context.Context) error {
	if err := m.fetch(ctx); err != nil {
		return err
	}
	m.enter(LevelProgram, ListPanel())
	return nil
}

func (m *Manager) fetch(ctx context.Context) error {
	progs, err := m.client.ListPrograms(ctx)
	if err != nil {
		return m.fail(err, msgLoadFailed)
	}
	subjects, err := m.client.ListSubjects(ctx)
	if err != nil {
		return m.fail(err, msgLoadFailed)
	}
	m.programs, m.subjects = progs, subjects
	m.stale[LevelProgram], m.stale[LevelSubject] = false, false
	return nil
}

// Refresh re-fetches programs and subjects, and the schedules of the active subject.
// Selections whose records disappeared are dropped.
func (m *Manager) Refresh(ctx context.Context) error {
	if err := m.fetch(ctx); err != nil {
		return err
	}

	if p := m.panels[LevelProgram]; p.ID != 0 && m.programIndex(p.ID) < 0 {
		m.enter(LevelProgram, ListPanel())
		return nil
	}
	if p := m.panels[LevelSubject]; p.ID != 0 && m.subjectIndex(p.ID) < 0 {
		m.enter(LevelSubject, ListPanel())
		return nil
	}
	if subj, ok := m.ActiveSubject(); ok {
		return m.loadSchedules(ctx, subj.ID)
	}
	return nil
}

// Programs

// SetSearch filters the program list; matching is case-insensitive on name or code.
func (m *Manager) SetSearch(term string) { m.search = term }

func (m *Manager) Search() string { return m.search }

// Programs returns the programs matching the search term.
func (m *Manager) Programs() []apiclient.Program {
	term := strings.ToLower(strings.TrimSpace(m.search))
	if term == "" {
		return m.programs
	}
	var out []apiclient.Program
	for _, p := range m.programs {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Code), term) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manager) programIndex(id int) int {
	for i, p := range m.programs {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ActiveProgram is the program being viewed.
func (m *Manager) ActiveProgram() (apiclient.Program, bool) {
	p := m.panels[LevelProgram]
	if !p.Viewing() {
		return apiclient.Program{}, false
	}
	if i := m.programIndex(p.ID); i >= 0 {
		return m.programs[i], true
	}
	return apiclient.Program{}, false
}

// SelectProgram views a program and lists its subjects.
func (m *Manager) SelectProgram(id int) {
	m.enter(LevelProgram, ViewPanel(id))
	m.panels[LevelSubject] = ListPanel()
}

func (m *Manager) AddProgram() {
	m.enter(LevelProgram, AddPanel())
}

// EditProgram opens the form for a program and returns its current values.
func (m *Manager) EditProgram(id int) apiclient.ProgramInput {
	m.enter(LevelProgram, EditPanel(id))
	if i := m.programIndex(id); i >= 0 {
		p := m.programs[i]
		return apiclient.ProgramInput{Code: p.Code, Name: p.Name, Department: p.Department, Description: p.Description}
	}
	return apiclient.ProgramInput{}
}

// CancelProgram closes the program form.
func (m *Manager) CancelProgram() {
	m.enter(LevelProgram, ListPanel())
}

// SubmitProgram creates or updates depending on the open form. An updated program stays selected.
func (m *Manager) SubmitProgram(ctx context.Context, in apiclient.ProgramInput) (apiclient.Program, error) {
	p := m.panels[LevelProgram]
	switch p.Kind {
	case PanelAdding:
		prog, err := m.client.CreateProgram(ctx, in)
		if err != nil {
			return prog, m.fail(err, "Failed to save program.")
		}
		m.programs = append(m.programs, prog)
		m.stale[LevelProgram] = true
		m.enter(LevelProgram, ListPanel())
		return prog, nil

	case PanelEditing:
		prog, err := m.client.UpdateProgram(ctx, p.ID, in)
		if err != nil {
			return prog, m.fail(err, "Failed to save program.")
		}
		if i := m.programIndex(prog.ID); i >= 0 {
			m.programs[i] = prog
		}
		m.stale[LevelProgram] = true
		m.SelectProgram(prog.ID)
		return prog, nil
	}
	return apiclient.Program{}, ErrNoForm
}

// DeleteProgram removes a program with its subjects; deleting the active program clears the selection.
func (m *Manager) DeleteProgram(ctx context.Context, id int) error {
	if err := m.client.DeleteProgram(ctx, id); err != nil {
		return m.fail(err, "Failed to delete program.")
	}

	progs := make([]apiclient.Program, 0, len(m.programs))
	for _, p := range m.programs {
		if p.ID != id {
			progs = append(progs, p)
		}
	}
	m.programs = progs

	subjects := make([]apiclient.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		if s.ProgramID() != id {
			subjects = append(subjects, s)
		}
	}
	m.subjects = subjects
	m.stale[LevelProgram], m.stale[LevelSubject] = true, true

	if m.panels[LevelProgram].ID == id {
		m.enter(LevelProgram, ListPanel())
	}
	return nil
}
