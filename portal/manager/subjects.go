package manager

import (
	"context"

	"github.com/scsit/ges/portal/apiclient"
)

// Subjects lists the subjects of the active program.
func (m *Manager) Subjects() []apiclient.Subject {
	prog, ok := m.ActiveProgram()
	if !ok {
		return nil
	}
	var out []apiclient.Subject
	for _, s := range m.subjects {
		if s.ProgramID() == prog.ID {
			out = append(out, s)
		}
	}
	return out
}

func (m *Manager) subjectIndex(id int) int {
	for i, s := range m.subjects {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// SubjectByID looks a subject up across all programs.
func (m *Manager) SubjectByID(id int) (apiclient.Subject, bool) {
	if i := m.subjectIndex(id); i >= 0 {
		return m.subjects[i], true
	}
	return apiclient.Subject{}, false
}

// ActiveSubject is the subject being viewed, under the program being viewed.
func (m *Manager) ActiveSubject() (apiclient.Subject, bool) {
	p := m.panels[LevelSubject]
	if !p.Viewing() {
		return apiclient.Subject{}, false
	}
	prog, ok := m.ActiveProgram()
	if !ok {
		return apiclient.Subject{}, false
	}
	if i := m.subjectIndex(p.ID); i >= 0 && m.subjects[i].ProgramID() == prog.ID {
		return m.subjects[i], true
	}
	return apiclient.Subject{}, false
}

// SelectSubject views a subject of the active program and loads its schedules.
func (m *Manager) SelectSubject(ctx context.Context, id int) error {
	prog, ok := m.ActiveProgram()
	if !ok {
		return m.invalid(msgSelectProgram)
	}
	if subj, found := m.SubjectByID(id); !found || subj.ProgramID() != prog.ID {
		return m.invalid(msgSelectProgram)
	}
	m.enter(LevelSubject, ViewPanel(id))
	m.panels[LevelSchedule] = ListPanel()
	return m.loadSchedules(ctx, id)
}

func (m *Manager) loadSchedules(ctx context.Context, subjectID int) error {
	scheds, err := m.client.ListSchedules(ctx, subjectID)
	if err != nil {
		return m.fail(err, "Failed to load schedules.")
	}
	m.schedules = make([]ScheduleView, 0, len(scheds))
	for _, s := range scheds {
		m.schedules = append(m.schedules, viewOf(s))
	}
	m.stale[LevelSchedule] = false
	return nil
}

// AddSubject opens the subject form; a program must be active.
func (m *Manager) AddSubject() error {
	if _, ok := m.ActiveProgram(); !ok {
		return m.invalid(msgSelectProgram)
	}
	m.enter(LevelSubject, AddPanel())
	return nil
}

// EditSubject opens the form for a subject and returns its current values.
func (m *Manager) EditSubject(id int) (apiclient.SubjectInput, error) {
	if _, ok := m.ActiveProgram(); !ok {
		return apiclient.SubjectInput{}, m.invalid(msgSelectProgram)
	}
	m.enter(LevelSubject, EditPanel(id))
	if i := m.subjectIndex(id); i >= 0 {
		s := m.subjects[i]
		return apiclient.SubjectInput{
			CourseCode:  s.CourseCode,
			Title:       s.Title,
			Description: s.Description,
			Credits:     s.Credits,
			ProgramID:   s.ProgramID(),
		}, nil
	}
	return apiclient.SubjectInput{}, nil
}

// CancelSubject closes the subject form.
func (m *Manager) CancelSubject() {
	m.enter(LevelSubject, ListPanel())
}

// SubmitSubject creates or updates depending on the open form.
// A zero ProgramID means the active program.
func (m *Manager) SubmitSubject(ctx context.Context, in apiclient.SubjectInput) (apiclient.Subject, error) {
	prog, ok := m.ActiveProgram()
	if !ok {
		return apiclient.Subject{}, m.invalid(msgSelectProgram)
	}
	if in.ProgramID == 0 {
		in.ProgramID = prog.ID
	}

	var (
		subj apiclient.Subject
		err  error
	)
	switch p := m.panels[LevelSubject]; p.Kind {
	case PanelAdding:
		if subj, err = m.client.CreateSubject(ctx, in); err != nil {
			return subj, m.fail(err, "Failed to save subject.")
		}
		m.subjects = append(m.subjects, subj)

	case PanelEditing:
		if subj, err = m.client.UpdateSubject(ctx, p.ID, in); err != nil {
			return subj, m.fail(err, "Failed to save subject.")
		}
		if i := m.subjectIndex(subj.ID); i >= 0 {
			m.subjects[i] = subj
		}

	default:
		return apiclient.Subject{}, ErrNoForm
	}

	m.stale[LevelSubject] = true
	m.enter(LevelSubject, ListPanel())
	return subj, nil
}

// DeleteSubject removes a subject; deleting the active subject clears the subject and schedule selection.
func (m *Manager) DeleteSubject(ctx context.Context, id int) error {
	if err := m.client.DeleteSubject(ctx, id); err != nil {
		return m.fail(err, "Failed to delete subject.")
	}

	subjects := make([]apiclient.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		if s.ID != id {
			subjects = append(subjects, s)
		}
	}
	m.subjects = subjects
	m.stale[LevelSubject] = true

	if m.panels[LevelSubject].ID == id {
		m.enter(LevelSubject, ListPanel())
	}
	return nil
}
