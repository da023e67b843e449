package manager

import (
	"context"
	"strings"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/clock"
)

// Schedules lists the schedules of the active subject.
func (m *Manager) Schedules() []ScheduleView { return m.schedules }

func (m *Manager) scheduleIndex(id int) int {
	for i, s := range m.schedules {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// ActiveSchedule is the schedule being viewed.
func (m *Manager) ActiveSchedule() (ScheduleView, bool) {
	p := m.panels[LevelSchedule]
	if !p.Viewing() {
		return ScheduleView{}, false
	}
	if i := m.scheduleIndex(p.ID); i >= 0 {
		return m.schedules[i], true
	}
	return ScheduleView{}, false
}

func (m *Manager) SelectSchedule(id int) {
	m.panels[LevelSchedule] = ViewPanel(id)
}

// AddSchedule opens an empty schedule form; a subject must be active.
func (m *Manager) AddSchedule() (ScheduleForm, error) {
	if _, ok := m.ActiveSubject(); !ok {
		return ScheduleForm{}, m.invalid(msgSelectSubject)
	}
	m.panels[LevelSchedule] = AddPanel()
	return NewScheduleForm(), nil
}

// EditSchedule opens the form for a schedule, prefilled with 24-hour inputs.
func (m *Manager) EditSchedule(id int) (ScheduleForm, error) {
	if _, ok := m.ActiveSubject(); !ok {
		return ScheduleForm{}, m.invalid(msgSelectSubject)
	}
	m.panels[LevelSchedule] = EditPanel(id)

	form := NewScheduleForm()
	if i := m.scheduleIndex(id); i >= 0 {
		s := m.schedules[i]
		form.Day, form.Room = s.Day, s.Room
		form.Start, _ = clock.ToInput(s.StartTime)
		form.End, _ = clock.ToInput(s.EndTime)
	}
	return form, nil
}

// CancelSchedule closes the schedule form.
func (m *Manager) CancelSchedule() {
	m.panels[LevelSchedule] = ListPanel()
}

// SubmitSchedule creates or updates depending on the open form.
func (m *Manager) SubmitSchedule(ctx context.Context, form ScheduleForm) (ScheduleView, error) {
	subj, ok := m.ActiveSubject()
	if !ok {
		return ScheduleView{}, m.invalid(msgNoSubject)
	}
	for _, v := range []string{form.Day, form.Start, form.End, form.Room} {
		if strings.TrimSpace(v) == "" {
			return ScheduleView{}, m.invalid(msgFieldsMissing)
		}
	}
	start, err := clock.ToWire(form.Start)
	if err != nil {
		return ScheduleView{}, m.invalid(msgFieldsMissing)
	}
	end, err := clock.ToWire(form.End)
	if err != nil {
		return ScheduleView{}, m.invalid(msgFieldsMissing)
	}
	in := apiclient.ScheduleInput{SubjectID: subj.ID, Day: form.Day, StartTime: start, EndTime: end, Room: strings.TrimSpace(form.Room)}

	var sched apiclient.Schedule
	switch p := m.panels[LevelSchedule]; p.Kind {
	case PanelAdding:
		if sched, err = m.client.CreateSchedule(ctx, in); err != nil {
			return ScheduleView{}, m.fail(err, "Failed to save schedule.")
		}
		m.schedules = append(m.schedules, viewOf(sched))

	case PanelEditing:
		if sched, err = m.client.UpdateSchedule(ctx, p.ID, in); err != nil {
			return ScheduleView{}, m.fail(err, "Failed to save schedule.")
		}
		if i := m.scheduleIndex(sched.ID); i >= 0 {
			m.schedules[i] = viewOf(sched)
		}

	default:
		return ScheduleView{}, ErrNoForm
	}

	m.stale[LevelSchedule] = true
	m.panels[LevelSchedule] = ListPanel()
	return viewOf(sched), nil
}

// DeleteSchedule removes a schedule; deleting the active schedule clears the selection.
func (m *Manager) DeleteSchedule(ctx context.Context, id int) error {
	if err := m.client.DeleteSchedule(ctx, id); err != nil {
		return m.fail(err, "Failed to delete schedule.")
	}

	scheds := make([]ScheduleView, 0, len(m.schedules))
	for _, s := range m.schedules {
		if s.ID != id {
			scheds = append(scheds, s)
		}
	}
	m.schedules = scheds
	m.stale[LevelSchedule] = true

	if m.panels[LevelSchedule].ID == id {
		m.panels[LevelSchedule] = ListPanel()
	}
	return nil
}
