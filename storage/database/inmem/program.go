package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
)

type programRepository struct {
	db *DB
}

var _ program.Repository = (*programRepository)(nil)

func NewProgramRepository(db *DB) program.Repository {
	return &programRepository{db: db}
}

// Programs

func (repo *programRepository) CheckProgramCode(_ context.Context, code string, excludeID int) error {
	t := repo.db.program
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, p := range t.table {
		if p.ID != excludeID && p.Code == code {
			return program.ErrProgramCodeExists
		}
	}
	return nil
}

func (repo *programRepository) CreateProgram(_ context.Context, p program.Program) (program.Program, error) {
	t := repo.db.program
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.pkCount++
	p.ID = t.pkCount
	t.table[p.ID] = &p
	return p, nil
}

func (repo *programRepository) QueryPrograms(_ context.Context, filter program.QueryFilter, ordering []core.DBOrdering) ([]program.Program, error) {
	t := repo.db.program
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	progs := make([]program.Program, 0, len(t.table))
	for _, p := range t.table {
		if filter.Matches(*p) {
			progs = append(progs, *p)
		}
	}
	sort.Slice(progs, func(i, j int) bool { return progs[i].ID < progs[j].ID })
	sortPrograms(progs, ordering)
	return progs, nil
}

func (repo *programRepository) GetProgramByID(_ context.Context, id int) (program.Program, error) {
	t := repo.db.program
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if p, ok := t.table[id]; ok {
		return *p, nil
	}
	return program.Program{}, program.ErrNotFound
}

func (repo *programRepository) UpdateProgram(_ context.Context, p program.Program) (program.Program, error) {
	t := repo.db.program
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[p.ID]; !ok {
		return program.Program{}, program.ErrNotFound
	}
	t.table[p.ID] = &p
	return p, nil
}

func (repo *programRepository) DeleteProgram(ctx context.Context, id int) error {
	t := repo.db.program
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[id]; !ok {
		return program.ErrNotFound
	}
	delete(t.table, id)

	subjects := repo.db.subject
	subjects.mutex.Lock()
	var subjectIDs []int
	for sid, s := range subjects.table {
		if s.ProgramID == id {
			subjectIDs = append(subjectIDs, sid)
			delete(subjects.table, sid)
		}
	}
	subjects.mutex.Unlock()
	repo.deleteSchedulesOf(subjectIDs...)

	users := repo.db.user
	users.mutex.Lock()
	for _, usr := range users.table {
		if usr.ProgramID != nil && *usr.ProgramID == id {
			usr.ProgramID = nil
		}
	}
	users.mutex.Unlock()
	return nil
}

// Subjects

func (repo *programRepository) CheckCourseCode(_ context.Context, code string, excludeID int) error {
	t := repo.db.subject
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, s := range t.table {
		if s.ID != excludeID && s.CourseCode == code {
			return program.ErrCourseCodeExists
		}
	}
	return nil
}

// withProgram nests the subject's program. Callers must not hold the program lock.
func (repo *programRepository) withProgram(s program.Subject) program.Subject {
	t := repo.db.program
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if p, ok := t.table[s.ProgramID]; ok {
		prog := *p
		s.Program = &prog
	}
	return s
}

func (repo *programRepository) CreateSubject(_ context.Context, s program.Subject) (program.Subject, error) {
	t := repo.db.subject
	t.mutex.Lock()
	t.pkCount++
	s.ID = t.pkCount
	s.Program = nil
	t.table[s.ID] = &s
	t.mutex.Unlock()
	return repo.withProgram(s), nil
}

func (repo *programRepository) QuerySubjects(_ context.Context, filter program.SubjectFilter) ([]program.Subject, error) {
	t := repo.db.subject
	t.mutex.RLock()
	subjects := make([]program.Subject, 0, len(t.table))
	for _, s := range t.table {
		if filter.ProgramID == nil || s.ProgramID == *filter.ProgramID {
			subjects = append(subjects, *s)
		}
	}
	t.mutex.RUnlock()

	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	for i := range subjects {
		subjects[i] = repo.withProgram(subjects[i])
	}
	return subjects, nil
}

func (repo *programRepository) GetSubjectByID(_ context.Context, id int) (program.Subject, error) {
	t := repo.db.subject
	t.mutex.RLock()
	s, ok := t.table[id]
	t.mutex.RUnlock()

	if !ok {
		return program.Subject{}, program.ErrNotFound
	}
	return repo.withProgram(*s), nil
}

func (repo *programRepository) UpdateSubject(_ context.Context, s program.Subject) (program.Subject, error) {
	t := repo.db.subject
	t.mutex.Lock()
	if _, ok := t.table[s.ID]; !ok {
		t.mutex.Unlock()
		return program.Subject{}, program.ErrNotFound
	}
	s.Program = nil
	t.table[s.ID] = &s
	t.mutex.Unlock()
	return repo.withProgram(s), nil
}

func (repo *programRepository) DeleteSubject(_ context.Context, id int) error {
	t := repo.db.subject
	t.mutex.Lock()
	if _, ok := t.table[id]; !ok {
		t.mutex.Unlock()
		return program.ErrNotFound
	}
	delete(t.table, id)
	t.mutex.Unlock()

	repo.deleteSchedulesOf(id)
	return nil
}

// Schedules

func (repo *programRepository) deleteSchedulesOf(subjectIDs ...int) {
	if len(subjectIDs) == 0 {
		return
	}
	ids := make(map[int]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		ids[id] = true
	}

	t := repo.db.schedule
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for id, s := range t.table {
		if ids[s.SubjectID] {
			delete(t.table, id)
		}
	}
}

func (repo *programRepository) CreateSchedule(_ context.Context, s program.Schedule) (program.Schedule, error) {
	t := repo.db.schedule
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.pkCount++
	s.ID = t.pkCount
	t.table[s.ID] = &s
	return s, nil
}

func (repo *programRepository) QuerySchedules(_ context.Context, filter program.ScheduleFilter) ([]program.Schedule, error) {
	t := repo.db.schedule
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	schedules := make([]program.Schedule, 0, len(t.table))
	for _, s := range t.table {
		if filter.SubjectID == nil || s.SubjectID == *filter.SubjectID {
			schedules = append(schedules, *s)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].ID < schedules[j].ID })
	return schedules, nil
}

func (repo *programRepository) GetScheduleByID(_ context.Context, id int) (program.Schedule, error) {
	t := repo.db.schedule
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if s, ok := t.table[id]; ok {
		return *s, nil
	}
	return program.Schedule{}, program.ErrNotFound
}

func (repo *programRepository) UpdateSchedule(_ context.Context, s program.Schedule) (program.Schedule, error) {
	t := repo.db.schedule
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[s.ID]; !ok {
		return program.Schedule{}, program.ErrNotFound
	}
	t.table[s.ID] = &s
	return s, nil
}

func (repo *programRepository) DeleteSchedule(_ context.Context, id int) error {
	t := repo.db.schedule
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.table[id]; !ok {
		return program.ErrNotFound
	}
	delete(t.table, id)
	return nil
}

func sortPrograms(progs []program.Program, ordering []core.DBOrdering) {
	ordering = core.FilterOrderings(ordering, "code", "name", "department")
	if len(ordering) == 0 {
		return
	}
	key := func(p program.Program, field string) string {
		switch field {
		case "code":
			return strings.ToLower(p.Code)
		case "name":
			return strings.ToLower(p.Name)
		default:
			return strings.ToLower(p.Department)
		}
	}
	sort.SliceStable(progs, func(i, j int) bool {
		for _, ord := range ordering {
			a, b := key(progs[i], ord.Field), key(progs[j], ord.Field)
			if a == b {
				continue
			}
			if ord.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}
