package program

import (
	"context"

	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
)

var (
	// errors
	ErrNotFound          = errors.New("Not found.")
	ErrProgramCodeExists = errors.New("Program code must be unique.")
	ErrCourseCodeExists  = errors.New("Subject course code must be unique.")
)

type (
	Repository interface {
		// CheckProgramCode fails with ErrProgramCodeExists when another program uses code.
		CheckProgramCode(ctx context.Context, code string, excludeID int) error
		CreateProgram(ctx context.Context, p Program) (Program, error)
		QueryPrograms(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Program, error)
		GetProgramByID(ctx context.Context, id int) (Program, error)
		UpdateProgram(ctx context.Context, p Program) (Program, error)
		// DeleteProgram removes the program with its subjects and their schedules,
		// and unenrolls its students.
		DeleteProgram(ctx context.Context, id int) error

		// CheckCourseCode fails with ErrCourseCodeExists when another subject uses code.
		CheckCourseCode(ctx context.Context, code string, excludeID int) error
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		QuerySubjects(ctx context.Context, filter SubjectFilter) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id int) (Subject, error)
		UpdateSubject(ctx context.Context, s Subject) (Subject, error)
		// DeleteSubject removes the subject with its schedules.
		DeleteSubject(ctx context.Context, id int) error

		CreateSchedule(ctx context.Context, s Schedule) (Schedule, error)
		QuerySchedules(ctx context.Context, filter ScheduleFilter) ([]Schedule, error)
		GetScheduleByID(ctx context.Context, id int) (Schedule, error)
		UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error)
		DeleteSchedule(ctx context.Context, id int) error
	}

	ServiceInterface interface {
		CheckProgramCode(ctx context.Context, code string, excludeID int) error
		QueryPrograms(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Program, error)
		GetProgram(ctx context.Context, id int) (Program, error)
		CreateProgram(ctx context.Context, in ProgramInput) (Program, error)
		UpdateProgram(ctx context.Context, id int, in ProgramInput) (Program, error)
		DeleteProgram(ctx context.Context, id int) error

		CheckCourseCode(ctx context.Context, code string, excludeID int) error
		QuerySubjects(ctx context.Context, filter SubjectFilter) ([]Subject, error)
		GetSubject(ctx context.Context, id int) (Subject, error)
		CreateSubject(ctx context.Context, in SubjectInput) (Subject, error)
		UpdateSubject(ctx context.Context, id int, in SubjectInput) (Subject, error)
		DeleteSubject(ctx context.Context, id int) error

		QuerySchedules(ctx context.Context, filter ScheduleFilter) ([]Schedule, error)
		GetSchedule(ctx context.Context, id int) (Schedule, error)
		CreateSchedule(ctx context.Context, in ScheduleInput) (Schedule, error)
		UpdateSchedule(ctx context.Context, id int, in ScheduleInput) (Schedule, error)
		DeleteSchedule(ctx context.Context, id int) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func uniquenessError(err error, field string, sentinel error) error {
	if err == sentinel {
		return core.NewFieldError(field, err.Error())
	}
	return errors.Wrap(err, "checking "+field)
}

// Programs

func (svc *service) CheckProgramCode(ctx context.Context, code string, excludeID int) error {
	if err := svc.repo.CheckProgramCode(ctx, code, excludeID); err != nil {
		return uniquenessError(err, "code", ErrProgramCodeExists)
	}
	return nil
}

func (svc *service) QueryPrograms(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Program, error) {
	return svc.repo.QueryPrograms(ctx, filter, ordering)
}

func (svc *service) GetProgram(ctx context.Context, id int) (Program, error) {
	return svc.repo.GetProgramByID(ctx, id)
}

func (svc *service) CreateProgram(ctx context.Context, in ProgramInput) (Program, error) {
	return svc.repo.CreateProgram(ctx, Program{
		Code:        in.Code,
		Name:        in.Name,
		Department:  in.Department,
		Description: in.Description,
	})
}

func (svc *service) UpdateProgram(ctx context.Context, id int, in ProgramInput) (Program, error) {
	return svc.repo.UpdateProgram(ctx, Program{
		ID:          id,
		Code:        in.Code,
		Name:        in.Name,
		Department:  in.Department,
		Description: in.Description,
	})
}

func (svc *service) DeleteProgram(ctx context.Context, id int) error {
	return svc.repo.DeleteProgram(ctx, id)
}

// Subjects

func (svc *service) CheckCourseCode(ctx context.Context, code string, excludeID int) error {
	if err := svc.repo.CheckCourseCode(ctx, code, excludeID); err != nil {
		return uniquenessError(err, "course_code", ErrCourseCodeExists)
	}
	return nil
}

func (svc *service) QuerySubjects(ctx context.Context, filter SubjectFilter) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, filter)
}

func (svc *service) GetSubject(ctx context.Context, id int) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *service) CreateSubject(ctx context.Context, in SubjectInput) (Subject, error) {
	return svc.repo.CreateSubject(ctx, Subject{
		CourseCode:  in.CourseCode,
		Title:       in.Title,
		Description: in.Description,
		Credits:     *in.Credits,
		ProgramID:   *in.ProgramID,
	})
}

func (svc *service) UpdateSubject(ctx context.Context, id int, in SubjectInput) (Subject, error) {
	return svc.repo.UpdateSubject(ctx, Subject{
		ID:          id,
		CourseCode:  in.CourseCode,
		Title:       in.Title,
		Description: in.Description,
		Credits:     *in.Credits,
		ProgramID:   *in.ProgramID,
	})
}

func (svc *service) DeleteSubject(ctx context.Context, id int) error {
	return svc.repo.DeleteSubject(ctx, id)
}

// Schedules

func (svc *service) QuerySchedules(ctx context.Context, filter ScheduleFilter) ([]Schedule, error) {
	return svc.repo.QuerySchedules(ctx, filter)
}

func (svc *service) GetSchedule(ctx context.Context, id int) (Schedule, error) {
	return svc.repo.GetScheduleByID(ctx, id)
}

func (svc *service) CreateSchedule(ctx context.Context, in ScheduleInput) (Schedule, error) {
	return svc.repo.CreateSchedule(ctx, Schedule{
		SubjectID: *in.SubjectID,
		Day:       in.Day,
		StartTime: *in.StartTime,
		EndTime:   *in.EndTime,
		Room:      in.Room,
	})
}

func (svc *service) UpdateSchedule(ctx context.Context, id int, in ScheduleInput) (Schedule, error) {
	return svc.repo.UpdateSchedule(ctx, Schedule{
		ID:        id,
		SubjectID: *in.SubjectID,
		Day:       in.Day,
		StartTime: *in.StartTime,
		EndTime:   *in.EndTime,
		Room:      in.Room,
	})
}

func (svc *service) DeleteSchedule(ctx context.Context, id int) error {
	return svc.repo.DeleteSchedule(ctx, id)
}
