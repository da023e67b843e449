package program

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
)

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

type Program struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
}

// Subject belongs to a Program, which is nested on read.
type Subject struct {
	ID          int      `json:"id"`
	CourseCode  string   `json:"course_code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Credits     int      `json:"credits"`
	ProgramID   int      `json:"-"`
	Program     *Program `json:"program"`
}

type Schedule struct {
	ID        int       `json:"id"`
	SubjectID int       `json:"subject_id"`
	Day       string    `json:"day"`
	StartTime ClockTime `json:"start_time"`
	EndTime   ClockTime `json:"end_time"`
	Room      string    `json:"room"`
}

// ProgramInput is used to create or replace a Program.
type ProgramInput struct {
	Code        string `json:"code" validate:"required,max=100"`
	Name        string `json:"name" validate:"required,max=100"`
	Department  string `json:"department" validate:"max=100"`
	Description string `json:"description"`
}

// Validate checks the input; excludeID is the program being replaced (0 on create).
func (in *ProgramInput) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface, excludeID int) error {
	in.Code = core.CleanString(in.Code)
	in.Name = core.CleanString(in.Name)
	in.Department = core.CleanString(in.Department)
	in.Description = core.CleanString(in.Description)

	if err := validate.Struct(in); err != nil {
		return err
	}
	return svc.CheckProgramCode(ctx, in.Code, excludeID)
}

// SubjectInput is used to create or replace a Subject.
type SubjectInput struct {
	CourseCode  string `json:"course_code" validate:"required,max=100"`
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description"`
	Credits     *int   `json:"credits" validate:"required,positive"`
	ProgramID   *int   `json:"program_id" validate:"required"`
}

func (in *SubjectInput) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface, excludeID int) error {
	in.CourseCode = core.CleanString(in.CourseCode)
	in.Title = core.CleanString(in.Title)
	in.Description = core.CleanString(in.Description)

	if err := validate.Struct(in); err != nil {
		return err
	}
	if _, err := svc.GetProgram(ctx, *in.ProgramID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewFieldError("program_id", invalidPKText(*in.ProgramID))
		}
		return err
	}
	return svc.CheckCourseCode(ctx, in.CourseCode, excludeID)
}

// ScheduleInput is used to create or replace a Schedule.
type ScheduleInput struct {
	SubjectID *int       `json:"subject_id" validate:"required"`
	Day       string     `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	StartTime *ClockTime `json:"start_time" validate:"required"`
	EndTime   *ClockTime `json:"end_time" validate:"required"`
	Room      string     `json:"room" validate:"required,max=100"`
}

func (in *ScheduleInput) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	in.Day = core.CleanString(in.Day)
	in.Room = core.CleanString(in.Room)

	if err := validate.Struct(in); err != nil {
		return err
	}
	if _, err := svc.GetSubject(ctx, *in.SubjectID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewFieldError("subject_id", invalidPKText(*in.SubjectID))
		}
		return err
	}
	return nil
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Matches does a case-insensitive match on the program name or code.
func (qf QueryFilter) Matches(p Program) bool {
	if qf.Search == "" {
		return true
	}
	needle := strings.ToLower(qf.Search)
	return strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Code), needle)
}

type SubjectFilter struct {
	ProgramID *int `query:"program_id"`
}

type ScheduleFilter struct {
	SubjectID *int `query:"subject_id"`
}
