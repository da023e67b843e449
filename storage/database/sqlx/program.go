package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
)

const (
	programColumns  = "id, code, name, department, description"
	scheduleColumns = "id, subject_id, day, start_time, end_time, room"

	subjectSelect = `SELECT s.id, s.course_code, s.title, s.description, s.credits, s.program_id,
		p.code AS program_code, p.name AS program_name, p.department AS program_department,
		p.description AS program_description
	FROM subjects s JOIN programs p ON p.id = s.program_id`
)

type programRow struct {
	ID          int    `db:"id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	Department  string `db:"department"`
	Description string `db:"description"`
}

type subjectRow struct {
	ID                 int    `db:"id"`
	CourseCode         string `db:"course_code"`
	Title              string `db:"title"`
	Description        string `db:"description"`
	Credits            int    `db:"credits"`
	ProgramID          int    `db:"program_id"`
	ProgramCode        string `db:"program_code"`
	ProgramName        string `db:"program_name"`
	ProgramDepartment  string `db:"program_department"`
	ProgramDescription string `db:"program_description"`
}

func (row subjectRow) subject() program.Subject {
	return program.Subject{
		ID:          row.ID,
		CourseCode:  row.CourseCode,
		Title:       row.Title,
		Description: row.Description,
		Credits:     row.Credits,
		ProgramID:   row.ProgramID,
		Program: &program.Program{
			ID:          row.ProgramID,
			Code:        row.ProgramCode,
			Name:        row.ProgramName,
			Department:  row.ProgramDepartment,
			Description: row.ProgramDescription,
		},
	}
}

type scheduleRow struct {
	ID        int               `db:"id"`
	SubjectID int               `db:"subject_id"`
	Day       string            `db:"day"`
	StartTime program.ClockTime `db:"start_time"`
	EndTime   program.ClockTime `db:"end_time"`
	Room      string            `db:"room"`
}

type programRepository struct {
	db *sqlx.DB
}

var _ program.Repository = (*programRepository)(nil)

func NewProgramRepository(db *sqlx.DB) program.Repository {
	return &programRepository{db: db}
}

func (repo *programRepository) exists(ctx context.Context, q string, args ...interface{}) (bool, error) {
	var found bool
	err := repo.db.GetContext(ctx, &found, "SELECT EXISTS ("+q+")", args...)
	return found, err
}

func (repo *programRepository) execOne(ctx context.Context, q string, arg interface{}) error {
	res, err := repo.db.NamedExecContext(ctx, q, arg)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return program.ErrNotFound
	}
	return nil
}

func (repo *programRepository) deleteOne(ctx context.Context, q string, id int) error {
	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return program.ErrNotFound
	}
	return nil
}

// Programs

func (repo *programRepository) CheckProgramCode(ctx context.Context, code string, excludeID int) error {
	found, err := repo.exists(ctx, "SELECT 1 FROM programs WHERE code = $1 AND id <> $2", code, excludeID)
	if err != nil {
		return errors.Wrap(err, "checking program code")
	}
	if found {
		return program.ErrProgramCodeExists
	}
	return nil
}

func (repo *programRepository) CreateProgram(ctx context.Context, p program.Program) (program.Program, error) {
	q := `INSERT INTO programs (code, name, department, description)
	VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &p.ID, q, p.Code, p.Name, p.Department, p.Description); err != nil {
		return program.Program{}, errors.Wrap(err, "inserting program")
	}
	return p, nil
}

func (repo *programRepository) QueryPrograms(ctx context.Context, filter program.QueryFilter, ordering []core.DBOrdering) ([]program.Program, error) {
	q := "SELECT " + programColumns + " FROM programs"
	var args []interface{}
	if filter.Search != "" {
		q += " WHERE name ILIKE $1 OR code ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}
	q += core.OrderByClause(core.FilterOrderings(ordering, "code", "name", "department"), "id")

	var rows []programRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	progs := make([]program.Program, 0, len(rows))
	for _, row := range rows {
		progs = append(progs, program.Program(row))
	}
	return progs, nil
}

func (repo *programRepository) GetProgramByID(ctx context.Context, id int) (program.Program, error) {
	var row programRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+programColumns+" FROM programs WHERE id = $1", id); err != nil {
		return program.Program{}, trapNoRowsErr(err, program.ErrNotFound, "finding program")
	}
	return program.Program(row), nil
}

func (repo *programRepository) UpdateProgram(ctx context.Context, p program.Program) (program.Program, error) {
	q := `UPDATE programs SET code = :code, name = :name, department = :department, description = :description
	WHERE id = :id`
	if err := repo.execOne(ctx, q, programRow(p)); err != nil {
		return program.Program{}, trapNoRowsErr(err, program.ErrNotFound, "updating program")
	}
	return p, nil
}

// DeleteProgram relies on the foreign keys: subjects and schedules cascade, students are unenrolled.
func (repo *programRepository) DeleteProgram(ctx context.Context, id int) error {
	if err := repo.deleteOne(ctx, "DELETE FROM programs WHERE id = $1", id); err != nil {
		return trapNoRowsErr(err, program.ErrNotFound, "deleting program")
	}
	return nil
}

// Subjects

func (repo *programRepository) CheckCourseCode(ctx context.Context, code string, excludeID int) error {
	found, err := repo.exists(ctx, "SELECT 1 FROM subjects WHERE course_code = $1 AND id <> $2", code, excludeID)
	if err != nil {
		return errors.Wrap(err, "checking course code")
	}
	if found {
		return program.ErrCourseCodeExists
	}
	return nil
}

func (repo *programRepository) CreateSubject(ctx context.Context, s program.Subject) (program.Subject, error) {
	q := `INSERT INTO subjects (course_code, title, description, credits, program_id)
	VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	if err := repo.db.GetContext(ctx, &id, q, s.CourseCode, s.Title, s.Description, s.Credits, s.ProgramID); err != nil {
		return program.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return repo.GetSubjectByID(ctx, id)
}

func (repo *programRepository) QuerySubjects(ctx context.Context, filter program.SubjectFilter) ([]program.Subject, error) {
	q := subjectSelect
	var args []interface{}
	if filter.ProgramID != nil {
		q += " WHERE s.program_id = $1"
		args = append(args, *filter.ProgramID)
	}
	q += " ORDER BY s.id"

	var rows []subjectRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]program.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.subject())
	}
	return subjects, nil
}

func (repo *programRepository) GetSubjectByID(ctx context.Context, id int) (program.Subject, error) {
	var row subjectRow
	if err := repo.db.GetContext(ctx, &row, subjectSelect+" WHERE s.id = $1", id); err != nil {
		return program.Subject{}, trapNoRowsErr(err, program.ErrNotFound, "finding subject")
	}
	return row.subject(), nil
}

func (repo *programRepository) UpdateSubject(ctx context.Context, s program.Subject) (program.Subject, error) {
	q := `UPDATE subjects SET course_code = $2, title = $3, description = $4, credits = $5, program_id = $6
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, s.ID, s.CourseCode, s.Title, s.Description, s.Credits, s.ProgramID)
	if err != nil {
		return program.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return program.Subject{}, program.ErrNotFound
	}
	return repo.GetSubjectByID(ctx, s.ID)
}

func (repo *programRepository) DeleteSubject(ctx context.Context, id int) error {
	if err := repo.deleteOne(ctx, "DELETE FROM subjects WHERE id = $1", id); err != nil {
		return trapNoRowsErr(err, program.ErrNotFound, "deleting subject")
	}
	return nil
}

// Schedules

func (repo *programRepository) CreateSchedule(ctx context.Context, s program.Schedule) (program.Schedule, error) {
	q := `INSERT INTO schedules (subject_id, day, start_time, end_time, room)
	VALUES (:subject_id, :day, :start_time, :end_time, :room) RETURNING id`
	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return program.Schedule{}, errors.Wrap(err, "preparing schedule insert")
	}
	defer func() { _ = stmt.Close() }()

	if err = stmt.GetContext(ctx, &s.ID, scheduleRow(s)); err != nil {
		return program.Schedule{}, errors.Wrap(err, "inserting schedule")
	}
	return s, nil
}

func (repo *programRepository) QuerySchedules(ctx context.Context, filter program.ScheduleFilter) ([]program.Schedule, error) {
	q := "SELECT " + scheduleColumns + " FROM schedules"
	var args []interface{}
	if filter.SubjectID != nil {
		q += " WHERE subject_id = $1"
		args = append(args, *filter.SubjectID)
	}
	q += " ORDER BY id"

	var rows []scheduleRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	scheds := make([]program.Schedule, 0, len(rows))
	for _, row := range rows {
		scheds = append(scheds, program.Schedule(row))
	}
	return scheds, nil
}

func (repo *programRepository) GetScheduleByID(ctx context.Context, id int) (program.Schedule, error) {
	var row scheduleRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+scheduleColumns+" FROM schedules WHERE id = $1", id); err != nil {
		return program.Schedule{}, trapNoRowsErr(err, program.ErrNotFound, "finding schedule")
	}
	return program.Schedule(row), nil
}

func (repo *programRepository) UpdateSchedule(ctx context.Context, s program.Schedule) (program.Schedule, error) {
	q := `UPDATE schedules SET subject_id = :subject_id, day = :day, start_time = :start_time,
		end_time = :end_time, room = :room
	WHERE id = :id`
	if err := repo.execOne(ctx, q, scheduleRow(s)); err != nil {
		return program.Schedule{}, trapNoRowsErr(err, program.ErrNotFound, "updating schedule")
	}
	return s, nil
}

func (repo *programRepository) DeleteSchedule(ctx context.Context, id int) error {
	if err := repo.deleteOne(ctx, "DELETE FROM schedules WHERE id = $1", id); err != nil {
		return trapNoRowsErr(err, program.ErrNotFound, "deleting schedule")
	}
	return nil
}
