package echoapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/core/program"
)

func TestProgramsPermissions(t *testing.T) {
	app := setup(t)
	stud := app.createStudent(t, "2024-0001", pwd)
	studToken, _ := app.tokens(t, stud)

	rec := app.do(http.MethodGet, "/api/programs/programs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodGet, "/api/programs/programs", studToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "permission denied", errorOf(t, rec).Detail)

	rec = app.do(http.MethodGet, "/api/students/programs/1/students", studToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProgramsCRUD(t *testing.T) {
	app := setup(t)
	token, _ := app.tokens(t, app.createTeacher(t, "tom@school.test", pwd))

	rec := app.do(http.MethodPost, "/api/programs/programs", token, program.ProgramInput{Code: "CS", Name: "Computer Science"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var cs program.Program
	decode(t, rec, &cs)
	assert.Equal(t, "CS", cs.Code)

	rec = app.do(http.MethodPost, "/api/programs/programs", token, program.ProgramInput{Code: "IT", Name: "Information Technology"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var it program.Program
	decode(t, rec, &it)

	t.Run("unique code", func(t *testing.T) {
		fe := fieldErrorsOf(t, app.do(http.MethodPost, "/api/programs/programs", token, program.ProgramInput{Code: "CS", Name: "Dup"}))
		assert.Equal(t, []string{"Program code must be unique."}, fe["code"])
	})

	t.Run("required fields", func(t *testing.T) {
		fe := fieldErrorsOf(t, app.do(http.MethodPost, "/api/programs/programs", token, map[string]string{}))
		assert.Equal(t, []string{"This field is required."}, fe["code"])
		assert.Equal(t, []string{"This field is required."}, fe["name"])
	})

	t.Run("search and ordering", func(t *testing.T) {
		var progs []program.Program
		decode(t, app.do(http.MethodGet, "/api/programs/programs?search=cs", token, nil), &progs)
		require.Len(t, progs, 1)
		assert.Equal(t, cs.ID, progs[0].ID)

		decode(t, app.do(http.MethodGet, "/api/programs/programs?ordering=-code", token, nil), &progs)
		require.Len(t, progs, 2)
		assert.Equal(t, it.ID, progs[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		path := fmt.Sprintf("/api/programs/programs/%d", cs.ID)
		rec := app.do(http.MethodPut, path, token, program.ProgramInput{Code: "CS", Name: "Comp Sci", Department: "Engineering"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var p program.Program
		decode(t, rec, &p)
		assert.Equal(t, "Comp Sci", p.Name)
		assert.Equal(t, "Engineering", p.Department)
	})

	t.Run("not found", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/programs/programs/999", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not found.", errorOf(t, rec).Detail)

		rec = app.do(http.MethodGet, "/api/programs/programs/abc", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(http.MethodDelete, fmt.Sprintf("/api/programs/programs/%d", it.ID), token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = app.do(http.MethodDelete, fmt.Sprintf("/api/programs/programs/%d", it.ID), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSubjectsAndSchedules(t *testing.T) {
	app := setup(t)
	token, _ := app.tokens(t, app.createTeacher(t, "tom@school.test", pwd))
	cs := app.createProgram(t, "CS", "Computer Science")
	it := app.createProgram(t, "IT", "Information Technology")

	rec := app.do(http.MethodPost, "/api/programs/subjects", token, map[string]interface{}{
		"course_code": "CS101", "title": "Intro", "credits": 3, "program_id": cs.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var subj program.Subject
	decode(t, rec, &subj)
	require.NotNil(t, subj.Program)
	assert.Equal(t, cs.ID, subj.Program.ID)

	t.Run("subject errors", func(t *testing.T) {
		fe := fieldErrorsOf(t, app.do(http.MethodPost, "/api/programs/subjects", token, map[string]interface{}{
			"course_code": "CS102", "title": "T", "credits": -1, "program_id": cs.ID,
		}))
		assert.Equal(t, []string{"Credits must be a positive integer."}, fe["credits"])

		fe = fieldErrorsOf(t, app.do(http.MethodPost, "/api/programs/subjects", token, map[string]interface{}{
			"course_code": "CS101", "title": "T", "credits": 2, "program_id": it.ID,
		}))
		assert.Equal(t, []string{"Subject course code must be unique."}, fe["course_code"])
	})

	t.Run("subjects by program", func(t *testing.T) {
		var subjects []program.Subject
		decode(t, app.do(http.MethodGet, fmt.Sprintf("/api/programs/subjects?program_id=%d", it.ID), token, nil), &subjects)
		assert.Empty(t, subjects)
		decode(t, app.do(http.MethodGet, "/api/programs/subjects", token, nil), &subjects)
		assert.Len(t, subjects, 1)
	})

	schedule := map[string]interface{}{
		"subject_id": subj.ID, "day": "Monday", "start_time": "13:05:00", "end_time": "14:00:00", "room": "B2",
	}
	rec = app.do(http.MethodPost, "/api/programs/schedules", token, schedule)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"start_time":"13:05:00"`)
	var sched program.Schedule
	decode(t, rec, &sched)

	t.Run("schedule errors", func(t *testing.T) {
		bad := map[string]interface{}{
			"subject_id": subj.ID, "day": "Monday", "start_time": "15:00:00", "end_time": "14:00:00", "room": "B2",
		}
		fe := fieldErrorsOf(t, app.do(http.MethodPost, "/api/programs/schedules", token, bad))
		assert.Equal(t, []string{"End time must be after start time."}, fe["non_field_errors"])

		bad["start_time"], bad["day"] = "09:00", "Sunday"
		fe = fieldErrorsOf(t, app.do(http.MethodPost, "/api/programs/schedules", token, bad))
		assert.Equal(t, []string{"Select a valid choice."}, fe["day"])
	})

	t.Run("schedules by subject", func(t *testing.T) {
		var scheds []program.Schedule
		decode(t, app.do(http.MethodGet, fmt.Sprintf("/api/programs/schedules?subject_id=%d", subj.ID), token, nil), &scheds)
		require.Len(t, scheds, 1)
		assert.Equal(t, "B2", scheds[0].Room)
	})

	t.Run("update schedule", func(t *testing.T) {
		schedule["room"] = "C3"
		rec := app.do(http.MethodPut, fmt.Sprintf("/api/programs/schedules/%d", sched.ID), token, schedule)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"room":"C3"`)
	})

	t.Run("deleting the program cascades", func(t *testing.T) {
		rec := app.do(http.MethodDelete, fmt.Sprintf("/api/programs/programs/%d", cs.ID), token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, fmt.Sprintf("/api/programs/subjects/%d", subj.ID), token, nil).Code)
		assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, fmt.Sprintf("/api/programs/schedules/%d", sched.ID), token, nil).Code)
	})
}
