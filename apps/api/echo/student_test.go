package echoapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/core/user"
)

func TestRoster(t *testing.T) {
	app := setup(t)
	token, _ := app.tokens(t, app.createTeacher(t, "tom@school.test", pwd))
	cs := app.createProgram(t, "CS", "Computer Science")
	it := app.createProgram(t, "IT", "Information Technology")

	payload := func(first, last, studentID string, programID int) map[string]interface{} {
		return map[string]interface{}{
			"first_name":     first,
			"middle_name":    "",
			"last_name":      last,
			"email":          studentID + "@school.test",
			"student_id":     studentID,
			"address":        "1 Main St",
			"contact_number": "0123",
			"program":        programID,
		}
	}

	rec := app.do(http.MethodPost, "/api/students", token, payload("Grace", "Hopper", "S-1", cs.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var grace user.User
	decode(t, rec, &grace)
	assert.Equal(t, user.RoleStudent, grace.Role)
	require.NotNil(t, grace.ProgramID)
	assert.Equal(t, cs.ID, *grace.ProgramID)

	rec = app.do(http.MethodPost, "/api/students", token, payload("Alan", "Turing", "S-2", cs.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var alan user.User
	decode(t, rec, &alan)

	t.Run("list and search", func(t *testing.T) {
		var students []user.User
		decode(t, app.do(http.MethodGet, fmt.Sprintf("/api/students/programs/%d/students", cs.ID), token, nil), &students)
		require.Len(t, students, 2)

		decode(t, app.do(http.MethodGet, fmt.Sprintf("/api/students/programs/%d/students?search=hop", cs.ID), token, nil), &students)
		require.Len(t, students, 1)
		assert.Equal(t, grace.ID, students[0].ID)
	})

	t.Run("unknown program", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/students/programs/999/students", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Program does not exist", errorOf(t, rec).Detail)
	})

	t.Run("duplicate student id", func(t *testing.T) {
		body := payload("Bob", "B", "S-1", cs.ID)
		body["email"] = "bob@school.test"
		body["username"] = "bob"
		fe := fieldErrorsOf(t, app.do(http.MethodPost, "/api/students", token, body))
		assert.Equal(t, []string{"A user with this student ID already exists."}, fe["student_id"])
	})

	t.Run("move to another program", func(t *testing.T) {
		rec := app.do(http.MethodPut, fmt.Sprintf("/api/students/%d", alan.ID), token, payload("Alan", "Turing", "S-2", it.ID))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var students []user.User
		decode(t, app.do(http.MethodGet, fmt.Sprintf("/api/students/programs/%d/students", it.ID), token, nil), &students)
		require.Len(t, students, 1)
		assert.Equal(t, alan.ID, students[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(http.MethodDelete, fmt.Sprintf("/api/students/%d", grace.ID), token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = app.do(http.MethodDelete, fmt.Sprintf("/api/students/%d", grace.ID), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
