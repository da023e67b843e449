package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/internal/testutil"
	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/session"
)

const pwd = "Sup3rSecret!"

func setup(t *testing.T) (*testutil.Backend, *commandLine, *bytes.Buffer) {
	t.Helper()
	backend := testutil.NewBackend(t)
	store := session.NewMemoryStore()
	out := new(bytes.Buffer)
	return backend, &commandLine{client: apiclient.New(backend.URL, store), store: store, out: out}, out
}

func mockPasswords(t *testing.T, pwds ...string) {
	t.Helper()
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })

	readPasswordFunc = func(int) ([]byte, error) {
		if len(pwds) == 0 {
			return nil, fmt.Errorf("no more passwords")
		}
		p := pwds[0]
		pwds = pwds[1:]
		return []byte(p), nil
	}
}

// exec runs one command line and returns what it printed.
func exec(t *testing.T, cli *commandLine, out *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	out.Reset()
	err := cli.run(context.Background(), append([]string{"portal"}, args...))
	return out.String(), err
}

func loginTeacher(t *testing.T, backend *testutil.Backend, cli *commandLine, out *bytes.Buffer) {
	t.Helper()
	backend.CreateTeacher(t, "prof@school.test", pwd)
	mockPasswords(t, pwd)
	_, err := exec(t, cli, out, "login", "-email", "prof@school.test")
	require.NoError(t, err)
}

func Test_commandLine_help(t *testing.T) {
	_, cli, out := setup(t)

	tests := [][]string{
		{},
		{"bogus"},
		{"programs"},
		{"programs", "rename"},
		{"programs", "edit"},
		{"subjects", "list"},
		{"schedules", "list"},
		{"students", "delete", "-program", "1"},
		{"login"},
		{"signup", "-email", "a@b.test"},
	}
	for _, args := range tests {
		_, err := exec(t, cli, out, args...)
		assert.Equal(t, errHelp, err, args)
	}
}

func Test_commandLine_account(t *testing.T) {
	_, cli, out := setup(t)

	t.Run("signup", func(t *testing.T) {
		mockPasswords(t, pwd, "different!")
		_, err := exec(t, cli, out, "signup", "-first", "Jane", "-last", "Doe", "-student-id", "S-100", "-email", "jane@school.test", "-username", "jane")
		assert.EqualError(t, err, "Passwords do not match.")

		mockPasswords(t, pwd, pwd)
		got, err := exec(t, cli, out, "signup", "-first", "Jane", "-last", "Doe", "-student-id", "S-100", "-email", "jane@school.test", "-username", "jane")
		require.NoError(t, err)
		assert.Contains(t, got, "Signup successful! Welcome, jane!")
	})

	t.Run("login", func(t *testing.T) {
		mockPasswords(t, "wrong-password")
		_, err := exec(t, cli, out, "login", "-student", "S-100")
		assert.EqualError(t, err, "Incorrect password")

		mockPasswords(t, pwd)
		got, err := exec(t, cli, out, "login", "-student", "S-100")
		require.NoError(t, err)
		assert.Equal(t, "Logged in as jane (student). Home: /student\n", got)
	})

	t.Run("me", func(t *testing.T) {
		got, err := exec(t, cli, out, "me")
		require.NoError(t, err)
		assert.Contains(t, got, "Jane Doe (Student)")
		assert.Contains(t, got, "Learning")
		assert.Contains(t, got, "* Dashboard")
		assert.Contains(t, got, "My Grades")
	})

	t.Run("profile", func(t *testing.T) {
		got, err := exec(t, cli, out, "profile")
		require.NoError(t, err)
		assert.Contains(t, got, "Jane Doe [JD]")
		assert.Contains(t, got, "S-100")

		got, err = exec(t, cli, out, "profile", "-first", "Janet", "-contact", "555-0100")
		require.NoError(t, err)
		assert.Contains(t, got, "Profile saved successfully!")
		assert.Contains(t, got, "Janet Doe")
		assert.Contains(t, got, "555-0100")

		txt := filepath.Join(t.TempDir(), "avatar.txt")
		require.NoError(t, os.WriteFile(txt, []byte("not an image"), 0600))
		_, err = exec(t, cli, out, "profile", "-avatar", txt)
		assert.EqualError(t, err, "Only JPEG, PNG, or GIF images are allowed.")
	})

	t.Run("logout", func(t *testing.T) {
		got, err := exec(t, cli, out, "logout")
		require.NoError(t, err)
		assert.Equal(t, "Logged out.\n", got)

		_, err = cli.store.Load()
		assert.Equal(t, session.ErrNoSession, err)

		_, err = exec(t, cli, out, "me")
		assert.Error(t, err)
	})

}

func Test_commandLine_catalog(t *testing.T) {
	backend, cli, out := setup(t)
	loginTeacher(t, backend, cli, out)

	var progID, subjID, schedID int

	got, err := exec(t, cli, out, "programs", "add", "-code", "CS", "-name", "Computer Science")
	require.NoError(t, err)
	_, err = fmt.Sscanf(got, "Saved program %d", &progID)
	require.NoError(t, err)
	backend.CreateProgram(t, "IT", "Information Technology")

	got, err = exec(t, cli, out, "programs", "list", "-search", "cs")
	require.NoError(t, err)
	assert.Contains(t, got, "Computer Science")
	assert.NotContains(t, got, "Information Technology")

	_, err = exec(t, cli, out, "programs", "add", "-code", "CS", "-name", "Again")
	assert.EqualError(t, err, "Program code must be unique.")

	got, err = exec(t, cli, out, "programs", "edit", "-id", fmt.Sprint(progID), "-department", "Engineering")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Saved program %d (CS).\n", progID), got)

	got, err = exec(t, cli, out, "subjects", "add", "-program", fmt.Sprint(progID), "-code", "CS101", "-title", "Intro to Programming", "-credits", "3")
	require.NoError(t, err)
	_, err = fmt.Sscanf(got, "Saved subject %d", &subjID)
	require.NoError(t, err)

	got, err = exec(t, cli, out, "subjects", "edit", "-id", fmt.Sprint(subjID), "-title", "Programming I")
	require.NoError(t, err)
	assert.Contains(t, got, "(CS101)")

	got, err = exec(t, cli, out, "subjects", "list", "-program", fmt.Sprint(progID))
	require.NoError(t, err)
	assert.Contains(t, got, "Programming I")

	got, err = exec(t, cli, out, "schedules", "add", "-subject", fmt.Sprint(subjID), "-day", "Monday", "-start", "13:05", "-end", "14:30", "-room", "B12")
	require.NoError(t, err)
	_, err = fmt.Sscanf(got, "Saved schedule %d:", &schedID)
	require.NoError(t, err)
	assert.Contains(t, got, "Monday 1:05 PM - 2:30 PM, B12.")

	_, err = exec(t, cli, out, "schedules", "add", "-subject", fmt.Sprint(subjID), "-room", "B12")
	assert.EqualError(t, err, "Please fill in all required fields.")

	got, err = exec(t, cli, out, "schedules", "edit", "-subject", fmt.Sprint(subjID), "-id", fmt.Sprint(schedID), "-room", "C1")
	require.NoError(t, err)
	assert.Contains(t, got, "1:05 PM - 2:30 PM, C1.")

	got, err = exec(t, cli, out, "schedules", "list", "-subject", fmt.Sprint(subjID))
	require.NoError(t, err)
	assert.Contains(t, got, "CS101 - Programming I")
	assert.Contains(t, got, "C1")

	got, err = exec(t, cli, out, "schedules", "delete", "-subject", fmt.Sprint(subjID), "-id", fmt.Sprint(schedID))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Deleted schedule %d.\n", schedID), got)

	_, err = exec(t, cli, out, "schedules", "list", "-subject", "9999")
	assert.EqualError(t, err, "subject 9999 not found")

	_, err = exec(t, cli, out, "subjects", "delete", "-id", fmt.Sprint(subjID))
	require.NoError(t, err)
	_, err = exec(t, cli, out, "programs", "delete", "-id", fmt.Sprint(progID))
	require.NoError(t, err)

	got, err = exec(t, cli, out, "programs", "list")
	require.NoError(t, err)
	assert.NotContains(t, got, "Computer Science")
	assert.Contains(t, got, "Information Technology")
}

func Test_commandLine_students(t *testing.T) {
	backend, cli, out := setup(t)
	loginTeacher(t, backend, cli, out)
	prog := backend.CreateProgram(t, "CS", "Computer Science")
	backend.CreateStudent(t, "S-001", "", &prog.ID)
	progFlag := fmt.Sprint(prog.ID)

	var id int
	got, err := exec(t, cli, out, "students", "add", "-program", progFlag, "-first", "Alan", "-last", "Turing", "-email", "alan@school.test", "-student-id", "S-003")
	require.NoError(t, err)
	_, err = fmt.Sscanf(got, "Saved student %d", &id)
	require.NoError(t, err)

	got, err = exec(t, cli, out, "students", "list", "-program", progFlag)
	require.NoError(t, err)
	assert.Contains(t, got, "Alan Turing")
	assert.Contains(t, got, "S-001")

	got, err = exec(t, cli, out, "students", "list", "-program", progFlag, "-search", "turing")
	require.NoError(t, err)
	assert.Contains(t, got, "Alan Turing")
	assert.NotContains(t, got, "S-001")

	got, err = exec(t, cli, out, "students", "edit", "-program", progFlag, "-id", fmt.Sprint(id), "-middle", "Mathison")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Saved student %d (S-003).\n", id), got)

	_, err = exec(t, cli, out, "students", "delete", "-program", progFlag, "-id", fmt.Sprint(id))
	require.NoError(t, err)

	_, err = exec(t, cli, out, "students", "list", "-program", "9999")
	assert.EqualError(t, err, "Program does not exist")
}
