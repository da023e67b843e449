package roster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/internal/testutil"
	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/manager"
	"github.com/scsit/ges/portal/roster"
	"github.com/scsit/ges/portal/session"
)

const pwd = "Sup3rSecret!"

func setup(t *testing.T) (*testutil.Backend, *apiclient.Client, int) {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.CreateTeacher(t, "prof@school.test", pwd)
	prog := backend.CreateProgram(t, "CS", "Computer Science")

	store := session.NewMemoryStore()
	client := apiclient.New(backend.URL, store)
	resp, err := client.TeacherLogin(context.Background(), "prof@school.test", pwd)
	require.NoError(t, err)
	require.NoError(t, store.Save(session.Session{Access: resp.Access, Refresh: resp.Refresh}))
	return backend, client, prog.ID
}

func studentIDs(studs []apiclient.User) []string {
	out := make([]string, 0, len(studs))
	for _, s := range studs {
		out = append(out, s.StudentID)
	}
	return out
}

func TestProgramIDFromRoute(t *testing.T) {
	id, err := roster.ProgramIDFromRoute("/teacher/students/12/")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, route := range []string{"/teacher/students", "/teacher/students/abc", "/teacher/students/0", ""} {
		_, err = roster.ProgramIDFromRoute(route)
		assert.EqualError(t, err, "No program ID provided in the URL", route)
	}
}

func TestRoster(t *testing.T) {
	backend, client, progID := setup(t)
	ctx := context.Background()
	backend.CreateStudent(t, "S-001", "", &progID)
	backend.CreateStudent(t, "S-002", "", &progID)

	r := roster.New(client, banner.NewBoard(nil), progID)
	require.NoError(t, r.Load(ctx))
	assert.Equal(t, manager.ListPanel(), r.Panel())
	require.Len(t, r.Students(), 2)

	in := r.Add()
	assert.Equal(t, progID, in.Program)
	in.FirstName, in.LastName, in.Email, in.StudentID = "Alan", "Turing", "alan@school.test", "S-003"
	alan, err := r.Submit(ctx, in)
	require.NoError(t, err)
	assert.Len(t, r.Students(), 3)
	assert.True(t, r.Stale())
	assert.Equal(t, manager.ListPanel(), r.Panel())

	t.Run("search", func(t *testing.T) {
		tests := []struct {
			term string
			want []string
		}{
			{term: "alan turing", want: []string{"S-003"}},
			{term: "TURING", want: []string{"S-003"}},
			{term: "s-002", want: []string{"S-002"}},
			{term: "school.test", want: []string{"S-001", "S-002", "S-003"}},
			{term: "nobody", want: []string{}},
		}
		for _, tt := range tests {
			r.SetSearch(tt.term)
			assert.ElementsMatch(t, tt.want, studentIDs(r.Students()), tt.term)
		}
		r.SetSearch("")
	})

	in = r.Edit(alan.ID)
	assert.Equal(t, "Alan", in.FirstName)
	in.MiddleName = "Mathison"
	alan, err = r.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Mathison", alan.MiddleName)

	in = r.Add()
	in.FirstName, in.LastName, in.Email, in.Username, in.StudentID = "Dup", "Licate", "dup@school.test", "dup", "S-003"
	_, err = r.Submit(ctx, in)
	require.Error(t, err)
	assert.Equal(t, "A user with this student ID already exists.", r.Banners.ErrorMessage())
	assert.Equal(t, manager.AddPanel(), r.Panel())
	r.Cancel()

	r.Select(alan.ID)
	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, "S-003", active.StudentID)

	require.NoError(t, r.Delete(ctx, alan.ID))
	_, ok = r.Active()
	assert.False(t, ok)
	assert.Len(t, r.Students(), 2)

	require.NoError(t, r.Refresh(ctx))
	assert.False(t, r.Stale())
	assert.Len(t, r.Students(), 2)

	assert.Equal(t, roster.ErrAttendanceUnavailable, r.Attendance(ctx, alan.ID))
}

func TestLoadErrors(t *testing.T) {
	_, client, progID := setup(t)
	ctx := context.Background()

	r := roster.New(client, banner.NewBoard(nil), 0)
	require.Error(t, r.Load(ctx))
	assert.Equal(t, "No program ID provided in the URL", r.Banners.ErrorMessage())

	r = roster.New(client, banner.NewBoard(nil), progID+100)
	require.Error(t, r.Load(ctx))
	assert.Equal(t, "Program does not exist", r.Banners.ErrorMessage())
}
