package nav_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/internal/testutil"
	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/nav"
	"github.com/scsit/ges/portal/session"
)

const pwd = "Sup3rSecret!"

func TestLinks(t *testing.T) {
	assert.Equal(t, nav.RouteTeacher, nav.LandingRoute("teacher"))
	assert.Equal(t, nav.RouteTeacher, nav.LandingRoute("admin"))
	assert.Equal(t, nav.RouteStudent, nav.LandingRoute("student"))

	assert.Equal(t, "Manage Students", nav.LinksFor("teacher")[1].Label)
	assert.Equal(t, "Available Courses", nav.LinksFor("student")[1].Label)

	tests := []struct {
		route, link, role string
		want              bool
	}{
		{route: "/teacher", link: "/teacher", role: "teacher", want: true},
		{route: "/teacher/courses", link: "/teacher", role: "teacher", want: false},
		{route: "/teacher/courses", link: "/teacher/courses", role: "teacher", want: true},
		{route: "/teacher/students/3", link: "/teacher/students", role: "teacher", want: true},
		{route: "/student/grades", link: "/student/grades", role: "student", want: true},
		{route: "/student/grades", link: "/student", role: "student", want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nav.IsActive(tt.route, tt.link, tt.role), "%s on %s", tt.link, tt.route)
	}
}

func TestRouter(t *testing.T) {
	r := nav.NewRouter(nav.RouteLogin)
	r.Push(nav.RouteTeacher)
	r.Push(nav.RouteCourses)
	assert.Equal(t, nav.RouteCourses, r.Current())
	assert.Equal(t, []string{nav.RouteLogin, nav.RouteTeacher, nav.RouteCourses}, r.History())
}

func TestShell(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.CreateTeacher(t, "prof@school.test", pwd)
	ctx := context.Background()

	newShell := func() (*nav.Shell, *nav.Router, session.Store) {
		store := session.NewMemoryStore()
		router := nav.NewRouter(nav.RouteCourses)
		client := apiclient.New(backend.URL, store, apiclient.OnUnauthorized(func() { router.Push(nav.RouteLogin) }))
		return nav.NewShell(client, store, router), router, store
	}

	t.Run("mount refreshes the cached profile", func(t *testing.T) {
		shell, _, store := newShell()
		client := apiclient.New(backend.URL, store)
		resp, err := client.TeacherLogin(ctx, "prof@school.test", pwd)
		require.NoError(t, err)
		require.NoError(t, store.Save(session.Session{Access: resp.Access, Refresh: resp.Refresh}))

		assert.False(t, shell.Ready())
		assert.Nil(t, shell.Links())
		assert.Equal(t, "Guest", shell.DisplayRole())

		require.NoError(t, shell.Mount(ctx))
		assert.True(t, shell.Ready())
		assert.Equal(t, "Teacher", shell.DisplayRole())
		assert.Equal(t, "Teaching", shell.Section())

		links := shell.Links()
		require.Len(t, links, 4)
		assert.False(t, shell.IsActive(links[0]))
		assert.True(t, shell.IsActive(links[2]))

		sess, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "teacher", sess.Profile.Role)
		assert.Equal(t, "Tom", sess.Profile.FirstName)
	})

	t.Run("401 clears the session and lands on login", func(t *testing.T) {
		shell, router, store := newShell()
		require.NoError(t, store.Save(session.Session{Access: "expired", Refresh: "expired"}))

		err := shell.Mount(ctx)
		assert.Equal(t, apiclient.ErrUnauthorized, err)
		assert.False(t, shell.Ready())
		assert.Equal(t, nav.RouteLogin, router.Current())
		assert.Equal(t, []string{nav.RouteCourses, nav.RouteLogin}, router.History())

		_, err = store.Load()
		assert.Equal(t, session.ErrNoSession, err)
	})

	t.Run("no session", func(t *testing.T) {
		shell, router, _ := newShell()
		assert.Equal(t, apiclient.ErrUnauthorized, shell.Mount(ctx))
		assert.Equal(t, nav.RouteLogin, router.Current())
	})

	t.Run("logout", func(t *testing.T) {
		shell, router, store := newShell()
		client := apiclient.New(backend.URL, store)
		resp, err := client.TeacherLogin(ctx, "prof@school.test", pwd)
		require.NoError(t, err)
		require.NoError(t, store.Save(session.Session{Access: resp.Access, Refresh: resp.Refresh}))
		require.NoError(t, shell.Mount(ctx))

		shell.Logout(ctx)
		assert.False(t, shell.Ready())
		assert.Equal(t, nav.RouteLogin, router.Current())
		_, err = store.Load()
		assert.Equal(t, session.ErrNoSession, err)
	})
}
