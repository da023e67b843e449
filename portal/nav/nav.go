// Package nav is the portal's navigation shell: the router, the role-dependent menu and logout.
package nav

import (
	"context"
	"strings"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/session"
)

// Routes
const (
	RouteLogin    = "/login"
	RouteSignup   = "/signup"
	RouteProfile  = "/profile"
	RouteStudent  = "/student"
	RouteTeacher  = "/teacher"
	RouteStudents = "/teacher/students"
	RouteCourses  = "/teacher/courses"
)

// Router records the current route. It is not safe for concurrent use.
type Router struct {
	history []string
}

func NewRouter(start string) *Router {
	return &Router{history: []string{start}}
}

func (r *Router) Push(route string) {
	r.history = append(r.history, route)
}

func (r *Router) Current() string {
	return r.history[len(r.history)-1]
}

func (r *Router) History() []string {
	return append([]string(nil), r.history...)
}

type Link struct {
	Path  string
	Label string
}

var (
	studentLinks = []Link{
		{Path: RouteStudent, Label: "Dashboard"},
		{Path: "/student/courses", Label: "Available Courses"},
		{Path: "/student/enrolled", Label: "Enrolled"},
		{Path: "/student/grades", Label: "My Grades"},
		{Path: "/student/record", Label: "Academic Record"},
	}
	teacherLinks = []Link{
		{Path: RouteTeacher, Label: "Dashboard"},
		{Path: RouteStudents, Label: "Manage Students"},
		{Path: RouteCourses, Label: "Manage Courses"},
		{Path: "/teacher/grades", Label: "Manage Grades"},
	}
)

func isStaff(role string) bool {
	return role == "teacher" || role == "admin"
}

// LandingRoute is where a user of role goes after login.
func LandingRoute(role string) string {
	if isStaff(role) {
		return RouteTeacher
	}
	return RouteStudent
}

// LinksFor returns the side menu for role.
func LinksFor(role string) []Link {
	if isStaff(role) {
		return teacherLinks
	}
	return studentLinks
}

// IsActive reports whether link is highlighted on route. The landing route only matches itself.
func IsActive(route, link, role string) bool {
	if route == link {
		return true
	}
	return link != LandingRoute(role) && strings.HasPrefix(route, link)
}

// Shell renders nothing until Mount fetched the current user.
type Shell struct {
	client  *apiclient.Client
	store   session.Store
	router  *Router
	profile *session.Profile
}

func NewShell(client *apiclient.Client, store session.Store, router *Router) *Shell {
	return &Shell{client: client, store: store, router: router}
}

// Mount fetches the profile fresh and refreshes the cached copy. Any failure logs out.
func (s *Shell) Mount(ctx context.Context) error {
	s.profile = nil

	sess, err := s.store.Load()
	if err != nil {
		s.Logout(ctx)
		return apiclient.ErrUnauthorized
	}

	usr, err := s.client.Me(ctx)
	if err != nil {
		s.Logout(ctx)
		return err
	}

	profile := usr.Profile()
	profile.Avatar = s.client.AbsoluteURL(profile.Avatar)
	sess.Profile = profile
	if err = s.store.Save(sess); err != nil {
		return err
	}
	s.profile = &profile
	return nil
}

// Ready reports whether the shell may render.
func (s *Shell) Ready() bool { return s.profile != nil }

func (s *Shell) Profile() (session.Profile, bool) {
	if s.profile == nil {
		return session.Profile{}, false
	}
	return *s.profile, true
}

func (s *Shell) Links() []Link {
	if s.profile == nil {
		return nil
	}
	return LinksFor(s.profile.Role)
}

// Section is the menu heading.
func (s *Shell) Section() string {
	if s.profile != nil && isStaff(s.profile.Role) {
		return "Teaching"
	}
	return "Learning"
}

// DisplayRole capitalizes the role, "Guest" before Mount.
func (s *Shell) DisplayRole() string {
	if s.profile == nil || s.profile.Role == "" {
		return "Guest"
	}
	return strings.ToUpper(s.profile.Role[:1]) + s.profile.Role[1:]
}

func (s *Shell) IsActive(link Link) bool {
	if s.profile == nil {
		return false
	}
	return IsActive(s.router.Current(), link.Path, s.profile.Role)
}

// Logout revokes the refresh token (best effort), clears the session and goes to the login route.
func (s *Shell) Logout(ctx context.Context) {
	if sess, err := s.store.Load(); err == nil && sess.Refresh != "" {
		_ = s.client.Logout(ctx, sess.Refresh)
	}
	_ = s.store.Clear()
	s.profile = nil
	if s.router.Current() != RouteLogin {
		s.router.Push(RouteLogin)
	}
}
