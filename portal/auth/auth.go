// Package auth implements the login and signup screens.
package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/nav"
	"github.com/scsit/ges/portal/session"
)

// Tab selects which credentials the login form collects.
type Tab string

const (
	TabStudent Tab = "student"
	TabTeacher Tab = "teacher"
)

const (
	msgStudentCredsRequired = "Student ID and password are required"
	msgStaffCredsRequired   = "Email and password are required"
	msgInvalidCredentials   = "Invalid email or password."
	msgLoginNetwork         = "Network error: Unable to reach the server. Please check if the server is running."
	msgLoginFailed          = "Login failed. Please try again."

	msgInvalidEmail     = "Please enter a valid email address."
	msgPasswordTooShort = "Password must be at least 8 characters long."
	msgPasswordMismatch = "Passwords do not match."

	minPasswordLength = 8
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Screen drives both auth forms. It is not safe for concurrent use.
type Screen struct {
	client  *apiclient.Client
	store   session.Store
	router  *nav.Router
	Banners *banner.Board
}

func NewScreen(client *apiclient.Client, store session.Store, router *nav.Router, banners *banner.Board) *Screen {
	return &Screen{client: client, store: store, router: router, Banners: banners}
}

// Login authenticates with the role-specific endpoint: identifier is a student ID on the
// student tab and an email on the teacher tab. On success the session is saved and the
// router moves to the role's landing route.
func (s *Screen) Login(ctx context.Context, tab Tab, identifier, pwd string) error {
	s.Banners.Clear()
	identifier = strings.TrimSpace(identifier)

	var (
		resp apiclient.LoginResponse
		err  error
	)
	switch tab {
	case TabStudent:
		if identifier == "" || pwd == "" {
			return s.fail(apiclient.Invalid(msgStudentCredsRequired))
		}
		resp, err = s.client.StudentLogin(ctx, identifier, pwd)
	default:
		if identifier == "" || pwd == "" {
			return s.fail(apiclient.Invalid(msgStaffCredsRequired))
		}
		resp, err = s.client.TeacherLogin(ctx, identifier, pwd)
	}
	if err != nil {
		s.Banners.Error(loginMessage(err))
		return err
	}

	sess := session.Session{Access: resp.Access, Refresh: resp.Refresh, Profile: resp.User.Profile()}
	if err = s.store.Save(sess); err != nil {
		s.Banners.Error("Request error: " + err.Error())
		return err
	}
	s.router.Push(nav.LandingRoute(resp.User.Role))
	return nil
}

func (s *Screen) fail(err error) error {
	s.Banners.Error(err.Error())
	return err
}

// loginMessage picks, in order: the server's error field, the 401 message, the network
// message, then the request error itself.
func loginMessage(err error) string {
	if re, ok := apiclient.AsResponseError(err); ok {
		if msg := re.Field("error"); msg != "" {
			return msg
		}
		if re.StatusCode == 401 {
			return msgInvalidCredentials
		}
		return msgLoginFailed
	}
	if apiclient.IsNetworkError(err) {
		return msgLoginNetwork
	}
	return "Request error: " + err.Error()
}

// SignupForm holds the registration fields.
type SignupForm struct {
	FirstName       string
	MiddleName      string
	LastName        string
	StudentID       string
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	Gender          string
	Address         string
	ContactNumber   string
}

// Validate runs the checks done before any request.
func (f SignupForm) Validate() error {
	switch {
	case !emailRx.MatchString(f.Email):
		return apiclient.Invalid(msgInvalidEmail)
	case len(f.Password) < minPasswordLength:
		return apiclient.Invalid(msgPasswordTooShort)
	case f.Password != f.ConfirmPassword:
		return apiclient.Invalid(msgPasswordMismatch)
	}
	return nil
}

// Signup registers a student, shows a welcome banner and moves to the login route.
func (s *Screen) Signup(ctx context.Context, f SignupForm) (apiclient.User, error) {
	s.Banners.Clear()
	if err := f.Validate(); err != nil {
		return apiclient.User{}, s.fail(err)
	}

	usr, err := s.client.Register(ctx, apiclient.Registration{
		FirstName:     f.FirstName,
		MiddleName:    f.MiddleName,
		LastName:      f.LastName,
		StudentID:     f.StudentID,
		Email:         f.Email,
		Username:      f.Username,
		Password:      f.Password,
		Gender:        f.Gender,
		Address:       f.Address,
		ContactNumber: f.ContactNumber,
	})
	if err != nil {
		s.Banners.Error(s.signupMessage(err))
		return apiclient.User{}, err
	}

	name := usr.Username
	if name == "" {
		name = "User"
	}
	s.Banners.Success(fmt.Sprintf("Signup successful! Welcome, %s!", name))
	s.router.Push(nav.RouteLogin)
	return usr, nil
}

// signupMessage picks, in order: the server's detail, the serialized field errors,
// the network message, then the request error itself.
func (s *Screen) signupMessage(err error) string {
	if re, ok := apiclient.AsResponseError(err); ok {
		if msg := re.Field("detail"); msg != "" {
			return msg
		}
		if body := re.Serialized(); body != "" {
			return body
		}
		return fmt.Sprintf("Server error: %d", re.StatusCode)
	}
	if apiclient.IsNetworkError(err) {
		return fmt.Sprintf("Network error: Unable to reach the server at %s/api/students/register/. Please check if the server is running.", s.client.BaseURL())
	}
	return "Request error: " + err.Error()
}
