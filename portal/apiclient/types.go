package apiclient

import (
	"github.com/scsit/ges/portal/session"
)

// User is a user record as returned by the API; students use the same shape.
type User struct {
	ID            int    `json:"id"`
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	StudentID     string `json:"student_id"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	Avatar        string `json:"avatar"`
	ProgramID     *int   `json:"program_id"`
}

// Profile is the part of the user cached in the session.
func (u User) Profile() session.Profile {
	return session.Profile{
		ID:        u.ID,
		Role:      u.Role,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type Registration struct {
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	StudentID     string `json:"student_id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

// ProfileUpdate is sent as a multipart form; an empty StudentID is left out.
type ProfileUpdate struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Username      string
	Gender        string
	ContactNumber string
	Address       string
	StudentID     string
}

// Upload is a file picked by the user.
type Upload struct {
	Filename string
	Data     []byte
}

type Program struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
}

type ProgramInput struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
}

type Subject struct {
	ID          int      `json:"id"`
	CourseCode  string   `json:"course_code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Credits     int      `json:"credits"`
	Program     *Program `json:"program"`
}

// ProgramID is the id of the nested program, 0 when absent.
func (s Subject) ProgramID() int {
	if s.Program == nil {
		return 0
	}
	return s.Program.ID
}

type SubjectInput struct {
	CourseCode  string `json:"course_code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
	ProgramID   int    `json:"program_id"`
}

// Schedule times are 24-hour "HH:MM:SS" strings.
type Schedule struct {
	ID        int    `json:"id"`
	SubjectID int    `json:"subject_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
}

type ScheduleInput struct {
	SubjectID int    `json:"subject_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
}

type StudentInput struct {
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	StudentID     string `json:"student_id"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	Program       int    `json:"program"`
}
