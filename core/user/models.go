package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/scsit/ges/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}
	Genders  = []string{"Male", "Female", "Other"}
)

type User struct {
	ID            int       `json:"id"`
	FirstName     string    `json:"first_name"`
	MiddleName    string    `json:"middle_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	StudentID     string    `json:"student_id"`
	Gender        string    `json:"gender"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contact_number"`
	Avatar        string    `json:"avatar"` // public URL, may be relative to the API host
	ProgramID     *int      `json:"program_id"`
	IsActive      bool      `json:"-"`
	PasswordHash  []byte    `json:"-"`
	CreatedAt     time.Time `json:"-"` // UTC
	UpdatedAt     time.Time `json:"-"` // UTC
	LastLogin     time.Time `json:"-"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword fails for users without a usable password (e.g. roster-created students).
func (u *User) CheckPassword(pwd string) error {
	if len(u.PasswordHash) == 0 {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }

// IsStaff reports whether the user may manage programs and rosters.
func (u User) IsStaff() bool { return u.IsTeacher() || u.IsAdmin() }

func (u User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NewStudent contains the information a student provides when signing up.
type NewStudent struct {
	FirstName     string `json:"first_name" validate:"required,max=50"`
	MiddleName    string `json:"middle_name" validate:"max=50"`
	LastName      string `json:"last_name" validate:"required,max=50"`
	StudentID     string `json:"student_id" validate:"required,max=20"`
	Email         string `json:"email" validate:"required,email"`
	Username      string `json:"username" validate:"required,max=150,username"`
	Password      string `json:"password" validate:"required"`
	Gender        string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number" validate:"max=15"`
}

func (ns *NewStudent) Clean() {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.MiddleName = core.CleanString(ns.MiddleName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Username = core.CleanString(ns.Username)
	ns.Address = core.CleanString(ns.Address)
	ns.ContactNumber = core.CleanString(ns.ContactNumber)
	if ns.Gender == "" {
		ns.Gender = "Other"
	}
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	ns.Clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.Username, ns.Email, ns.StudentID)
}

// NewUser is used by operators to create teacher and admin accounts.
type NewUser struct {
	FirstName       string `json:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,max=150,username"`
	Role            string `json:"role" validate:"required,oneof=student teacher admin"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Username = core.CleanString(nu.Username)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Username, nu.Email, "")
}

// UpdateProfile defines what a user may change on their own profile.
// Nil fields are left untouched. Email and role are read-only.
type UpdateProfile struct {
	FirstName     *string `json:"first_name" validate:"omitempty,max=50"`
	MiddleName    *string `json:"middle_name" validate:"omitempty,max=50"`
	LastName      *string `json:"last_name" validate:"omitempty,max=50"`
	Username      *string `json:"username" validate:"omitempty,max=150,username"`
	StudentID     *string `json:"student_id" validate:"omitempty,max=20"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Address       *string `json:"address"`
	ContactNumber *string `json:"contact_number" validate:"omitempty,max=15"`
	Avatar        []byte  `json:"-"`
}

func (up *UpdateProfile) clean() {
	for _, fld := range []*string{
		up.FirstName, up.MiddleName, up.LastName, up.Username,
		up.StudentID, up.Address, up.ContactNumber,
	} {
		if fld != nil {
			*fld = core.CleanString(*fld)
		}
	}
}

// Validate checks the update against the user it applies to.
func (up *UpdateProfile) Validate(ctx context.Context, usr User, validate *validator.Validate, svc ServiceInterface) error {
	up.clean()
	if err := validate.Struct(up); err != nil {
		return err
	}

	vErr := new(core.ValidationError)
	if up.FirstName != nil && *up.FirstName == "" {
		vErr.Fields = append(vErr.Fields, core.FieldError{Field: "first_name", Error: "This field may not be blank."})
	}
	if up.LastName != nil && *up.LastName == "" {
		vErr.Fields = append(vErr.Fields, core.FieldError{Field: "last_name", Error: "This field may not be blank."})
	}
	if up.Username != nil && *up.Username == "" {
		vErr.Fields = append(vErr.Fields, core.FieldError{Field: "username", Error: "This field may not be blank."})
	}
	if up.StudentID != nil {
		if usr.IsStudent() && *up.StudentID == "" {
			vErr.Fields = append(vErr.Fields, core.FieldError{Field: "student_id", Error: errStudentIDRequired})
		}
		if !usr.IsStudent() && *up.StudentID != "" {
			vErr.Fields = append(vErr.Fields, core.FieldError{Field: "student_id", Error: errStudentIDForbidden})
		}
	}
	if len(vErr.Fields) > 0 {
		return vErr
	}

	var uname, studentID string
	if up.Username != nil && *up.Username != usr.Username {
		uname = *up.Username
	}
	if up.StudentID != nil && *up.StudentID != usr.StudentID {
		studentID = *up.StudentID
	}
	if uname == "" && studentID == "" {
		return nil
	}
	return svc.CheckUniqueness(ctx, uname, "", studentID, usr)
}

func (up UpdateProfile) apply(usr *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&usr.FirstName, up.FirstName)
	set(&usr.MiddleName, up.MiddleName)
	set(&usr.LastName, up.LastName)
	set(&usr.Username, up.Username)
	set(&usr.StudentID, up.StudentID)
	set(&usr.Gender, up.Gender)
	set(&usr.Address, up.Address)
	set(&usr.ContactNumber, up.ContactNumber)
}

type QueryFilter struct {
	Search    string   `query:"search"`
	Roles     []string `query:"role"`
	ProgramID *int     `query:"program_id"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Matches applies the filter in memory: AND over set fields, case-insensitive search
// over full name, email, username and student ID.
func (qf QueryFilter) Matches(usr User) bool {
	if len(qf.Roles) > 0 && !core.StringInSlice(usr.Role, qf.Roles) {
		return false
	}
	if qf.ProgramID != nil && (usr.ProgramID == nil || *usr.ProgramID != *qf.ProgramID) {
		return false
	}
	if qf.Search == "" {
		return true
	}
	needle := strings.ToLower(qf.Search)
	for _, hay := range []string{usr.FullName(), usr.Email, usr.Username, usr.StudentID} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}
