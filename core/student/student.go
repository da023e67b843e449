// Package student manages program rosters: students are users with the student role,
// enrolled in at most one program.
package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
	"github.com/scsit/ges/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("Not found.")
	ErrProgramNotFound = errors.New("Program does not exist")
)

// Input is used to add a student to a roster or to replace their details.
type Input struct {
	FirstName     string `json:"first_name" validate:"required,max=50"`
	MiddleName    string `json:"middle_name" validate:"max=50"`
	LastName      string `json:"last_name" validate:"required,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Username      string `json:"username" validate:"omitempty,max=150,username"`
	StudentID     string `json:"student_id" validate:"required,max=20"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number" validate:"max=15"`
	Program       *int   `json:"program" validate:"required"`
}

// Validate checks the input; orig is the student being replaced (nil on create).
func (in *Input) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface, orig *user.User) error {
	in.FirstName = core.CleanString(in.FirstName)
	in.MiddleName = core.CleanString(in.MiddleName)
	in.LastName = core.CleanString(in.LastName)
	in.Email = core.CleanString(in.Email, true /* lower */)
	in.Username = core.CleanString(in.Username)
	in.StudentID = core.CleanString(in.StudentID)
	in.Address = core.CleanString(in.Address)
	in.ContactNumber = core.CleanString(in.ContactNumber)
	if in.Username == "" {
		if orig != nil {
			in.Username = orig.Username
		} else {
			in.Username = in.StudentID
		}
	}

	if err := validate.Struct(in); err != nil {
		return err
	}
	if err := svc.CheckProgram(ctx, *in.Program); err != nil {
		if errors.Cause(err) == ErrProgramNotFound {
			return core.NewFieldError("program", "Invalid pk - program does not exist.")
		}
		return err
	}

	var excl []user.User
	if orig != nil {
		excl = append(excl, *orig)
	}
	return svc.CheckUniqueness(ctx, in.Username, in.Email, in.StudentID, excl...)
}

func (in Input) apply(usr *user.User) {
	usr.FirstName = in.FirstName
	usr.MiddleName = in.MiddleName
	usr.LastName = in.LastName
	usr.Email = in.Email
	usr.Username = in.Username
	usr.StudentID = in.StudentID
	usr.Address = in.Address
	usr.ContactNumber = in.ContactNumber
	programID := *in.Program
	usr.ProgramID = &programID
}

type (
	ServiceInterface interface {
		CheckProgram(ctx context.Context, programID int) error
		CheckUniqueness(ctx context.Context, username, email, studentID string, excludedUsers ...user.User) error
		ListByProgram(ctx context.Context, programID int, search string) ([]user.User, error)
		Get(ctx context.Context, id int) (user.User, error)
		Create(ctx context.Context, in Input) (user.User, error)
		Update(ctx context.Context, id int, in Input) (user.User, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		users    user.Repository
		programs program.Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(users user.Repository, programs program.Repository) ServiceInterface {
	return &service{users: users, programs: programs}
}

func (svc *service) CheckProgram(ctx context.Context, programID int) error {
	if _, err := svc.programs.GetProgramByID(ctx, programID); err != nil {
		if errors.Cause(err) == program.ErrNotFound {
			return ErrProgramNotFound
		}
		return errors.Wrap(err, "finding program")
	}
	return nil
}

func (svc *service) CheckUniqueness(ctx context.Context, uname, email, studentID string, exclUsers ...user.User) error {
	if err := svc.users.CheckUniqueness(ctx, uname, email, studentID, exclUsers...); err != nil {
		var field string
		switch err {
		case user.ErrUsernameExists:
			field = "username"
		case user.ErrEmailExists:
			field = "email"
		case user.ErrStudentIDExists:
			field = "student_id"
		default:
			return errors.Wrap(err, "checking uniqueness")
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// ListByProgram returns the students of a program, optionally filtered by
// name, email or student ID.
func (svc *service) ListByProgram(ctx context.Context, programID int, search string) ([]user.User, error) {
	if err := svc.CheckProgram(ctx, programID); err != nil {
		return nil, err
	}
	filter := user.QueryFilter{
		Search:    search,
		Roles:     []string{user.RoleStudent},
		ProgramID: &programID,
	}
	filter.Clean()
	ordering := []core.DBOrdering{{Field: "last_name", Ascending: true}, {Field: "first_name", Ascending: true}}
	return svc.users.QueryUsers(ctx, filter, ordering)
}

func (svc *service) Get(ctx context.Context, id int) (user.User, error) {
	usr, err := svc.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, ErrNotFound
		}
		return user.User{}, err
	}
	if !usr.IsStudent() {
		return user.User{}, ErrNotFound
	}
	return usr, nil
}

// Create adds a student without a usable password; an operator sets one later.
func (svc *service) Create(ctx context.Context, in Input) (user.User, error) {
	now := time.Now().UTC()
	usr := user.User{
		Role:      user.RoleStudent,
		Gender:    "Other",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&usr)
	return svc.users.CreateUser(ctx, usr)
}

func (svc *service) Update(ctx context.Context, id int, in Input) (user.User, error) {
	usr, err := svc.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	in.apply(&usr)
	usr.UpdatedAt = time.Now().UTC()
	return svc.users.UpdateUser(ctx, usr)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if _, err := svc.Get(ctx, id); err != nil {
		return err
	}
	return svc.users.DeleteUsersByID(ctx, id)
}
