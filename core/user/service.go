package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrEmailExists        = errors.New("user with this email already exists.")
	ErrUsernameExists     = errors.New("A user with that username already exists.")
	ErrStudentIDExists    = errors.New("A user with this student ID already exists.")

	errAvatarTooLarge    = "Avatar file size must be under 2MB."
	errAvatarUnsupported = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

	avatarFolder = "avatars"
)

type (
	Repository interface {
		// CheckUniqueness ignores empty arguments and excluded users.
		CheckUniqueness(ctx context.Context, username, email, studentID string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		QueryUsers(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByStudentID(ctx context.Context, studentID string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		GetUserByUsernameOrEmail(ctx context.Context, username string) (User, error)
		// UpdateUser saves every mutable column of usr.
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...int) error
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, username, email, studentID string, excludedUsers ...User) error
		RegisterStudent(ctx context.Context, ns NewStudent) (User, error)
		Create(ctx context.Context, nu NewUser) (User, error)
		AuthenticateStudent(ctx context.Context, studentID, pwd string) (User, error)
		AuthenticateStaff(ctx context.Context, email, pwd string) (User, error)
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByUsernameOrEmail(ctx context.Context, uname string) (User, error)
		UpdateProfile(ctx context.Context, usr User, up UpdateProfile) (User, error)
		SetPassword(ctx context.Context, usr User, pwd string) (User, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
	}

	service struct {
		repo    Repository
		media   core.MediaStore
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, media core.MediaStore, mailSvc core.EmailService) ServiceInterface {
	return &service{repo: repo, media: media, mailSvc: mailSvc}
}

func (svc *service) CheckUniqueness(ctx context.Context, uname, email, studentID string, exclUsers ...User) error {
	if err := svc.repo.CheckUniqueness(ctx, uname, email, studentID, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		case ErrStudentIDExists:
			field = "student_id"
		default:
			return errors.Wrap(err, "checking uniqueness")
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *service) RegisterStudent(ctx context.Context, ns NewStudent) (User, error) {
	ns.Clean()
	now := time.Now().UTC()
	usr := User{
		FirstName:     ns.FirstName,
		MiddleName:    ns.MiddleName,
		LastName:      ns.LastName,
		Email:         ns.Email,
		Username:      ns.Username,
		Role:          RoleStudent,
		StudentID:     ns.StudentID,
		Gender:        ns.Gender,
		Address:       ns.Address,
		ContactNumber: ns.ContactNumber,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := usr.SetPassword(ns.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "creating student")
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Email:     nu.Email,
		Username:  nu.Username,
		Role:      nu.Role,
		Gender:    "Other",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) AuthenticateStudent(ctx context.Context, studentID, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByStudentID(ctx, core.CleanString(studentID))
	if err != nil {
		return User{}, err
	}
	if !usr.IsStudent() {
		return User{}, ErrNotFound
	}
	return svc.checkCredentials(ctx, usr, pwd)
}

// AuthenticateStaff logs in teachers and admins by email.
func (svc *service) AuthenticateStaff(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if !usr.IsStaff() {
		return User{}, ErrNotFound
	}
	return svc.checkCredentials(ctx, usr, pwd)
}

func (svc *service) checkCredentials(ctx context.Context, usr User, pwd string) (User, error) {
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrIncorrectPassword
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}
	usr, err := svc.SetLastLogin(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(ctx, core.CleanString(uname))
}

// UpdateProfile applies a validated UpdateProfile, storing a new avatar when one is given.
func (svc *service) UpdateProfile(ctx context.Context, usr User, up UpdateProfile) (User, error) {
	oldAvatar := usr.Avatar
	up.apply(&usr)

	if up.Avatar != nil {
		url, err := svc.media.SaveImage(ctx, avatarFolder, up.Avatar)
		switch errors.Cause(err) {
		case nil:
			usr.Avatar = url
		case core.ErrFileTooLarge:
			return User{}, core.NewFieldError("avatar", errAvatarTooLarge)
		case core.ErrUnsupportedFileType:
			return User{}, core.NewFieldError("avatar", errAvatarUnsupported)
		default:
			return User{}, errors.Wrap(err, "saving avatar")
		}
	}

	usr.UpdatedAt = time.Now().UTC()
	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user")
	}

	if up.Avatar != nil && oldAvatar != "" && oldAvatar != usr.Avatar {
		// orphaned files are harmless, the profile is already saved
		_ = svc.media.Delete(ctx, oldAvatar)
	}
	return usr, nil
}

func (svc *service) SetPassword(ctx context.Context, usr User, pwd string) (User, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil || usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName(), Address: usr.Email}},
		Subject:      "Welcome to the portal",
		TemplateName: "welcome",
		TemplateData: map[string]string{
			"Name":      usr.FirstName,
			"StudentID": usr.StudentID,
			"Username":  usr.Username,
		},
	})
}
