package user_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
	appfs "github.com/scsit/ges/fs"
	emailsvc "github.com/scsit/ges/services/email"
	inmemdb "github.com/scsit/ges/storage/database/inmem"
	"github.com/scsit/ges/storage/media"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fixture struct {
	svc      user.ServiceInterface
	validate *validator.Validate
}

func setup(t *testing.T) fixture {
	t.Helper()
	require.NoError(t, core.ParseEmailTemplates(appfs.FS, "templates/email"))
	emailsvc.ResetSentMessages()

	conf := core.NewTestConfig()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	db := inmemdb.Open()
	store := media.NewDiskStore(t.TempDir(), "/media/", conf.Media.MaxUploadSize)
	svc := user.NewService(inmemdb.NewUserRepository(db), store, emailsvc.NewConsoleServiceMock(conf, nopLogger{}))
	return fixture{svc: svc, validate: validate}
}

func newStudent() user.NewStudent {
	return user.NewStudent{
		FirstName: " Jane ",
		LastName:  "Doe",
		StudentID: "2024-0001",
		Email:     "Jane@Test.test",
		Username:  "jdoe",
		Password:  "Sup3rSecret!",
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	out := make(map[string]string)
	switch e := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fe := range e {
			out[fe.Field()] = fe.Tag()
		}
	case *core.ValidationError:
		for _, fe := range e.Fields {
			out[fe.Field] = fe.Error
		}
	default:
		t.Fatalf("not a validation error: %v", err)
	}
	return out
}

func TestRegisterStudent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ns := newStudent()
	require.NoError(t, ns.Validate(ctx, f.validate, f.svc))
	usr, err := f.svc.RegisterStudent(ctx, ns)
	require.NoError(t, err)

	assert.Equal(t, "Jane", usr.FirstName)
	assert.Equal(t, "jane@test.test", usr.Email)
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.Equal(t, "Other", usr.Gender)
	assert.NoError(t, usr.CheckPassword("Sup3rSecret!"))

	require.Len(t, emailsvc.SentMessages, 1)
	assert.Contains(t, emailsvc.SentMessages[0].TextContent, "Student ID: 2024-0001")

	tests := []struct {
		name   string
		mutate func(*user.NewStudent)
		want   map[string]string
	}{
		{
			name:   "duplicate username",
			mutate: func(ns *user.NewStudent) { ns.Email = "other@test.test"; ns.StudentID = "2" },
			want:   map[string]string{"username": user.ErrUsernameExists.Error()},
		},
		{
			name:   "duplicate student id",
			mutate: func(ns *user.NewStudent) { ns.Email = "other@test.test"; ns.Username = "other" },
			want:   map[string]string{"student_id": user.ErrStudentIDExists.Error()},
		},
		{
			name:   "short password",
			mutate: func(ns *user.NewStudent) { ns.Password = "Ab1!" },
			want:   map[string]string{"password": "pwdminlen"},
		},
		{
			name:   "numeric password",
			mutate: func(ns *user.NewStudent) { ns.Password = "1234567890" },
			want:   map[string]string{"password": "pwdnotallnum"},
		},
		{
			name:   "password like username",
			mutate: func(ns *user.NewStudent) { ns.Username = "marvelous"; ns.Password = "Marvelous" },
			want:   map[string]string{"password": "pwdtoosim"},
		},
		{
			name:   "missing fields",
			mutate: func(ns *user.NewStudent) { ns.FirstName = ""; ns.StudentID = "" },
			want:   map[string]string{"first_name": "required", "student_id": "required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := newStudent()
			tt.mutate(&ns)
			err := ns.Validate(ctx, f.validate, f.svc)
			require.Error(t, err)
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	student, err := f.svc.RegisterStudent(ctx, newStudent())
	require.NoError(t, err)

	nu := user.NewUser{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@test.test", Username: "ada",
		Role: user.RoleTeacher, Password: "An4lytical!", PasswordConfirm: "An4lytical!",
	}
	require.NoError(t, nu.Validate(ctx, f.validate, f.svc))
	_, err = f.svc.Create(ctx, nu)
	require.NoError(t, err)

	t.Run("student", func(t *testing.T) {
		usr, err := f.svc.AuthenticateStudent(ctx, "2024-0001", "Sup3rSecret!")
		require.NoError(t, err)
		assert.Equal(t, student.ID, usr.ID)
		assert.False(t, usr.LastLogin.IsZero())

		_, err = f.svc.AuthenticateStudent(ctx, "2024-0001", "wrong")
		assert.Equal(t, user.ErrIncorrectPassword, err)

		_, err = f.svc.AuthenticateStudent(ctx, "9999", "Sup3rSecret!")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("staff", func(t *testing.T) {
		usr, err := f.svc.AuthenticateStaff(ctx, " ADA@test.test", "An4lytical!")
		require.NoError(t, err)
		assert.True(t, usr.IsTeacher())

		_, err = f.svc.AuthenticateStaff(ctx, "jane@test.test", "Sup3rSecret!")
		assert.Equal(t, user.ErrNotFound, err)
	})
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	student, err := f.svc.RegisterStudent(ctx, newStudent())
	require.NoError(t, err)
	teacher, err := f.svc.Create(ctx, user.NewUser{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@test.test", Username: "ada",
		Role: user.RoleTeacher, Password: "An4lytical!",
	})
	require.NoError(t, err)

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			usr  user.User
			up   user.UpdateProfile
			want map[string]string
		}{
			{
				name: "student id required",
				usr:  student,
				up:   user.UpdateProfile{StudentID: strPtr("  ")},
				want: map[string]string{"student_id": "Student ID is required for students."},
			},
			{
				name: "student id forbidden",
				usr:  teacher,
				up:   user.UpdateProfile{StudentID: strPtr("T-1")},
				want: map[string]string{"student_id": "Only students can have a student ID."},
			},
			{
				name: "blank names",
				usr:  student,
				up:   user.UpdateProfile{FirstName: strPtr(""), LastName: strPtr(" ")},
				want: map[string]string{"first_name": "This field may not be blank.", "last_name": "This field may not be blank."},
			},
			{
				name: "username taken",
				usr:  teacher,
				up:   user.UpdateProfile{Username: strPtr("jdoe")},
				want: map[string]string{"username": user.ErrUsernameExists.Error()},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.up.Validate(ctx, tt.usr, f.validate, f.svc)
				require.Error(t, err)
				assert.Equal(t, tt.want, fieldErrors(t, err))
			})
		}
	})

	t.Run("partial update", func(t *testing.T) {
		up := user.UpdateProfile{FirstName: strPtr("Janet"), Address: strPtr("12 Main St")}
		require.NoError(t, up.Validate(ctx, student, f.validate, f.svc))
		usr, err := f.svc.UpdateProfile(ctx, student, up)
		require.NoError(t, err)
		assert.Equal(t, "Janet", usr.FirstName)
		assert.Equal(t, "Doe", usr.LastName)
		assert.Equal(t, "12 Main St", usr.Address)
		assert.Equal(t, "2024-0001", usr.StudentID)
	})

	t.Run("avatar", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))

		usr, err := f.svc.UpdateProfile(ctx, teacher, user.UpdateProfile{Avatar: buf.Bytes()})
		require.NoError(t, err)
		assert.Contains(t, usr.Avatar, "/media/avatars/")

		_, err = f.svc.UpdateProfile(ctx, teacher, user.UpdateProfile{Avatar: make([]byte, 3*1024*1024)})
		assert.Equal(t, map[string]string{"avatar": "Avatar file size must be under 2MB."}, fieldErrors(t, err))

		_, err = f.svc.UpdateProfile(ctx, teacher, user.UpdateProfile{Avatar: []byte("plain text")})
		assert.Contains(t, fieldErrors(t, err), "avatar")
	})
}
