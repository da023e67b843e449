// Package testutil runs a complete API backend, on in-memory repositories, for client tests.
package testutil

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/scsit/ges/apps/api/echo"
	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
	"github.com/scsit/ges/core/student"
	"github.com/scsit/ges/core/user"
	appfs "github.com/scsit/ges/fs"
	emailsvc "github.com/scsit/ges/services/email"
	logsvc "github.com/scsit/ges/services/logger"
	inmemdb "github.com/scsit/ges/storage/database/inmem"
	"github.com/scsit/ges/storage/media"
)

// Backend is a running API server.
type Backend struct {
	URL      string
	Conf     *core.Config
	Users    user.Repository
	Programs program.Repository
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()
	if err := core.ParseEmailTemplates(appfs.FS, "templates/email"); err != nil {
		t.Fatalf("parsing email templates: %v", err)
	}

	conf := core.NewTestConfig()
	conf.Media.Dir = t.TempDir()

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	program.InitValidators(validate, translator)

	db := inmemdb.Open()
	b := &Backend{
		Conf:     conf,
		Users:    inmemdb.NewUserRepository(db),
		Programs: inmemdb.NewProgramRepository(db),
	}
	store := media.NewDiskStore(conf.Media.Dir, conf.Media.BaseURL, conf.Media.MaxUploadSize)
	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    user.NewService(b.Users, store, emailsvc.NewConsoleServiceMock(conf, logger)),
		ProgramSvc: program.NewService(b.Programs),
		StudentSvc: student.NewService(b.Users, b.Programs),
		Validate:   validate,
		Translator: translator,
	})

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	b.URL = ts.URL
	return b
}

// CreateUser stores usr as an active user; pwd may be empty for users who cannot log in.
func CreateUser(t *testing.T, repo user.Repository, usr user.User, pwd string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr.IsActive = true
	usr.CreatedAt, usr.UpdatedAt = now, now
	if usr.Gender == "" {
		usr.Gender = "Other"
	}
	if usr.Username == "" {
		usr.Username = usr.Email
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func (b *Backend) CreateTeacher(t *testing.T, email, pwd string) user.User {
	return CreateUser(t, b.Users, user.User{
		FirstName: "Tom",
		LastName:  "Teach",
		Email:     email,
		Role:      user.RoleTeacher,
	}, pwd)
}

func (b *Backend) CreateStudent(t *testing.T, studentID, pwd string, programID *int) user.User {
	return CreateUser(t, b.Users, user.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     studentID + "@school.test",
		Username:  studentID,
		Role:      user.RoleStudent,
		StudentID: studentID,
		ProgramID: programID,
	}, pwd)
}

func (b *Backend) CreateProgram(t *testing.T, code, name string) program.Program {
	t.Helper()
	p, err := b.Programs.CreateProgram(context.Background(), program.Program{Code: code, Name: name})
	if err != nil {
		t.Fatalf("CreateProgram() failed: %v", err)
	}
	return p
}

func (b *Backend) CreateSubject(t *testing.T, programID int, code, title string) program.Subject {
	t.Helper()
	s, err := b.Programs.CreateSubject(context.Background(), program.Subject{
		CourseCode: code,
		Title:      title,
		Credits:    3,
		ProgramID:  programID,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return s
}

func (b *Backend) CreateSchedule(t *testing.T, subjectID int, day, start, end, room string) program.Schedule {
	t.Helper()
	st, err := program.ParseClockTime(start)
	if err != nil {
		t.Fatal(err)
	}
	et, err := program.ParseClockTime(end)
	if err != nil {
		t.Fatal(err)
	}
	s, err := b.Programs.CreateSchedule(context.Background(), program.Schedule{
		SubjectID: subjectID,
		Day:       day,
		StartTime: st,
		EndTime:   et,
		Room:      room,
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	return s
}
