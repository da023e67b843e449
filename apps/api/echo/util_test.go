package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/program"
	"github.com/scsit/ges/core/student"
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

type testApp struct {
	conf     *core.Config
	srv      Server
	users    user.Repository
	programs program.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()
	require.NoError(t, core.ParseEmailTemplates(appfs.FS, "templates/email"))

	conf := core.NewTestConfig()
	conf.Media.Dir = t.TempDir()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	program.InitValidators(validate, translator)

	db := inmemdb.Open()
	app := &testApp{
		conf:     conf,
		users:    inmemdb.NewUserRepository(db),
		programs: inmemdb.NewProgramRepository(db),
	}
	store := media.NewDiskStore(conf.Media.Dir, conf.Media.BaseURL, conf.Media.MaxUploadSize)
	app.srv = NewServer(ServerDeps{
		Conf:       conf,
		Logger:     nopLogger{},
		UserSvc:    user.NewService(app.users, store, emailsvc.NewConsoleServiceMock(conf, nopLogger{})),
		ProgramSvc: program.NewService(app.programs),
		StudentSvc: student.NewService(app.users, app.programs),
		Validate:   validate,
		Translator: translator,
	})
	return app
}

func (app *testApp) createUser(t *testing.T, usr user.User, pwd string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr.IsActive = true
	usr.CreatedAt, usr.UpdatedAt = now, now
	if usr.Gender == "" {
		usr.Gender = "Other"
	}
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd))
	}
	usr, err := app.users.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func (app *testApp) createStudent(t *testing.T, studentID, pwd string) user.User {
	return app.createUser(t, user.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     studentID + "@school.test",
		Username:  studentID,
		Role:      user.RoleStudent,
		StudentID: studentID,
	}, pwd)
}

func (app *testApp) createTeacher(t *testing.T, email, pwd string) user.User {
	return app.createUser(t, user.User{
		FirstName: "Tom",
		LastName:  "Teach",
		Email:     email,
		Username:  email,
		Role:      user.RoleTeacher,
	}, pwd)
}

func (app *testApp) createProgram(t *testing.T, code, name string) program.Program {
	t.Helper()
	p, err := app.programs.CreateProgram(context.Background(), program.Program{Code: code, Name: name})
	require.NoError(t, err)
	return p
}

func (app *testApp) tokens(t *testing.T, usr user.User) (access, refresh string) {
	t.Helper()
	access, refresh, err := newAuthenticator(app.conf).issuePair(usr)
	require.NoError(t, err)
	return access, refresh
}

func (app *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type httpErr struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) httpErr {
	t.Helper()
	var e httpErr
	decode(t, rec, &e)
	return e
}

func fieldErrorsOf(t *testing.T, rec *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	var fe map[string][]string
	decode(t, rec, &fe)
	return fe
}
