package profile_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/internal/testutil"
	"github.com/scsit/ges/portal/apiclient"
	"github.com/scsit/ges/portal/banner"
	"github.com/scsit/ges/portal/profile"
	"github.com/scsit/ges/portal/session"
)

const pwd = "Sup3rSecret!"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func fakePNG(size int) []byte {
	data := make([]byte, size)
	copy(data, pngSignature)
	return data
}

func realPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func loggedIn(t *testing.T, backend *testutil.Backend, loginFn func(*apiclient.Client) (apiclient.LoginResponse, error)) *profile.Screen {
	t.Helper()
	store := session.NewMemoryStore()
	client := apiclient.New(backend.URL, store)
	resp, err := loginFn(client)
	require.NoError(t, err)
	require.NoError(t, store.Save(session.Session{Access: resp.Access, Refresh: resp.Refresh}))

	s := profile.NewScreen(client, banner.NewBoard(nil))
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestAvatarValidation(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()
	s := profile.NewScreen(apiclient.New(ts.URL, session.NewMemoryStore()), banner.NewBoard(nil))

	err := s.SelectAvatar("big.png", fakePNG(3*1024*1024))
	require.Error(t, err)
	assert.Equal(t, "Avatar file size must be under 2MB.", err.Error())
	assert.Equal(t, "Avatar file size must be under 2MB.", s.Banners.ErrorMessage())
	assert.Equal(t, "", s.Preview())

	err = s.SelectAvatar("notes.txt", []byte("just some text"))
	assert.EqualError(t, err, "Only JPEG, PNG, or GIF images are allowed.")
	assert.Equal(t, "", s.Preview())

	require.NoError(t, s.SelectAvatar("me.png", fakePNG(1024*1024)))
	assert.True(t, strings.HasPrefix(s.Preview(), "data:image/png;base64,"))

	s.AvatarFailed()
	assert.Equal(t, "", s.Preview())

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", profile.Initials("jane", "doe"))
	assert.Equal(t, "J", profile.Initials("jane", ""))
	assert.Equal(t, "NA", profile.Initials("", " "))
	assert.Equal(t, "ÉZ", profile.Initials("élodie", "zola"))

	assert.Equal(t, profile.BadgeColor("JD"), profile.BadgeColor("JD"))
	assert.True(t, strings.HasPrefix(profile.BadgeColor("NA"), "#"))
}

func TestEditSave(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.CreateTeacher(t, "prof@school.test", pwd)
	ctx := context.Background()
	s := loggedIn(t, backend, func(c *apiclient.Client) (apiclient.LoginResponse, error) {
		return c.TeacherLogin(ctx, "prof@school.test", pwd)
	})

	assert.Equal(t, profile.Viewing, s.Mode())
	assert.Nil(t, s.Staged())
	initials, color := s.Badge()
	assert.Equal(t, "TT", initials)
	assert.NotEmpty(t, color)

	s.Edit()
	require.Equal(t, profile.Editing, s.Mode())
	staged := s.Staged()
	require.NotNil(t, staged)
	assert.Equal(t, "prof@school.test", staged.Email)

	staged.FirstName = ""
	assert.EqualError(t, s.Save(ctx), "First name and last name are required.")
	assert.Equal(t, profile.Editing, s.Mode())

	staged.FirstName = "Ada"
	staged.MiddleName = "King"
	staged.LastName = "Lovelace"
	require.NoError(t, s.SelectAvatar("me.png", realPNG(t)))
	require.NoError(t, s.Save(ctx))

	assert.Equal(t, profile.Viewing, s.Mode())
	assert.Equal(t, "Profile saved successfully!", s.Banners.SuccessMessage())
	assert.Equal(t, "Ada King Lovelace", s.FullName())
	assert.True(t, strings.HasPrefix(s.Preview(), "http://"), s.Preview())
	assert.Equal(t, s.User().Avatar, s.Preview())
}

func TestSaveErrors(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.CreateStudent(t, "S-001", pwd, nil)
	backend.CreateStudent(t, "S-002", pwd, nil)
	ctx := context.Background()
	s := loggedIn(t, backend, func(c *apiclient.Client) (apiclient.LoginResponse, error) {
		return c.StudentLogin(ctx, "S-001", pwd)
	})

	s.Edit()
	s.Staged().StudentID = " "
	assert.EqualError(t, s.Save(ctx), "Student ID is required for students.")

	s.Staged().StudentID = "S-001"
	s.Staged().Username = "S-002"
	require.Error(t, s.Save(ctx))
	assert.Equal(t, "Username is already taken.", s.Banners.ErrorMessage())
	assert.Equal(t, profile.Editing, s.Mode())

	s.Staged().Username = "S-001"
	s.Staged().StudentID = "S-002"
	require.Error(t, s.Save(ctx))
	assert.Equal(t, "A user with this student ID already exists.", s.Banners.ErrorMessage())
}

func TestCancel(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.CreateTeacher(t, "prof@school.test", pwd)
	ctx := context.Background()
	s := loggedIn(t, backend, func(c *apiclient.Client) (apiclient.LoginResponse, error) {
		return c.TeacherLogin(ctx, "prof@school.test", pwd)
	})

	s.Edit()
	s.Staged().FirstName = "Changed"
	require.NoError(t, s.SelectAvatar("me.png", fakePNG(10)))

	require.NoError(t, s.Cancel(ctx))
	assert.Equal(t, profile.Viewing, s.Mode())
	assert.Nil(t, s.Staged())
	assert.Equal(t, "Tom", s.User().FirstName)
	assert.Equal(t, "", s.Preview())
}
