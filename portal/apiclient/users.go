package apiclient

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

func (c *Client) StudentLogin(ctx context.Context, studentID, pwd string) (LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"student_id": studentID, "password": pwd}
	err := c.do(ctx, http.MethodPost, "/api/students/login/", false, body, &resp)
	return resp, err
}

func (c *Client) TeacherLogin(ctx context.Context, email, pwd string) (LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"email": email, "password": pwd}
	err := c.do(ctx, http.MethodPost, "/api/teachers/login/", false, body, &resp)
	return resp, err
}

func (c *Client) Register(ctx context.Context, reg Registration) (User, error) {
	var usr User
	err := c.do(ctx, http.MethodPost, "/api/students/register/", false, reg, &usr)
	return usr, err
}

// Logout revokes the refresh token server-side.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	body := map[string]string{"refresh": refresh}
	return c.do(ctx, http.MethodPost, "/api/token/logout/", false, body, nil)
}

// Me fetches the current user within ProfileTimeout.
func (c *Client) Me(ctx context.Context) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, ProfileTimeout)
	defer cancel()

	var usr User
	err := c.do(ctx, http.MethodGet, "/api/users/me/", true, nil, &usr)
	return usr, err
}

// UpdateMe submits the profile as a multipart form, with avatar when not nil.
func (c *Client) UpdateMe(ctx context.Context, up ProfileUpdate, avatar *Upload) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, ProfileTimeout)
	defer cancel()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"first_name", up.FirstName},
		{"middle_name", up.MiddleName},
		{"last_name", up.LastName},
		{"username", up.Username},
		{"gender", up.Gender},
		{"contact_number", up.ContactNumber},
		{"address", up.Address},
	}
	if up.StudentID != "" {
		fields = append(fields, [2]string{"student_id", up.StudentID})
	}
	for _, fld := range fields {
		if err := w.WriteField(fld[0], fld[1]); err != nil {
			return User{}, errors.Wrap(err, "writing form")
		}
	}
	if avatar != nil {
		fw, err := w.CreateFormFile("avatar", avatar.Filename)
		if err != nil {
			return User{}, errors.Wrap(err, "writing form")
		}
		if _, err = fw.Write(avatar.Data); err != nil {
			return User{}, errors.Wrap(err, "writing form")
		}
	}
	if err := w.Close(); err != nil {
		return User{}, errors.Wrap(err, "writing form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/users/me/", &buf)
	if err != nil {
		return User{}, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var usr User
	err = c.send(req, true, &usr)
	return usr, err
}
