package echoapi

import (
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads "?ordering=name,-code" style parameters.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field != "" {
			ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
		}
	}
}

// pathID parses an integer path parameter; anything else is a 404.
func pathID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// queryID parses an optional integer query parameter.
func queryID(ctx echo.Context, name string) (*int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, core.NewFieldError(name, "Enter a whole number.")
	}
	return &id, nil
}

var profileFormFields = []string{
	"first_name", "middle_name", "last_name", "username", "student_id", "gender", "address", "contact_number",
}

// bindUpdateProfile reads a partial profile update from a JSON body or a multipart form.
// Only fields present in the request are set; the "avatar" file part is read up to maxSize+1 bytes.
func bindUpdateProfile(ctx echo.Context, maxSize int64) (user.UpdateProfile, error) {
	var up user.UpdateProfile
	ctype := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		if err := ctx.Bind(&up); err != nil {
			return up, errors.Wrap(err, "binding to UpdateProfile")
		}
		return up, nil
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return up, echo.NewHTTPError(http.StatusBadRequest, "Malformed multipart form.").SetInternal(err)
	}
	targets := map[string]**string{
		"first_name":     &up.FirstName,
		"middle_name":    &up.MiddleName,
		"last_name":      &up.LastName,
		"username":       &up.Username,
		"student_id":     &up.StudentID,
		"gender":         &up.Gender,
		"address":        &up.Address,
		"contact_number": &up.ContactNumber,
	}
	for _, name := range profileFormFields {
		if vals, ok := form.Value[name]; ok && len(vals) > 0 {
			v := vals[0]
			*targets[name] = &v
		}
	}

	if files := form.File["avatar"]; len(files) > 0 {
		if up.Avatar, err = readUpload(files[0], maxSize); err != nil {
			return up, errors.Wrap(err, "reading avatar")
		}
	}
	return up, nil
}

func readUpload(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if fh.Size > maxSize {
		return nil, core.NewFieldError("avatar", "Avatar file size must be under 2MB.")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ioutil.ReadAll(io.LimitReader(f, maxSize+1))
}
