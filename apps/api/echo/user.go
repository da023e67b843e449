package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
)

var (
	errStudentCredsRequired = "Student ID and password are required"
	errStudentNotFound      = "Invalid student ID or user not found"
	errStaffCredsRequired   = "Email and password are required"
	errStaffNotFound        = "Invalid email or user not found"
	errIncorrectPassword    = "Incorrect password"
)

type userApi struct {
	svc           user.ServiceInterface
	auth          *authenticator
	validate      *validator.Validate
	maxUploadSize int64
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, api *userApi) {
	// un-authed endpoints
	g.POST("/students/login", api.studentLogin)
	g.POST("/teachers/login", api.staffLogin)
	g.POST("/students/register", api.register)
	g.POST("/token/refresh", api.refreshToken)
	g.POST("/token/logout", api.logout)

	// authed endpoints
	me := g.Group("/users/me", authed)
	me.GET("", api.retrieveMe)
	me.PUT("", api.updateMe)
	me.PATCH("", api.updateMe)
}

type (
	StudentLoginRequest struct {
		StudentID string `json:"student_id"`
		Password  string `json:"password"`
	}

	StaffLoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Access  string    `json:"access"`
		Refresh string    `json:"refresh"`
		User    user.User `json:"user"`
	}

	RefreshRequest struct {
		Refresh string `json:"refresh"`
	}

	RefreshResponse struct {
		Access string `json:"access"`
	}
)

// Handlers

func (api *userApi) studentLogin(ctx echo.Context) error {
	var data StudentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLoginRequest")
	}
	if core.CleanString(data.StudentID) == "" || data.Password == "" {
		return core.NewValidationError(errors.New(errStudentCredsRequired))
	}

	usr, err := api.svc.AuthenticateStudent(ctx.Request().Context(), data.StudentID, data.Password)
	if err != nil {
		return loginError(err, errStudentNotFound, http.StatusNotFound)
	}
	return api.loginResponse(ctx, usr)
}

// staffLogin authenticates teachers and admins by email.
func (api *userApi) staffLogin(ctx echo.Context) error {
	var data StaffLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StaffLoginRequest")
	}
	if core.CleanString(data.Email) == "" || data.Password == "" {
		return core.NewValidationError(errors.New(errStaffCredsRequired))
	}

	usr, err := api.svc.AuthenticateStaff(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return loginError(err, errStaffNotFound, http.StatusUnauthorized)
	}
	return api.loginResponse(ctx, usr)
}

func loginError(err error, notFoundMsg string, notFoundCode int) error {
	switch errors.Cause(err) {
	case user.ErrNotFound:
		return echo.NewHTTPError(notFoundCode, notFoundMsg)
	case user.ErrIncorrectPassword:
		return echo.NewHTTPError(http.StatusUnauthorized, errIncorrectPassword)
	case user.ErrAccountDeactivated:
		return errAccountDeactivated
	default:
		return errors.Wrap(err, "authenticating")
	}
}

func (api *userApi) loginResponse(ctx echo.Context, usr user.User) error {
	access, refresh, err := api.auth.issuePair(usr)
	if err != nil {
		return errors.Wrap(err, "generating tokens")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{
		Access:  access,
		Refresh: refresh,
		User:    withAbsoluteAvatar(ctx, usr),
	})
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, withAbsoluteAvatar(ctx, usr))
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	var data RefreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefreshRequest")
	}
	claims, err := api.auth.parseRefresh(data.Refresh)
	if err != nil {
		return err
	}
	id, err := claims.userID()
	if err != nil {
		return errTokenInvalid
	}

	usr, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errTokenInvalid
		}
		return errors.Wrap(err, "finding user by ID")
	}
	// check if user is still active
	if !usr.IsActive {
		return errAccountDeactivated
	}

	access, err := api.auth.sign(api.auth.claims(usr, tokenTypeAccess, api.auth.accessTTL))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, RefreshResponse{Access: access})
}

// logout revokes a refresh token. Access tokens stay valid until they expire.
func (api *userApi) logout(ctx echo.Context) error {
	var data RefreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefreshRequest")
	}
	claims, err := api.auth.parseRefresh(data.Refresh)
	if err != nil {
		return err
	}
	api.auth.revoke(claims)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) retrieveMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, withAbsoluteAvatar(ctx, usr))
}

func (api *userApi) updateMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	data, err := bindUpdateProfile(ctx, api.maxUploadSize)
	if err != nil {
		return err
	}
	if err = data.Validate(ctx.Request().Context(), usr, api.validate, api.svc); err != nil {
		return err
	}

	usr, err = api.svc.UpdateProfile(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, withAbsoluteAvatar(ctx, usr))
}

// withAbsoluteAvatar turns a host-relative avatar path into a URL clients can load.
func withAbsoluteAvatar(ctx echo.Context, usr user.User) user.User {
	if strings.HasPrefix(usr.Avatar, "/") {
		usr.Avatar = ctx.Scheme() + "://" + ctx.Request().Host + usr.Avatar
	}
	return usr
}
