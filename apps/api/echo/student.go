package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core/student"
)

type rosterApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
}

func registerRosterAPI(g *echo.Group, api *rosterApi) {
	g.GET("/programs/:program_id/students", api.queryByProgram)
	g.POST("", api.create)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

// Handlers

func (api *rosterApi) queryByProgram(ctx echo.Context) error {
	programID, err := pathID(ctx, "program_id")
	if err != nil {
		return student.ErrProgramNotFound
	}
	students, err := api.svc.ListByProgram(ctx.Request().Context(), programID, ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *rosterApi) create(ctx echo.Context) error {
	var data student.Input
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to student.Input")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc, nil); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, withAbsoluteAvatar(ctx, usr))
}

func (api *rosterApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	usr, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}
	return ctx.JSON(http.StatusOK, withAbsoluteAvatar(ctx, usr))
}

func (api *rosterApi) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	orig, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}

	var data student.Input
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to student.Input")
	}
	if err = data.Validate(ctx.Request().Context(), api.validate, api.svc, &orig); err != nil {
		return err
	}

	usr, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, withAbsoluteAvatar(ctx, usr))
}

func (api *rosterApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
