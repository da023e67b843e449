package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core/program"
)

type programApi struct {
	svc      program.ServiceInterface
	validate *validator.Validate
}

func registerProgramAPI(g *echo.Group, api *programApi) {
	pg := g.Group("/programs")
	pg.GET("", api.queryPrograms)
	pg.POST("", api.createProgram)
	pg.GET("/:id", api.retrieveProgram)
	pg.PUT("/:id", api.updateProgram)
	pg.DELETE("/:id", api.destroyProgram)

	sg := g.Group("/subjects")
	sg.GET("", api.querySubjects)
	sg.POST("", api.createSubject)
	sg.GET("/:id", api.retrieveSubject)
	sg.PUT("/:id", api.updateSubject)
	sg.DELETE("/:id", api.destroySubject)

	schg := g.Group("/schedules")
	schg.GET("", api.querySchedules)
	schg.POST("", api.createSchedule)
	schg.GET("/:id", api.retrieveSchedule)
	schg.PUT("/:id", api.updateSchedule)
	schg.DELETE("/:id", api.destroySchedule)
}

// Programs

func (api *programApi) queryPrograms(ctx echo.Context) error {
	var filter program.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	progs, err := api.svc.QueryPrograms(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	return ctx.JSON(http.StatusOK, progs)
}

func (api *programApi) createProgram(ctx echo.Context) error {
	var data program.ProgramInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgramInput")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc, 0); err != nil {
		return err
	}

	p, err := api.svc.CreateProgram(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *programApi) retrieveProgram(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	p, err := api.svc.GetProgram(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding program")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *programApi) updateProgram(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.svc.GetProgram(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "finding program")
	}

	var data program.ProgramInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgramInput")
	}
	if err = data.Validate(ctx.Request().Context(), api.validate, api.svc, id); err != nil {
		return err
	}

	p, err := api.svc.UpdateProgram(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *programApi) destroyProgram(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteProgram(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting program")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Subjects

func (api *programApi) querySubjects(ctx echo.Context) error {
	programID, err := queryID(ctx, "program_id")
	if err != nil {
		return err
	}
	subjects, err := api.svc.QuerySubjects(ctx.Request().Context(), program.SubjectFilter{ProgramID: programID})
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *programApi) createSubject(ctx echo.Context) error {
	var data program.SubjectInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubjectInput")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc, 0); err != nil {
		return err
	}

	s, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *programApi) retrieveSubject(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	s, err := api.svc.GetSubject(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding subject")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *programApi) updateSubject(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.svc.GetSubject(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "finding subject")
	}

	var data program.SubjectInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubjectInput")
	}
	if err = data.Validate(ctx.Request().Context(), api.validate, api.svc, id); err != nil {
		return err
	}

	s, err := api.svc.UpdateSubject(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *programApi) destroySubject(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteSubject(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Schedules

func (api *programApi) querySchedules(ctx echo.Context) error {
	subjectID, err := queryID(ctx, "subject_id")
	if err != nil {
		return err
	}
	scheds, err := api.svc.QuerySchedules(ctx.Request().Context(), program.ScheduleFilter{SubjectID: subjectID})
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	return ctx.JSON(http.StatusOK, scheds)
}

func (api *programApi) createSchedule(ctx echo.Context) error {
	var data program.ScheduleInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleInput")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	s, err := api.svc.CreateSchedule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating schedule")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *programApi) retrieveSchedule(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	s, err := api.svc.GetSchedule(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding schedule")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *programApi) updateSchedule(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.svc.GetSchedule(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "finding schedule")
	}

	var data program.ScheduleInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleInput")
	}
	if err = data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	s, err := api.svc.UpdateSchedule(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating schedule")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *programApi) destroySchedule(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteSchedule(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting schedule")
	}
	return ctx.NoContent(http.StatusNoContent)
}
