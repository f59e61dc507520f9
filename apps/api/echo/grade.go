package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/grade"
)

var (
	errForbiddenGradeList   = forbidden("not authorized to access these grades")
	errForbiddenGradeCreate = forbidden("not authorized to add grades")
	errForbiddenGradeUpdate = forbidden("not authorized to update this grade")
)

type gradeApi struct {
	svc      *grade.Service
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := gradeApi{svc: opts.GradeSvc, validate: opts.Validate}

	gg := g.Group("/grades", authed...)
	gg.GET("", api.query)
	gg.POST("", api.create, staffMiddleware(errForbiddenGradeCreate))
	gg.PUT("/:id", api.update)
}

// Handlers

func (api *gradeApi) query(ctx echo.Context) error {
	teacherID, err := queryUserID(ctx, "teacherId")
	if err != nil {
		return err
	}
	if err = checkSelfOrAdmin(ctx, teacherID, errForbiddenGradeList); err != nil {
		return err
	}

	studentID, err := queryInt(ctx, "studentId")
	if err != nil {
		return err
	}
	assignmentID, err := queryInt(ctx, "assignmentId")
	if err != nil {
		return err
	}

	grades, err := api.svc.Query(ctx.Request().Context(), grade.QueryFilter{
		TeacherID:    teacherID,
		StudentID:    studentID,
		AssignmentID: assignmentID,
	})
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data grade.NewGrade
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	g, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (api *gradeApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	g, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return notFound(grade.ErrNotFound)
		}
		return errors.Wrap(err, "finding grade by ID")
	}
	if g.TeacherID != usr.ID && !usr.IsAdmin() {
		return errForbiddenGradeUpdate
	}

	var data grade.UpdateGrade
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	g, err = api.svc.Update(ctx.Request().Context(), g, data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, g)
}
