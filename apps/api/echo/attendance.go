package echoapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/services/realtime"
)

var (
	errForbiddenAttendanceData = forbidden("not authorized to access this attendance data")
	errForbiddenMarkAttendance = forbidden("not authorized to mark attendance")
)

type attendanceApi struct {
	svc             *attendance.Service
	studentSvc      *student.Service
	notificationSvc *notification.Service
	hub             *realtime.Hub
	logger          core.Logger
	validate        *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := attendanceApi{
		svc:             opts.AttendanceSvc,
		studentSvc:      opts.StudentSvc,
		notificationSvc: opts.NotificationSvc,
		hub:             opts.Hub,
		logger:          opts.Logger,
		validate:        opts.Validate,
	}

	ag := g.Group("/attendance", authed...)
	ag.GET("", api.query)
	ag.POST("", api.mark, staffMiddleware(errForbiddenMarkAttendance))
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	teacherID, err := queryUserID(ctx, "teacherId")
	if err != nil {
		return err
	}
	if err = checkSelfOrAdmin(ctx, teacherID, errForbiddenAttendanceData); err != nil {
		return err
	}

	studentID, err := queryInt(ctx, "studentId")
	if err != nil {
		return err
	}

	records, err := api.svc.Query(ctx.Request().Context(), attendance.QueryFilter{
		StudentID: studentID,
		Date:      ctx.QueryParam("date"),
	})
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data attendance.Mark
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rec, created, err := api.svc.Mark(ctx.Request().Context(), data, usr.ID)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	if rec.Status == attendance.StatusAbsent {
		api.notifyParent(ctx.Request().Context(), rec)
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, rec)
}

// notifyParent tells the parent of an absent student. Failures are only logged.
func (api *attendanceApi) notifyParent(ctx context.Context, rec attendance.Record) {
	s, err := api.studentSvc.Get(ctx, rec.StudentID)
	if err != nil {
		if errors.Cause(err) != student.ErrNotFound {
			api.logger.Error(fmt.Sprintf("finding absent student: %v", err), err)
		}
		return
	}

	title := "Attendance Alert"
	msg := fmt.Sprintf("%s was marked absent on %s", s.Name, rec.Date)
	if _, err = api.notificationSvc.Notify(ctx, s.ParentID, title, msg, notification.TypeAttendance); err != nil {
		api.logger.Error(fmt.Sprintf("notifying parent: %v", err), err)
		return
	}
	api.hub.Publish(realtime.NotificationFrame(title, msg))
}
