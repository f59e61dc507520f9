package echoapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
	"github.com/trezcool/schoolconnect/services/realtime"
)

var (
	errForbiddenAssignments      = forbidden("not authorized to access these assignments")
	errForbiddenAssignmentCreate = forbidden("not authorized to create assignments")
	errForbiddenAssignmentUpdate = forbidden("not authorized to update this assignment")
	errForbiddenAssignmentDelete = forbidden("not authorized to delete this assignment")
	errForbiddenSubmissions      = forbidden("not authorized to view these submissions")
)

type assignmentApi struct {
	svc             *assignment.Service
	studentSvc      *student.Service
	notificationSvc *notification.Service
	hub             *realtime.Hub
	logger          core.Logger
	validate        *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := assignmentApi{
		svc:             opts.AssignmentSvc,
		studentSvc:      opts.StudentSvc,
		notificationSvc: opts.NotificationSvc,
		hub:             opts.Hub,
		logger:          opts.Logger,
		validate:        opts.Validate,
	}

	ag := g.Group("/assignments", authed...)
	ag.GET("", api.query)
	ag.GET("/upcoming", api.queryUpcoming)
	ag.POST("", api.create, staffMiddleware(errForbiddenAssignmentCreate))

	// detail endpoints
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.GET("/:id/submissions", api.submissions)
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	teacherID, err := api.teacherParam(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.svc.List(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) queryUpcoming(ctx echo.Context) error {
	teacherID, err := api.teacherParam(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.svc.Upcoming(ctx.Request().Context(), teacherID, core.Today())
	if err != nil {
		return errors.Wrap(err, "querying upcoming assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) teacherParam(ctx echo.Context) (int, error) {
	teacherID, err := queryUserID(ctx, "teacherId")
	if err != nil {
		return 0, err
	}
	return teacherID, checkSelfOrAdmin(ctx, teacherID, errForbiddenAssignments)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data assignment.NewAssignment
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	api.notifyParents(ctx.Request().Context(), a)
	return ctx.JSON(http.StatusCreated, a)
}

// notifyParents tells the parents of the students taught by the assignment's teacher. Failures are only logged.
func (api *assignmentApi) notifyParents(ctx context.Context, a assignment.Assignment) {
	students, err := api.studentSvc.ByTeacher(ctx, a.TeacherID)
	if err != nil {
		api.logger.Error(fmt.Sprintf("querying teacher students: %v", err), err)
		return
	}
	if len(students) == 0 {
		return
	}

	title := "New Assignment"
	msg := fmt.Sprintf("A new %s assignment has been posted: %s", a.Subject, a.Title)
	notified := make(map[int]bool, len(students))
	for _, s := range students {
		if notified[s.ParentID] {
			continue
		}
		notified[s.ParentID] = true
		if _, err = api.notificationSvc.Notify(ctx, s.ParentID, title, msg, notification.TypeAssignment); err != nil {
			api.logger.Error(fmt.Sprintf("notifying parent: %v", err), err)
			return
		}
	}
	api.hub.Publish(realtime.NotificationFrame(title, msg))
}

func (api *assignmentApi) update(ctx echo.Context) error {
	a, err := api.ownedAssignment(ctx, errForbiddenAssignmentUpdate)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	a, err = api.svc.Update(ctx.Request().Context(), a, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	a, err := api.ownedAssignment(ctx, errForbiddenAssignmentDelete)
	if err != nil {
		return err
	}
	if a, err = api.svc.Delete(ctx.Request().Context(), a.ID); err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return notFound(assignment.ErrNotFound)
		}
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, AssignmentDeletedResponse{Message: "Assignment deleted successfully", Assignment: a})
}

func (api *assignmentApi) submissions(ctx echo.Context) error {
	a, err := api.ownedAssignment(ctx, errForbiddenSubmissions)
	if err != nil {
		return err
	}
	submissions, err := api.svc.Submissions(ctx.Request().Context(), a)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, SubmissionsResponse{Assignment: a, Submissions: submissions})
}

// ownedAssignment returns the :id assignment if the context user created it, or if they are an admin.
func (api *assignmentApi) ownedAssignment(ctx echo.Context, denied error) (assignment.Assignment, error) {
	var usr user.User
	id, err := paramID(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if usr, err = getContextUser(ctx); err != nil {
		return assignment.Assignment{}, err
	}

	a, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return assignment.Assignment{}, notFound(assignment.ErrNotFound)
		}
		return assignment.Assignment{}, errors.Wrap(err, "finding assignment by ID")
	}
	if a.TeacherID != usr.ID && !usr.IsAdmin() {
		return assignment.Assignment{}, denied
	}
	return a, nil
}

type (
	AssignmentDeletedResponse struct {
		Message    string                `json:"message"`
		Assignment assignment.Assignment `json:"assignment"`
	}

	SubmissionsResponse struct {
		Assignment  assignment.Assignment   `json:"assignment"`
		Submissions []assignment.Submission `json:"submissions"`
	}
)
