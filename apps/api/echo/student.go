package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/grade"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
)

var (
	errForbiddenStudents   = forbidden("not authorized to access these students")
	errForbiddenStudent    = forbidden("not authorized to view this student")
	errForbiddenAttendance = forbidden("not authorized to view this student's attendance")
	errForbiddenGrades     = forbidden("not authorized to view this student's grades")
	errForbiddenWork       = forbidden("not authorized to view this student's assignments")
	errForbiddenNote       = forbidden("not authorized to add notes to this student")
)

type studentApi struct {
	svc           *student.Service
	attendanceSvc *attendance.Service
	gradeSvc      *grade.Service
	assignmentSvc *assignment.Service
	validate      *validator.Validate
}

func registerStudentAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := studentApi{
		svc:           opts.StudentSvc,
		attendanceSvc: opts.AttendanceSvc,
		gradeSvc:      opts.GradeSvc,
		assignmentSvc: opts.AssignmentSvc,
		validate:      opts.Validate,
	}

	g.GET("/parents/:id/students", api.queryByParent, authed...)
	g.GET("/teachers/:id/students", api.queryByTeacher, authed...)

	sg := g.Group("/students/:id")
	sg.GET("", api.retrieve, authed...)
	sg.GET("/attendance", api.attendance, authed...)
	sg.GET("/grades", api.grades, authed...)
	sg.GET("/assignments", api.assignments, authed...)

	g.POST("/student-notes", api.addNote, authed...)
}

// Handlers

func (api *studentApi) queryByParent(ctx echo.Context) error {
	id, err := selfOrAdminParam(ctx, errForbiddenStudents)
	if err != nil {
		return err
	}
	students, err := api.svc.ByParent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) queryByTeacher(ctx echo.Context) error {
	id, err := selfOrAdminParam(ctx, errForbiddenStudents)
	if err != nil {
		return err
	}
	students, err := api.svc.ByTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	usr, s, err := api.viewableStudent(ctx, errForbiddenStudent)
	if err != nil {
		return err
	}
	// notes are private to the student's teacher
	withNotes := usr.ID == s.TeacherID || usr.IsAdmin()
	details, err := api.svc.Details(ctx.Request().Context(), s, withNotes)
	if err != nil {
		return errors.Wrap(err, "getting student details")
	}
	return ctx.JSON(http.StatusOK, details)
}

func (api *studentApi) attendance(ctx echo.Context) error {
	_, s, err := api.viewableStudent(ctx, errForbiddenAttendance)
	if err != nil {
		return err
	}
	entries, err := api.attendanceSvc.ForStudent(ctx.Request().Context(), s.ID)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, StudentAttendanceResponse{Student: s.Summary(), Attendance: entries})
}

func (api *studentApi) grades(ctx echo.Context) error {
	_, s, err := api.viewableStudent(ctx, errForbiddenGrades)
	if err != nil {
		return err
	}
	grades, err := api.gradeSvc.ForStudent(ctx.Request().Context(), s.ID)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, StudentGradesResponse{Student: s.Summary(), Grades: grades})
}

func (api *studentApi) assignments(ctx echo.Context) error {
	_, s, err := api.viewableStudent(ctx, errForbiddenWork)
	if err != nil {
		return err
	}
	assignments, err := api.assignmentSvc.ForStudent(ctx.Request().Context(), s.ID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, StudentAssignmentsResponse{Student: s.Summary(), Assignments: assignments})
}

func (api *studentApi) addNote(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data student.NewNote
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.getStudent(ctx, data.StudentID)
	if err != nil {
		return err
	}
	if usr.ID != s.TeacherID && !usr.IsAdmin() {
		return errForbiddenNote
	}

	note, err := api.svc.AddNote(ctx.Request().Context(), s, usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding note")
	}
	return ctx.JSON(http.StatusCreated, note)
}

func (api *studentApi) getStudent(ctx echo.Context, id int) (student.Student, error) {
	s, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, notFound(student.ErrNotFound)
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return s, nil
}

// viewableStudent returns the :id student if the context user is their parent, their teacher or an admin.
func (api *studentApi) viewableStudent(ctx echo.Context, denied error) (user.User, student.Student, error) {
	usr, err := getContextUser(ctx)
	if err != nil {
		return user.User{}, student.Student{}, err
	}
	id, err := paramID(ctx)
	if err != nil {
		return user.User{}, student.Student{}, err
	}
	s, err := api.getStudent(ctx, id)
	if err != nil {
		return user.User{}, student.Student{}, err
	}
	if !s.CanBeViewedBy(usr.ID) && !usr.IsAdmin() {
		return user.User{}, student.Student{}, denied
	}
	return usr, s, nil
}

// selfOrAdminParam returns the :id param if it identifies the context user, or if they are an admin.
func selfOrAdminParam(ctx echo.Context, denied error) (int, error) {
	id, err := paramID(ctx)
	if err != nil {
		return 0, err
	}
	return id, checkSelfOrAdmin(ctx, id, denied)
}

func checkSelfOrAdmin(ctx echo.Context, id int, denied error) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if !usr.IsSelfOrAdmin(id) {
		return denied
	}
	return nil
}

func checkSelf(ctx echo.Context, id int, denied error) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if usr.ID != id {
		return denied
	}
	return nil
}

type (
	StudentAttendanceResponse struct {
		Student    student.Summary    `json:"student"`
		Attendance []attendance.Entry `json:"attendance"`
	}

	StudentGradesResponse struct {
		Student student.Summary `json:"student"`
		Grades  []grade.Grade   `json:"grades"`
	}

	StudentAssignmentsResponse struct {
		Student     student.Summary                `json:"student"`
		Assignments []assignment.StudentAssignment `json:"assignments"`
	}
)
