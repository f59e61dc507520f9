package client

import (
	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/grade"
	"github.com/trezcool/schoolconnect/core/message"
	"github.com/trezcool/schoolconnect/core/news"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
)

type (
	// Session is the signed-in user along with their token.
	Session struct {
		user.User
		Token string `json:"token"`
	}

	Profile struct {
		Message string    `json:"message"`
		User    user.User `json:"user"`
	}

	Message struct {
		Message string `json:"message"`
	}

	StudentAttendance struct {
		Student    student.Summary    `json:"student"`
		Attendance []attendance.Entry `json:"attendance"`
	}

	StudentGrades struct {
		Student student.Summary `json:"student"`
		Grades  []grade.Grade   `json:"grades"`
	}

	StudentAssignments struct {
		Student     student.Summary                `json:"student"`
		Assignments []assignment.StudentAssignment `json:"assignments"`
	}

	AssignmentDeleted struct {
		Message    string                `json:"message"`
		Assignment assignment.Assignment `json:"assignment"`
	}

	Submissions struct {
		Assignment  assignment.Assignment   `json:"assignment"`
		Submissions []assignment.Submission `json:"submissions"`
	}

	Contacts struct {
		Contacts []message.Contact `json:"contacts"`
	}

	AnnouncementDeleted struct {
		Message      string    `json:"message"`
		Announcement news.Item `json:"announcement"`
	}

	NotificationDeleted struct {
		Message      string                    `json:"message"`
		Notification notification.Notification `json:"notification"`
	}

	// AttendanceQuery filters GetAttendance. Zero fields are left out.
	AttendanceQuery struct {
		TeacherID int
		StudentID int
		Date      string
	}

	// GradeQuery filters GetGrades. Zero fields are left out.
	GradeQuery struct {
		TeacherID    int
		StudentID    int
		AssignmentID int
	}
)
