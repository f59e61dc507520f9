package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

// Statuses of a student's work on an assignment
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusGraded     = "graded"
)

type Assignment struct {
	ID          int       `json:"id"`
	TeacherID   int       `json:"teacherId"`
	Subject     string    `json:"subject"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     string    `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	Attachments []string  `json:"attachments"`
}

// Status tracks the work of one student on one assignment.
type Status struct {
	ID             int      `json:"id"`
	AssignmentID   int      `json:"assignmentId"`
	StudentID      int      `json:"studentId"`
	Status         string   `json:"status"`
	SubmissionDate *string  `json:"submissionDate"`
	Grade          *float64 `json:"grade"`
	Feedback       *string  `json:"feedback"`
}

// Submission is a Status as listed for the assignment's teacher.
type Submission struct {
	StudentID      int      `json:"studentId"`
	StudentName    string   `json:"studentName"`
	Status         string   `json:"status"`
	SubmissionDate *string  `json:"submissionDate"`
	Grade          *float64 `json:"grade"`
	Feedback       *string  `json:"feedback"`
}

// StudentAssignment is an Assignment with the status of one student's work.
type StudentAssignment struct {
	ID          int      `json:"id"`
	Subject     string   `json:"subject"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DueDate     string   `json:"dueDate"`
	Status      string   `json:"status"`
	Attachments []string `json:"attachments"`
}

type NewAssignment struct {
	Subject     string   `json:"subject" validate:"required,notblank"`
	Title       string   `json:"title" validate:"required,notblank"`
	Description *string  `json:"description"`
	DueDate     string   `json:"dueDate" validate:"required,isodate"`
	Attachments []string `json:"attachments"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Subject = core.CleanString(na.Subject)
	na.Title = core.CleanString(na.Title)
	na.DueDate = core.CleanString(na.DueDate)
	return core.WrapValidationErrors(validate.Struct(na), "Subject, title, and due date are required")
}

// UpdateAssignment holds the fields of an Assignment update.
// Description and Attachments are always overwritten.
type UpdateAssignment struct {
	Subject     string   `json:"subject"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DueDate     string   `json:"dueDate" validate:"omitempty,isodate"`
	Attachments []string `json:"attachments"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Subject = core.CleanString(ua.Subject)
	ua.Title = core.CleanString(ua.Title)
	ua.DueDate = core.CleanString(ua.DueDate)
	return core.WrapValidationErrors(validate.Struct(ua), "Invalid assignment data")
}

// StatusFilter applies AND operation on its non-zero fields.
type StatusFilter struct {
	AssignmentID int
	StudentID    int
}
