package grade

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

const errRequiredFields = "Required fields missing"

type Grade struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"studentId"`
	TeacherID      int       `json:"teacherId"`
	AssignmentID   *int      `json:"assignmentId"`
	Subject        string    `json:"subject"`
	AssignmentName string    `json:"assignmentName"`
	Score          float64   `json:"score"`
	MaxScore       float64   `json:"maxScore"`
	Date           string    `json:"date"`
	Comments       *string   `json:"comments"`
	CreatedAt      time.Time `json:"createdAt"`
}

type NewGrade struct {
	StudentID      int      `json:"studentId" validate:"required"`
	AssignmentID   *int     `json:"assignmentId"`
	Subject        string   `json:"subject" validate:"required,notblank"`
	AssignmentName string   `json:"assignmentName" validate:"required,notblank"`
	Score          *float64 `json:"score" validate:"required,gte=0"`
	MaxScore       float64  `json:"maxScore" validate:"required,gt=0"`
	Date           string   `json:"date" validate:"omitempty,isodate"`
	Comments       *string  `json:"comments"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Subject = core.CleanString(ng.Subject)
	ng.AssignmentName = core.CleanString(ng.AssignmentName)
	if ng.Date = core.CleanString(ng.Date); ng.Date == "" {
		ng.Date = core.Today()
	}
	return core.WrapValidationErrors(validate.Struct(ng), errRequiredFields)
}

// UpdateGrade holds the fields of a partial Grade update. Comments are always overwritten.
type UpdateGrade struct {
	Subject        string   `json:"subject"`
	AssignmentName string   `json:"assignmentName"`
	Score          *float64 `json:"score" validate:"omitempty,gte=0"`
	MaxScore       float64  `json:"maxScore" validate:"omitempty,gt=0"`
	Date           string   `json:"date" validate:"omitempty,isodate"`
	Comments       *string  `json:"comments"`
}

func (ug *UpdateGrade) Validate(validate *validator.Validate) error {
	ug.Subject = core.CleanString(ug.Subject)
	ug.AssignmentName = core.CleanString(ug.AssignmentName)
	ug.Date = core.CleanString(ug.Date)
	return core.WrapValidationErrors(validate.Struct(ug), "Invalid grade data")
}

// QueryFilter applies AND operation on its non-zero fields.
type QueryFilter struct {
	TeacherID    int
	StudentID    int
	AssignmentID int
}
