package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusTardy   = "tardy"
	StatusExcused = "excused"
)

type Record struct {
	ID        int       `json:"id"`
	StudentID int       `json:"studentId"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes"`
	MarkedBy  int       `json:"markedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry is a Record as listed for a single student.
type Entry struct {
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (r Record) Entry() Entry {
	return Entry{Date: r.Date, Status: r.Status, Notes: r.Notes}
}

// Mark is the payload used to mark the attendance of a student on a given date.
type Mark struct {
	StudentID int     `json:"studentId" validate:"required"`
	Date      string  `json:"date" validate:"required,isodate"`
	Status    string  `json:"status" validate:"required,oneof=present absent tardy excused"`
	Notes     *string `json:"notes"`
}

func (m *Mark) Validate(validate *validator.Validate) error {
	m.Date = core.CleanString(m.Date)
	m.Status = core.CleanString(m.Status, true /* lower */)
	return core.WrapValidationErrors(validate.Struct(m), "Student ID, date, and status are required")
}

// QueryFilter applies AND operation on its non-zero fields.
type QueryFilter struct {
	StudentID int
	Date      string
}
