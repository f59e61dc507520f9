package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

type Student struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Grade            int       `json:"grade"`
	ParentID         int       `json:"parentId"`
	TeacherID        int       `json:"teacherId"`
	ProfilePicture   *string   `json:"profilePicture"`
	DateOfBirth      string    `json:"dateOfBirth"`
	EmergencyContact string    `json:"emergencyContact"`
	MedicalInfo      *string   `json:"medicalInfo"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CanBeViewedBy reports whether the user identified by userID is the student's parent or teacher.
// Admins are checked by callers.
func (s Student) CanBeViewedBy(userID int) bool {
	return s.ParentID == userID || s.TeacherID == userID
}

func (s Student) Summary() Summary {
	return Summary{ID: s.ID, Name: s.Name}
}

// Summary is the short form of a Student embedded in per-student listings.
type Summary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Note is a private remark left by a teacher about a Student.
type Note struct {
	ID        int       `json:"id"`
	StudentID int       `json:"studentId"`
	TeacherID int       `json:"teacherId"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// Details is a Student with the notes visible to the requester.
type Details struct {
	Student
	Notes []Note `json:"notes"`
}

type NewNote struct {
	StudentID int    `json:"studentId" validate:"required"`
	Note      string `json:"note" validate:"required,notblank"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Note = core.CleanString(nn.Note)
	return core.WrapValidationErrors(validate.Struct(nn), "Student ID and note are required")
}

// QueryFilter applies AND operation on its non-zero fields.
type QueryFilter struct {
	ParentID  int
	TeacherID int
}
