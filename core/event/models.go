package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

// Audiences
const (
	AudienceTeachers = "teachers"
	AudienceParents  = "parents"
)

// Event types
const (
	TypeMeeting    = "meeting"
	TypeAssignment = "assignment"
	TypeSchool     = "school"
	TypeHoliday    = "holiday"
	TypeOther      = "other"
)

type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Type        string    `json:"type"`
	CreatedBy   int       `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Audience    []string  `json:"audience"`
}

// IsFor reports whether audience is one of the audiences of e.
func (e Event) IsFor(audience string) bool {
	for _, a := range e.Audience {
		if a == audience {
			return true
		}
	}
	return false
}

// AudienceOf maps a role (or an audience name) to the audience it belongs to.
// Unknown roles belong to no audience.
func AudienceOf(role string) string {
	switch core.CleanString(role, true) {
	case "teacher", AudienceTeachers:
		return AudienceTeachers
	case "parent", AudienceParents:
		return AudienceParents
	}
	return ""
}

type NewEvent struct {
	Title       string    `json:"title" validate:"required,notblank"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	Type        string    `json:"type" validate:"omitempty,oneof=meeting assignment school holiday other"`
	Audience    []string  `json:"audience" validate:"required,min=1,dive,oneof=teachers parents"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	if ne.Type = core.CleanString(ne.Type, true); ne.Type == "" {
		ne.Type = TypeOther
	}
	return core.WrapValidationErrors(validate.Struct(ne), "Invalid event data")
}
