package notification

import "time"

// Notification types
const (
	TypeAssignment = "assignment"
	TypeAttendance = "attendance"
	TypeEvent      = "event"
	TypeGrade      = "grade"
	TypeMessage    = "message"
	TypeNews       = "news"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
