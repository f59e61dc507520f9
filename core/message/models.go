package message

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

// Message types
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeFile  = "file"
)

type Message struct {
	ID          int       `json:"id"`
	ChatID      int       `json:"chatId"`
	SenderID    int       `json:"senderId"`
	RecipientID int       `json:"recipientId"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsParticipant reports whether userID sent or received m.
func (m Message) IsParticipant(userID int) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// Counterpart returns the id of the other participant of m, as seen by userID.
func (m Message) Counterpart(userID int) int {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// Contact summarizes the conversation of a user with one counterpart.
type Contact struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}

type NewMessage struct {
	RecipientID int    `json:"recipientId" validate:"required"`
	Content     string `json:"content" validate:"required,notblank"`
	Type        string `json:"type" validate:"omitempty,oneof=text image file"`
	ChatID      int    `json:"chatId"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	if nm.Type = core.CleanString(nm.Type, true); nm.Type == "" {
		nm.Type = TypeText
	}
	return core.WrapValidationErrors(validate.Struct(nm), "Message content is required")
}

// QueryFilter applies AND operation on its non-zero fields.
// UserID matches messages the user sent or received.
type QueryFilter struct {
	ChatID int
	UserID int
}
