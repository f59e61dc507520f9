package news

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

// Categories
const (
	CategoryAnnouncement = "announcement"
	CategoryEvent        = "event"
	CategoryNewsletter   = "newsletter"
)

type Item struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"imageUrl"`
	PublishDate string    `json:"publishDate"`
	Author      string    `json:"author"`
	AuthorID    int       `json:"authorId,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

type NewItem struct {
	Title    string  `json:"title" validate:"required,notblank"`
	Content  string  `json:"content" validate:"required,notblank"`
	Category string  `json:"category" validate:"required,oneof=announcement event newsletter"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Featured bool    `json:"featured"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.Title = core.CleanString(ni.Title)
	ni.Content = core.CleanString(ni.Content)
	ni.Category = core.CleanString(ni.Category, true)
	return core.WrapValidationErrors(validate.Struct(ni), "Title, content, and category are required")
}

// UpdateItem holds the fields of a partial Item update. ImageURL is always overwritten.
type UpdateItem struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category" validate:"omitempty,oneof=announcement event newsletter"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Featured *bool   `json:"featured"`
}

func (ui *UpdateItem) Validate(validate *validator.Validate) error {
	ui.Title = core.CleanString(ui.Title)
	ui.Content = core.CleanString(ui.Content)
	ui.Category = core.CleanString(ui.Category, true)
	return core.WrapValidationErrors(validate.Struct(ui), "Invalid announcement data")
}
