package resource

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schoolconnect/core"
)

// Resource types
const (
	TypeDocument = "document"
	TypeLink     = "link"
	TypeVideo    = "video"
	TypeImage    = "image"
)

// Request statuses
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusFulfilled = "fulfilled"
)

type Resource struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	UploadedBy  int       `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Tags        []string  `json:"tags"`
}

// Request is a user's request for a resource the school does not provide yet.
type Request struct {
	ID          int        `json:"id"`
	UserID      int        `json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
	ResolvedBy  *int       `json:"resolvedBy"`
	Response    *string    `json:"response"`
}

type NewResource struct {
	Title       string   `json:"title" validate:"required,notblank"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"omitempty,oneof=document link video image"`
	URL         string   `json:"url" validate:"required,url"`
	Tags        []string `json:"tags"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanString(nr.Description)
	nr.URL = core.CleanString(nr.URL)
	if nr.Type = core.CleanString(nr.Type, true); nr.Type == "" {
		nr.Type = TypeDocument
	}
	tags := make([]string, 0, len(nr.Tags))
	for _, t := range nr.Tags {
		if t = core.CleanString(t, true); t != "" {
			tags = append(tags, t)
		}
	}
	nr.Tags = tags
	return core.WrapValidationErrors(validate.Struct(nr), "Title and URL are required")
}

type NewRequest struct {
	Title       string  `json:"title" validate:"required,notblank"`
	Description *string `json:"description"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	return core.WrapValidationErrors(validate.Struct(nr), "Title is required")
}

// Resolution closes a pending Request.
type Resolution struct {
	Status   string  `json:"status" validate:"required,oneof=approved rejected fulfilled"`
	Response *string `json:"response"`
}

func (r *Resolution) Validate(validate *validator.Validate) error {
	r.Status = core.CleanString(r.Status, true)
	return core.WrapValidationErrors(validate.Struct(r), "A valid status is required")
}
