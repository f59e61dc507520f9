package resource

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrRequestNotFound = errors.New("Resource request not found")
	ErrAlreadyResolved = errors.New("Resource request already resolved")
)

type (
	Repository interface {
		QueryResources(ctx context.Context) ([]Resource, error)
		CreateResource(ctx context.Context, r Resource) (Resource, error)
		// QueryRequests returns the requests of userID, or every request when userID is 0.
		QueryRequests(ctx context.Context, userID int) ([]Request, error)
		GetRequest(ctx context.Context, id int) (Request, error)
		CreateRequest(ctx context.Context, r Request) (Request, error)
		UpdateRequest(ctx context.Context, r Request) (Request, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) List(ctx context.Context) ([]Resource, error) {
	return svc.repo.QueryResources(ctx)
}

func (svc *Service) Add(ctx context.Context, uploadedBy int, nr NewResource) (Resource, error) {
	return svc.repo.CreateResource(ctx, Resource{
		Title:       nr.Title,
		Description: nr.Description,
		Type:        nr.Type,
		URL:         nr.URL,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now().UTC(),
		Tags:        nr.Tags,
	})
}

// Requests returns the requests of userID, or all of them when userID is 0.
func (svc *Service) Requests(ctx context.Context, userID int) ([]Request, error) {
	return svc.repo.QueryRequests(ctx, userID)
}

func (svc *Service) GetRequest(ctx context.Context, id int) (Request, error) {
	return svc.repo.GetRequest(ctx, id)
}

func (svc *Service) Request(ctx context.Context, userID int, nr NewRequest) (Request, error) {
	return svc.repo.CreateRequest(ctx, Request{
		UserID:      userID,
		Title:       nr.Title,
		Description: nr.Description,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	})
}

// Resolve closes a pending request on behalf of resolvedBy.
func (svc *Service) Resolve(ctx context.Context, req Request, resolvedBy int, res Resolution) (Request, error) {
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyResolved
	}
	now := time.Now().UTC()
	req.Status = res.Status
	req.Response = res.Response
	req.ResolvedAt = &now
	req.ResolvedBy = &resolvedBy
	return svc.repo.UpdateRequest(ctx, req)
}
