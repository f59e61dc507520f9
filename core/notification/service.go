package notification

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("Notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		QueryNotifications(ctx context.Context, userID int) ([]Notification, error)
		GetNotification(ctx context.Context, id int) (Notification, error)
		UpdateNotification(ctx context.Context, n Notification) (Notification, error)
		MarkAllRead(ctx context.Context, userID int) error
		DeleteNotification(ctx context.Context, id int) (Notification, error)
		// DeleteUserNotifications removes every notification of userID and returns how many there were.
		DeleteUserNotifications(ctx context.Context, userID int) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the notifications of userID, newest first.
func (svc *Service) List(ctx context.Context, userID int) ([]Notification, error) {
	list, err := svc.repo.QueryNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Notification, error) {
	return svc.repo.GetNotification(ctx, id)
}

func (svc *Service) MarkRead(ctx context.Context, n Notification) (Notification, error) {
	if n.Read {
		return n, nil
	}
	n.Read = true
	return svc.repo.UpdateNotification(ctx, n)
}

// MarkAllRead flags every notification of userID as read and returns them.
func (svc *Service) MarkAllRead(ctx context.Context, userID int) ([]Notification, error) {
	if err := svc.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "marking notifications")
	}
	return svc.List(ctx, userID)
}

func (svc *Service) Delete(ctx context.Context, id int) (Notification, error) {
	return svc.repo.DeleteNotification(ctx, id)
}

func (svc *Service) DeleteAll(ctx context.Context, userID int) (int, error) {
	return svc.repo.DeleteUserNotifications(ctx, userID)
}

// Notify saves an unread notification for userID.
func (svc *Service) Notify(ctx context.Context, userID int, title, message, typ string) (Notification, error) {
	return svc.repo.CreateNotification(ctx, Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	})
}
