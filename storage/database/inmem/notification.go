package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	n.ID = next(&repo.db.seq.notification)
	repo.db.notifications[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, userID int) ([]notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	list := make([]notification.Notification, 0)
	for _, id := range sortedKeys(repo.db.notifications) {
		if n := repo.db.notifications[id]; n.UserID == userID {
			list = append(list, *n)
		}
	}
	return list, nil
}

func (repo *notificationRepository) GetNotification(_ context.Context, id int) (notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if n, ok := repo.db.notifications[id]; ok {
		return *n, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) UpdateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.notifications[n.ID]; !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	repo.db.notifications[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) MarkAllRead(_ context.Context, userID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, n := range repo.db.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (repo *notificationRepository) DeleteNotification(_ context.Context, id int) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	n, ok := repo.db.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	delete(repo.db.notifications, id)
	return *n, nil
}

func (repo *notificationRepository) DeleteUserNotifications(_ context.Context, userID int) (int, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	count := 0
	for id, n := range repo.db.notifications {
		if n.UserID == userID {
			delete(repo.db.notifications, id)
			count++
		}
	}
	return count, nil
}
