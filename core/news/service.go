package news

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/user"
)

const recentAnnouncements = 3

var ErrNotFound = errors.New("Announcement not found")

type (
	Repository interface {
		QueryItems(ctx context.Context, category string) ([]Item, error)
		GetItem(ctx context.Context, id int) (Item, error)
		CreateItem(ctx context.Context, item Item) (Item, error)
		UpdateItem(ctx context.Context, item Item) (Item, error)
		DeleteItem(ctx context.Context, id int) (Item, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the items of category (all items when empty), most recently published first.
func (svc *Service) List(ctx context.Context, category string) ([]Item, error) {
	items, err := svc.repo.QueryItems(ctx, core.CleanString(category, true))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishDate > items[j].PublishDate })
	return items, nil
}

// Recent returns the latest announcements.
func (svc *Service) Recent(ctx context.Context) ([]Item, error) {
	items, err := svc.List(ctx, CategoryAnnouncement)
	if err != nil {
		return nil, err
	}
	if len(items) > recentAnnouncements {
		items = items[:recentAnnouncements]
	}
	return items, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Item, error) {
	return svc.repo.GetItem(ctx, id)
}

// CanEdit reports whether usr may update or delete item: admins may edit any item, teachers their own.
func (svc *Service) CanEdit(usr user.User, item Item) bool {
	return usr.IsAdmin() || (usr.IsTeacher() && item.AuthorID == usr.ID)
}

// Publish saves a new item authored by usr, published today.
func (svc *Service) Publish(ctx context.Context, usr user.User, ni NewItem) (Item, error) {
	now := time.Now().UTC()
	return svc.repo.CreateItem(ctx, Item{
		Title:       ni.Title,
		Content:     ni.Content,
		Category:    ni.Category,
		ImageURL:    ni.ImageURL,
		PublishDate: now.Format(core.DateLayout),
		Author:      usr.Name,
		AuthorID:    usr.ID,
		Featured:    ni.Featured,
		CreatedAt:   now,
	})
}

func (svc *Service) Update(ctx context.Context, item Item, ui UpdateItem) (Item, error) {
	if ui.Title != "" {
		item.Title = ui.Title
	}
	if ui.Content != "" {
		item.Content = ui.Content
	}
	if ui.Category != "" {
		item.Category = ui.Category
	}
	if ui.Featured != nil {
		item.Featured = *ui.Featured
	}
	item.ImageURL = ui.ImageURL
	return svc.repo.UpdateItem(ctx, item)
}

func (svc *Service) Delete(ctx context.Context, id int) (Item, error) {
	return svc.repo.DeleteItem(ctx, id)
}
