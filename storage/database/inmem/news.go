package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/news"
)

type newsRepository struct {
	db *DB
}

var _ news.Repository = (*newsRepository)(nil) // interface compliance check

func NewNewsRepository(db *DB) news.Repository {
	return &newsRepository{db: db}
}

func (repo *newsRepository) QueryItems(_ context.Context, category string) ([]news.Item, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	items := make([]news.Item, 0)
	for _, id := range sortedKeys(repo.db.news) {
		if item := repo.db.news[id]; category == "" || item.Category == category {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (repo *newsRepository) GetItem(_ context.Context, id int) (news.Item, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if item, ok := repo.db.news[id]; ok {
		return *item, nil
	}
	return news.Item{}, news.ErrNotFound
}

func (repo *newsRepository) CreateItem(_ context.Context, item news.Item) (news.Item, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	item.ID = next(&repo.db.seq.news)
	repo.db.news[item.ID] = &item
	return item, nil
}

func (repo *newsRepository) UpdateItem(_ context.Context, item news.Item) (news.Item, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.news[item.ID]; !ok {
		return news.Item{}, news.ErrNotFound
	}
	repo.db.news[item.ID] = &item
	return item, nil
}

func (repo *newsRepository) DeleteItem(_ context.Context, id int) (news.Item, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	item, ok := repo.db.news[id]
	if !ok {
		return news.Item{}, news.ErrNotFound
	}
	delete(repo.db.news, id)
	return *item, nil
}
