package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/resource"
)

type resourceRepository struct {
	db *DB
}

var _ resource.Repository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *DB) resource.Repository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) QueryResources(_ context.Context) ([]resource.Resource, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	resources := make([]resource.Resource, 0, len(repo.db.resources))
	for _, id := range sortedKeys(repo.db.resources) {
		resources = append(resources, *repo.db.resources[id])
	}
	return resources, nil
}

func (repo *resourceRepository) CreateResource(_ context.Context, r resource.Resource) (resource.Resource, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	r.ID = next(&repo.db.seq.resource)
	repo.db.resources[r.ID] = &r
	return r, nil
}

func (repo *resourceRepository) QueryRequests(_ context.Context, userID int) ([]resource.Request, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	requests := make([]resource.Request, 0)
	for _, id := range sortedKeys(repo.db.resourceRequests) {
		if r := repo.db.resourceRequests[id]; userID == 0 || r.UserID == userID {
			requests = append(requests, *r)
		}
	}
	return requests, nil
}

func (repo *resourceRepository) GetRequest(_ context.Context, id int) (resource.Request, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if r, ok := repo.db.resourceRequests[id]; ok {
		return *r, nil
	}
	return resource.Request{}, resource.ErrRequestNotFound
}

func (repo *resourceRepository) CreateRequest(_ context.Context, r resource.Request) (resource.Request, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	r.ID = next(&repo.db.seq.resourceRequest)
	repo.db.resourceRequests[r.ID] = &r
	return r, nil
}

func (repo *resourceRepository) UpdateRequest(_ context.Context, r resource.Request) (resource.Request, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.resourceRequests[r.ID]; !ok {
		return resource.Request{}, resource.ErrRequestNotFound
	}
	repo.db.resourceRequests[r.ID] = &r
	return r, nil
}
