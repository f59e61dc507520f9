package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment, studentIDs []int) (assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	a.ID = next(&repo.db.seq.assignment)
	repo.db.assignments[a.ID] = &a
	for _, studentID := range studentIDs {
		st := assignment.Status{
			ID:           next(&repo.db.seq.assignmentStatus),
			AssignmentID: a.ID,
			StudentID:    studentID,
			Status:       assignment.StatusNotStarted,
		}
		repo.db.assignmentStatus[st.ID] = &st
	}
	return a, nil
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, teacherID int) ([]assignment.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, id := range sortedKeys(repo.db.assignments) {
		if a := repo.db.assignments[id]; teacherID == 0 || a.TeacherID == teacherID {
			assignments = append(assignments, *a)
		}
	}
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id int) (assignment.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.assignments[a.ID]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	repo.db.assignments[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id int) (assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	a, ok := repo.db.assignments[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	delete(repo.db.assignments, id)
	for stID, st := range repo.db.assignmentStatus {
		if st.AssignmentID == id {
			delete(repo.db.assignmentStatus, stID)
		}
	}
	return *a, nil
}

func (repo *assignmentRepository) QueryStatuses(_ context.Context, filter assignment.StatusFilter) ([]assignment.Status, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	statuses := make([]assignment.Status, 0)
	for _, id := range sortedKeys(repo.db.assignmentStatus) {
		st := repo.db.assignmentStatus[id]
		if filter.AssignmentID != 0 && st.AssignmentID != filter.AssignmentID {
			continue
		}
		if filter.StudentID != 0 && st.StudentID != filter.StudentID {
			continue
		}
		statuses = append(statuses, *st)
	}
	return statuses, nil
}
