package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(_ context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	g.ID = next(&repo.db.seq.grade)
	repo.db.grades[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) QueryGrades(_ context.Context, filter grade.QueryFilter) ([]grade.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, id := range sortedKeys(repo.db.grades) {
		g := repo.db.grades[id]
		if filter.TeacherID != 0 && g.TeacherID != filter.TeacherID {
			continue
		}
		if filter.StudentID != 0 && g.StudentID != filter.StudentID {
			continue
		}
		if filter.AssignmentID != 0 && (g.AssignmentID == nil || *g.AssignmentID != filter.AssignmentID) {
			continue
		}
		grades = append(grades, *g)
	}
	return grades, nil
}

func (repo *gradeRepository) GetGrade(_ context.Context, id int) (grade.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if g, ok := repo.db.grades[id]; ok {
		return *g, nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) UpdateGrade(_ context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.grades[g.ID]; !ok {
		return grade.Grade{}, grade.ErrNotFound
	}
	repo.db.grades[g.ID] = &g
	return g, nil
}
