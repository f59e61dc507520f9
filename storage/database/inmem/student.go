package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]student.Student, 0)
	for _, id := range sortedKeys(repo.db.students) {
		s := repo.db.students[id]
		if filter.ParentID != 0 && s.ParentID != filter.ParentID {
			continue
		}
		if filter.TeacherID != 0 && s.TeacherID != filter.TeacherID {
			continue
		}
		students = append(students, *s)
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id int) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryNotes(_ context.Context, studentID int) ([]student.Note, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	notes := make([]student.Note, 0)
	for _, id := range sortedKeys(repo.db.notes) {
		if n := repo.db.notes[id]; n.StudentID == studentID {
			notes = append(notes, *n)
		}
	}
	return notes, nil
}

func (repo *studentRepository) CreateNote(_ context.Context, note student.Note) (student.Note, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	note.ID = next(&repo.db.seq.note)
	repo.db.notes[note.ID] = &note
	return note, nil
}
