package student

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("Student not found")

type (
	Repository interface {
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		QueryNotes(ctx context.Context, studentID int) ([]Note, error)
		CreateNote(ctx context.Context, note Note) (Note, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) ByParent(ctx context.Context, parentID int) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, QueryFilter{ParentID: parentID})
}

func (svc *Service) ByTeacher(ctx context.Context, teacherID int) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, QueryFilter{TeacherID: teacherID})
}

// IDsByTeacher returns the ids of the students taught by teacherID.
func (svc *Service) IDsByTeacher(ctx context.Context, teacherID int) ([]int, error) {
	students, err := svc.ByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// Details returns the student and, if withNotes is set, the notes left about them.
func (svc *Service) Details(ctx context.Context, s Student, withNotes bool) (Details, error) {
	details := Details{Student: s, Notes: []Note{}}
	if !withNotes {
		return details, nil
	}
	notes, err := svc.repo.QueryNotes(ctx, s.ID)
	if err != nil {
		return Details{}, errors.Wrap(err, "querying notes")
	}
	details.Notes = notes
	return details, nil
}

func (svc *Service) AddNote(ctx context.Context, s Student, teacherID int, nn NewNote) (Note, error) {
	return svc.repo.CreateNote(ctx, Note{
		StudentID: s.ID,
		TeacherID: teacherID,
		Note:      nn.Note,
		CreatedAt: time.Now().UTC(),
	})
}
