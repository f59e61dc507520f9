package grade

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("Grade not found")

type (
	Repository interface {
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		QueryGrades(ctx context.Context, filter QueryFilter) ([]Grade, error)
		GetGrade(ctx context.Context, id int) (Grade, error)
		UpdateGrade(ctx context.Context, g Grade) (Grade, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Query returns the grades matching filter, most recent date first.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Grade, error) {
	grades, err := svc.repo.QueryGrades(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(grades, func(i, j int) bool { return grades[i].Date > grades[j].Date })
	return grades, nil
}

// ForStudent returns the grades of a student, oldest date first.
func (svc *Service) ForStudent(ctx context.Context, studentID int) ([]Grade, error) {
	grades, err := svc.repo.QueryGrades(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(grades, func(i, j int) bool { return grades[i].Date < grades[j].Date })
	return grades, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Grade, error) {
	return svc.repo.GetGrade(ctx, id)
}

// Create saves a new grade given by teacherID. ng must have been validated.
func (svc *Service) Create(ctx context.Context, teacherID int, ng NewGrade) (Grade, error) {
	return svc.repo.CreateGrade(ctx, Grade{
		StudentID:      ng.StudentID,
		TeacherID:      teacherID,
		AssignmentID:   ng.AssignmentID,
		Subject:        ng.Subject,
		AssignmentName: ng.AssignmentName,
		Score:          *ng.Score,
		MaxScore:       ng.MaxScore,
		Date:           ng.Date,
		Comments:       ng.Comments,
		CreatedAt:      time.Now().UTC(),
	})
}

// Update applies the set fields of ug to g.
func (svc *Service) Update(ctx context.Context, g Grade, ug UpdateGrade) (Grade, error) {
	if ug.Subject != "" {
		g.Subject = ug.Subject
	}
	if ug.AssignmentName != "" {
		g.AssignmentName = ug.AssignmentName
	}
	if ug.Score != nil {
		g.Score = *ug.Score
	}
	if ug.MaxScore != 0 {
		g.MaxScore = ug.MaxScore
	}
	if ug.Date != "" {
		g.Date = ug.Date
	}
	g.Comments = ug.Comments
	return svc.repo.UpdateGrade(ctx, g)
}
