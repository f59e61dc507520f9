package assignment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/student"
)

var ErrNotFound = errors.New("Assignment not found")

type (
	Repository interface {
		// CreateAssignment saves a and one not_started Status per student of studentIDs.
		CreateAssignment(ctx context.Context, a Assignment, studentIDs []int) (Assignment, error)
		QueryAssignments(ctx context.Context, teacherID int) ([]Assignment, error)
		GetAssignment(ctx context.Context, id int) (Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		// DeleteAssignment removes the assignment and all its Status rows.
		DeleteAssignment(ctx context.Context, id int) (Assignment, error)
		QueryStatuses(ctx context.Context, filter StatusFilter) ([]Status, error)
	}

	Service struct {
		repo     Repository
		students *student.Service
	}
)

func NewService(repo Repository, students *student.Service) *Service {
	return &Service{repo: repo, students: students}
}

func sortByDueDate(assignments []Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool { return assignments[i].DueDate < assignments[j].DueDate })
}

// List returns the assignments of a teacher, earliest due date first.
func (svc *Service) List(ctx context.Context, teacherID int) ([]Assignment, error) {
	assignments, err := svc.repo.QueryAssignments(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	sortByDueDate(assignments)
	return assignments, nil
}

// Upcoming returns the assignments of a teacher due on today or later, earliest first.
// today is formatted with core.DateLayout.
func (svc *Service) Upcoming(ctx context.Context, teacherID int, today string) ([]Assignment, error) {
	assignments, err := svc.List(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	upcoming := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.DueDate >= today {
			upcoming = append(upcoming, a)
		}
	}
	return upcoming, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Assignment, error) {
	return svc.repo.GetAssignment(ctx, id)
}

// Create saves a new assignment of teacherID and assigns it to every student they teach.
func (svc *Service) Create(ctx context.Context, teacherID int, na NewAssignment) (Assignment, error) {
	studentIDs, err := svc.students.IDsByTeacher(ctx, teacherID)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "querying teacher students")
	}
	a := Assignment{
		TeacherID:   teacherID,
		Subject:     na.Subject,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		CreatedAt:   time.Now().UTC(),
		Attachments: na.Attachments,
	}
	return svc.repo.CreateAssignment(ctx, a, studentIDs)
}

func (svc *Service) Update(ctx context.Context, a Assignment, ua UpdateAssignment) (Assignment, error) {
	if ua.Subject != "" {
		a.Subject = ua.Subject
	}
	if ua.Title != "" {
		a.Title = ua.Title
	}
	if ua.DueDate != "" {
		a.DueDate = ua.DueDate
	}
	a.Description = ua.Description
	a.Attachments = ua.Attachments
	return svc.repo.UpdateAssignment(ctx, a)
}

func (svc *Service) Delete(ctx context.Context, id int) (Assignment, error) {
	return svc.repo.DeleteAssignment(ctx, id)
}

// Submissions lists the work status of every student the assignment was given to.
func (svc *Service) Submissions(ctx context.Context, a Assignment) ([]Submission, error) {
	statuses, err := svc.repo.QueryStatuses(ctx, StatusFilter{AssignmentID: a.ID})
	if err != nil {
		return nil, errors.Wrap(err, "querying statuses")
	}

	submissions := make([]Submission, 0, len(statuses))
	for _, st := range statuses {
		name := fmt.Sprintf("Student %d", st.StudentID)
		if s, err := svc.students.Get(ctx, st.StudentID); err == nil {
			name = s.Name
		} else if errors.Cause(err) != student.ErrNotFound {
			return nil, errors.Wrap(err, "finding student")
		}
		submissions = append(submissions, Submission{
			StudentID:      st.StudentID,
			StudentName:    name,
			Status:         st.Status,
			SubmissionDate: st.SubmissionDate,
			Grade:          st.Grade,
			Feedback:       st.Feedback,
		})
	}
	return submissions, nil
}

// ForStudent returns the assignments given to a student with the status of their work, earliest due date first.
func (svc *Service) ForStudent(ctx context.Context, studentID int) ([]StudentAssignment, error) {
	statuses, err := svc.repo.QueryStatuses(ctx, StatusFilter{StudentID: studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying statuses")
	}

	list := make([]StudentAssignment, 0, len(statuses))
	for _, st := range statuses {
		a, err := svc.repo.GetAssignment(ctx, st.AssignmentID)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				continue
			}
			return nil, errors.Wrap(err, "finding assignment")
		}
		list = append(list, StudentAssignment{
			ID:          a.ID,
			Subject:     a.Subject,
			Title:       a.Title,
			Description: a.Description,
			DueDate:     a.DueDate,
			Status:      st.Status,
			Attachments: a.Attachments,
		})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].DueDate < list[j].DueDate })
	return list, nil
}
