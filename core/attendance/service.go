package attendance

import (
	"context"
	"sort"
	"time"
)

type (
	Repository interface {
		QueryRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
		// UpsertRecord updates the record of (rec.StudentID, rec.Date) if one exists, else creates it.
		// created reports which of the two happened.
		UpsertRecord(ctx context.Context, rec Record) (saved Record, created bool, err error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Query returns the records matching filter, most recent date first.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Record, error) {
	records, err := svc.repo.QueryRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records, nil
}

// ForStudent returns the attendance entries of a student, oldest date first.
func (svc *Service) ForStudent(ctx context.Context, studentID int) ([]Entry, error) {
	records, err := svc.repo.QueryRecords(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.Entry())
	}
	return entries, nil
}

// Mark records the attendance of a student. An existing record for the same date is overwritten.
func (svc *Service) Mark(ctx context.Context, m Mark, markedBy int) (Record, bool, error) {
	return svc.repo.UpsertRecord(ctx, Record{
		StudentID: m.StudentID,
		Date:      m.Date,
		Status:    m.Status,
		Notes:     m.Notes,
		MarkedBy:  markedBy,
		CreatedAt: time.Now().UTC(),
	})
}
