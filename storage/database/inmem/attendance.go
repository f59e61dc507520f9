package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := make([]attendance.Record, 0)
	for _, id := range sortedKeys(repo.db.attendance) {
		r := repo.db.attendance[id]
		if filter.StudentID != 0 && r.StudentID != filter.StudentID {
			continue
		}
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		records = append(records, *r)
	}
	return records, nil
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, r := range repo.db.attendance {
		if r.StudentID == rec.StudentID && r.Date == rec.Date {
			r.Status = rec.Status
			r.Notes = rec.Notes
			r.MarkedBy = rec.MarkedBy
			return *r, false, nil
		}
	}
	rec.ID = next(&repo.db.seq.attendance)
	repo.db.attendance[rec.ID] = &rec
	return rec, true, nil
}
