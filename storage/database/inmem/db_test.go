package inmemdb

import (
	"context"
	"testing"

	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/user"
)

func openSeeded(t *testing.T) *DB {
	user.HashCost = 4 // bcrypt.MinCost
	db, err := Open(true)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return db
}

func TestOpen(t *testing.T) {
	empty, err := Open(false)
	if err != nil {
		t.Fatalf("Open(false) failed: %v", err)
	}
	if len(empty.users) != 0 || len(empty.students) != 0 {
		t.Error("unseeded DB is not empty")
	}

	db := openSeeded(t)
	for name, got := range map[string][2]int{
		"users":         {len(db.users), 3},
		"students":      {len(db.students), 2},
		"attendance":    {len(db.attendance), 6},
		"grades":        {len(db.grades), 6},
		"assignments":   {len(db.assignments), 3},
		"messages":      {len(db.messages), 4},
		"events":        {len(db.events), 4},
		"news":          {len(db.news), 4},
		"resources":     {len(db.resources), 3},
		"notifications": {len(db.notifications), 3},
	} {
		if got[0] != got[1] {
			t.Errorf("len(%s) = %d; want %d", name, got[0], got[1])
		}
	}

	usr, err := NewUserRepository(db).GetUser(context.Background(), user.GetFilter{Email: "teacher@example.com"})
	if err != nil || usr.CheckPassword("teacher123") != nil {
		t.Errorf("seeded teacher cannot log in: %+v, %v", usr, err)
	}
}

func TestAttendanceRepository_UpsertRecord(t *testing.T) {
	repo := NewAttendanceRepository(openSeeded(t))
	ctx := context.Background()

	saved, created, err := repo.UpsertRecord(ctx, attendance.Record{StudentID: 101, Date: "2023-06-01", Status: attendance.StatusTardy})
	if err != nil || created || saved.ID != 1 || saved.Status != attendance.StatusTardy {
		t.Errorf("update: saved %+v, created %v, err %v", saved, created, err)
	}

	saved, created, err = repo.UpsertRecord(ctx, attendance.Record{StudentID: 101, Date: "2023-06-06", Status: attendance.StatusPresent})
	if err != nil || !created || saved.ID != 7 {
		t.Errorf("create: saved %+v, created %v, err %v", saved, created, err)
	}

	records, _ := repo.QueryRecords(ctx, attendance.QueryFilter{StudentID: 101})
	if len(records) != 4 {
		t.Errorf("len(records) = %d; want 4", len(records))
	}
}

func TestAssignmentRepository_DeleteAssignment(t *testing.T) {
	repo := NewAssignmentRepository(openSeeded(t))
	ctx := context.Background()

	a, err := repo.CreateAssignment(ctx, assignment.Assignment{TeacherID: 1, Subject: "Art", Title: "Collage", DueDate: "2099-01-01"}, []int{101, 102})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	statuses, _ := repo.QueryStatuses(ctx, assignment.StatusFilter{AssignmentID: a.ID})
	if len(statuses) != 2 {
		t.Fatalf("len(statuses) = %d; want 2", len(statuses))
	}

	if _, err = repo.DeleteAssignment(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAssignment() failed: %v", err)
	}
	if statuses, _ = repo.QueryStatuses(ctx, assignment.StatusFilter{AssignmentID: a.ID}); len(statuses) != 0 {
		t.Errorf("status rows left after delete: %+v", statuses)
	}
	if _, err = repo.GetAssignment(ctx, a.ID); err != assignment.ErrNotFound {
		t.Errorf("GetAssignment() error = %v; want ErrNotFound", err)
	}

	// ids are never reused
	b, _ := repo.CreateAssignment(ctx, assignment.Assignment{TeacherID: 1, Subject: "Art", Title: "Mural", DueDate: "2099-02-01"}, nil)
	if b.ID != a.ID+1 {
		t.Errorf("new assignment id = %d; want %d", b.ID, a.ID+1)
	}
}

func TestMessageRepository_chats(t *testing.T) {
	repo := NewMessageRepository(openSeeded(t))
	ctx := context.Background()

	if id, err := repo.FindChatID(ctx, 2, 1); err != nil || id != 101 {
		t.Errorf("FindChatID(2, 1) = %d, %v; want 101", id, err)
	}
	if id, err := repo.NextChatID(ctx); err != nil || id != 103 {
		t.Errorf("NextChatID() = %d, %v; want 103", id, err)
	}
}
