package tests

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/grade"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
	"github.com/trezcool/schoolconnect/tests"
)

func Test_studentApi_queryByParent(t *testing.T) {
	f := setup(t)

	parentToken := f.token(t, f.parent)
	tests := []httpTest{
		{name: "auth required", path: "/api/parents/2/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "other parent's students", path: "/api/parents/2/students", token: f.token(t, f.parent2),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to access these students"}),
		},
		{name: "invalid id", path: "/api/parents/abc/students", token: parentToken, wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "Invalid ID"})},
		{name: "own students", path: "/api/parents/2/students", token: parentToken, wantCode: http.StatusOK, extra: []int{emmaID, michaelID}},
		{name: "no students", path: "/api/parents/3/students", token: f.token(t, f.parent2), wantCode: http.StatusOK, wantData: []byte("[]")},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, tt)
			if ids, ok := tt.extra.([]int); ok {
				var students []student.Student
				unmarshal(t, rec, &students)
				checkStudentIDs(t, students, ids)
			}
		})
	}
}

func Test_studentApi_queryByTeacher(t *testing.T) {
	f := setup(t)

	tests := []httpTest{
		{
			name: "parent not allowed", path: "/api/teachers/1/students", token: f.token(t, f.parent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to access these students"}),
		},
		{name: "own class", path: "/api/teachers/1/students", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: []int{emmaID, michaelID}},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, tt)
			if ids, ok := tt.extra.([]int); ok {
				var students []student.Student
				unmarshal(t, rec, &students)
				checkStudentIDs(t, students, ids)
			}
		})
	}
}

func checkStudentIDs(t *testing.T, students []student.Student, want []int) {
	t.Helper()
	if len(students) != len(want) {
		t.Fatalf("failed! len(students) = %d; want %d", len(students), len(want))
	}
	for i, s := range students {
		if s.ID != want[i] {
			t.Errorf("failed! students[%d].ID = %d; want %d", i, s.ID, want[i])
		}
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	f := setup(t)

	type extraTest struct {
		notes int
	}
	tests := []httpTest{
		{
			name: "stranger", path: "/api/students/101", token: f.token(t, f.parent2),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to view this student"}),
		},
		{name: "unknown student", path: "/api/students/999", token: f.token(t, f.parent), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Student not found"})},
		{name: "parent sees no notes", path: "/api/students/101", token: f.token(t, f.parent), wantCode: http.StatusOK, extra: extraTest{notes: 0}},
		{name: "teacher sees notes", path: "/api/students/101", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: extraTest{notes: 1}},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, tt)
			if extra, ok := tt.extra.(extraTest); ok {
				var details student.Details
				unmarshal(t, rec, &details)
				if details.ID != emmaID || details.Name != "Emma Doe" {
					t.Errorf("failed! student = %+v", details.Student)
				}
				if details.Notes == nil || len(details.Notes) != extra.notes {
					t.Errorf("failed! notes = %v; want %d notes", details.Notes, extra.notes)
				}
			}
		})
	}
}

func Test_studentApi_records(t *testing.T) {
	f := setup(t)

	t.Run("attendance", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodGet, path: "/api/students/101/attendance", token: f.token(t, f.parent2),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to view this student's attendance"}),
		})

		rec := f.serve(t, httpTest{method: http.MethodGet, path: "/api/students/101/attendance", token: f.token(t, f.parent), wantCode: http.StatusOK})
		var resp echoapi.StudentAttendanceResponse
		unmarshal(t, rec, &resp)
		if resp.Student != (student.Summary{ID: emmaID, Name: "Emma Doe"}) {
			t.Errorf("failed! student = %+v", resp.Student)
		}
		if len(resp.Attendance) != 3 {
			t.Fatalf("failed! len(attendance) = %d; want 3", len(resp.Attendance))
		}
	})

	t.Run("grades", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodGet, path: "/api/students/102/grades", token: f.token(t, f.parent2),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to view this student's grades"}),
		})

		rec := f.serve(t, httpTest{method: http.MethodGet, path: "/api/students/102/grades", token: f.token(t, f.teacher), wantCode: http.StatusOK})
		var resp echoapi.StudentGradesResponse
		unmarshal(t, rec, &resp)
		if len(resp.Grades) != 3 {
			t.Fatalf("failed! len(grades) = %d; want 3", len(resp.Grades))
		}
		for _, g := range resp.Grades {
			if g.StudentID != michaelID {
				t.Errorf("failed! grade %d belongs to student %d", g.ID, g.StudentID)
			}
		}
	})

	t.Run("assignments", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodGet, path: "/api/students/101/assignments", token: f.token(t, f.parent2),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to view this student's assignments"}),
		})

		rec := f.serve(t, httpTest{method: http.MethodGet, path: "/api/students/101/assignments", token: f.token(t, f.parent), wantCode: http.StatusOK})
		var resp echoapi.StudentAssignmentsResponse
		unmarshal(t, rec, &resp)
		if len(resp.Assignments) != 3 {
			t.Fatalf("failed! len(assignments) = %d; want 3", len(resp.Assignments))
		}
		for _, a := range resp.Assignments {
			if a.ID == 1 && a.Status != "in_progress" {
				t.Errorf("failed! assignment 1 status = %q; want in_progress", a.Status)
			}
		}
	})
}

func Test_studentApi_addNote(t *testing.T) {
	f := setup(t)

	tests := []httpTest{
		{
			name: "parent not allowed", token: f.token(t, f.parent),
			body:     marchallObj(t, student.NewNote{StudentID: emmaID, Note: "Hello"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to add notes to this student"}),
		},
		{
			name: "blank note", token: f.token(t, f.teacher),
			body: marchallObj(t, student.NewNote{StudentID: emmaID, Note: "   "}), wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown student", token: f.token(t, f.teacher),
			body:     marchallObj(t, student.NewNote{StudentID: 999, Note: "Hello"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Student not found"}),
		},
		{
			name: "added", token: f.token(t, f.teacher),
			body: marchallObj(t, student.NewNote{StudentID: emmaID, Note: "Great reading progress."}), wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/student-notes"

		t.Run(tt.name, func(t *testing.T) {
			f.serve(t, tt)
		})
	}

	rec := f.serve(t, httpTest{method: http.MethodGet, path: "/api/students/101", token: f.token(t, f.teacher), wantCode: http.StatusOK})
	var details student.Details
	unmarshal(t, rec, &details)
	if len(details.Notes) != 2 {
		t.Errorf("failed! len(notes) = %d; want 2", len(details.Notes))
	}
}

func Test_attendanceApi_query(t *testing.T) {
	f := setup(t)

	tests := []httpTest{
		{
			name: "parent not allowed", path: "/api/attendance?teacherId=1", token: f.token(t, f.parent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to access this attendance data"}),
		},
		{name: "all records", path: "/api/attendance", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: 6},
		{name: "by student", path: "/api/attendance?teacherId=1&studentId=102", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: 3},
		{name: "by date", path: "/api/attendance?date=2023-06-02", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: 2},
		{name: "by student and date", path: "/api/attendance?studentId=101&date=2023-06-02", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: 1},
		{name: "malformed student id", path: "/api/attendance?studentId=emma", token: f.token(t, f.teacher), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "Invalid ID"})},
		{name: "malformed teacher id", path: "/api/attendance?teacherId=1x", token: f.token(t, f.teacher), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "Invalid ID"})},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, tt)
			if want, ok := tt.extra.(int); ok {
				var records []attendance.Record
				unmarshal(t, rec, &records)
				if len(records) != want {
					t.Errorf("failed! len(records) = %d; want %d", len(records), want)
				}
			}
		})
	}
}

func Test_attendanceApi_mark(t *testing.T) {
	f := setup(t)
	token := f.token(t, f.teacher)

	mark := func(t *testing.T, m attendance.Mark, wantCode int) attendance.Record {
		rec := f.serve(t, httpTest{method: http.MethodPost, path: "/api/attendance", token: token, body: marchallObj(t, m), wantCode: wantCode})
		var r attendance.Record
		unmarshal(t, rec, &r)
		return r
	}
	query := func(t *testing.T, studentID int, date string) []attendance.Record {
		path := "/api/attendance?studentId=" + strconv.Itoa(studentID) + "&date=" + date
		rec := f.serve(t, httpTest{method: http.MethodGet, path: path, token: token, wantCode: http.StatusOK})
		var records []attendance.Record
		unmarshal(t, rec, &records)
		return records
	}
	parentNotifications := func(t *testing.T) []notification.Notification {
		list, err := f.notifSvc.List(context.Background(), parentID)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		return list
	}

	t.Run("parent not allowed", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/attendance", token: f.token(t, f.parent),
			body:     marchallObj(t, attendance.Mark{StudentID: emmaID, Date: "2023-06-06", Status: attendance.StatusPresent}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to mark attendance"}),
		})
	})

	t.Run("invalid mark", func(t *testing.T) {
		for _, m := range []attendance.Mark{
			{Date: "2023-06-06", Status: attendance.StatusPresent},
			{StudentID: emmaID, Date: "06/06/2023", Status: attendance.StatusPresent},
			{StudentID: emmaID, Date: "2023-06-06", Status: "sleeping"},
		} {
			f.serve(t, httpTest{method: http.MethodPost, path: "/api/attendance", token: token, body: marchallObj(t, m), wantCode: http.StatusBadRequest})
		}
	})

	t.Run("new record", func(t *testing.T) {
		r := mark(t, attendance.Mark{StudentID: emmaID, Date: "2023-06-06", Status: attendance.StatusPresent}, http.StatusCreated)
		if r.ID == 0 || r.MarkedBy != teacherID || r.Status != attendance.StatusPresent {
			t.Errorf("failed! record = %+v", r)
		}
		if records := query(t, emmaID, "2023-06-06"); len(records) != 1 {
			t.Errorf("failed! len(records) = %d; want 1", len(records))
		}
	})

	t.Run("existing record is updated", func(t *testing.T) {
		before := len(parentNotifications(t))
		notes := "Fever"
		r := mark(t, attendance.Mark{StudentID: emmaID, Date: "2023-06-01", Status: attendance.StatusAbsent, Notes: &notes}, http.StatusOK)
		if r.ID != 1 || r.Status != attendance.StatusAbsent {
			t.Errorf("failed! record = %+v; want record 1 marked absent", r)
		}

		records := query(t, emmaID, "2023-06-01")
		if len(records) != 1 {
			t.Fatalf("failed! len(records) = %d; want 1", len(records))
		}
		if records[0].Status != attendance.StatusAbsent || records[0].Notes == nil || *records[0].Notes != notes {
			t.Errorf("failed! record = %+v", records[0])
		}

		list := parentNotifications(t)
		if len(list) != before+1 {
			t.Fatalf("failed! len(notifications) = %d; want %d", len(list), before+1)
		}
		if n := list[0]; n.Title != "Attendance Alert" || n.Message != "Emma Doe was marked absent on 2023-06-01" || n.Type != notification.TypeAttendance {
			t.Errorf("failed! notification = %+v", n)
		}
	})
}

func Test_gradeApi(t *testing.T) {
	f := setup(t)
	teacherToken := f.token(t, f.teacher)

	t.Run("query", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodGet, path: "/api/grades?teacherId=1", token: f.token(t, f.parent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to access these grades"}),
		})
		rec := f.serve(t, httpTest{method: http.MethodGet, path: "/api/grades?studentId=101", token: teacherToken, wantCode: http.StatusOK})
		var grades []grade.Grade
		unmarshal(t, rec, &grades)
		if len(grades) != 3 {
			t.Errorf("failed! len(grades) = %d; want 3", len(grades))
		}

		admin := testutil.CreateUser(t, f.usrRepo, "Principal Skinner", "admin@example.com", "", user.RoleAdmin)
		for _, path := range []string{
			"/api/grades?teacherId=abc",
			"/api/grades?teacherId=0",
			"/api/grades?teacherId=1&studentId=abc",
			"/api/grades?teacherId=1&assignmentId=1.5",
		} {
			f.serve(t, httpTest{
				method: http.MethodGet, path: path, token: f.token(t, admin),
				wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "Invalid ID"}),
			})
		}
	})

	nine := 9.0
	var created grade.Grade
	t.Run("create", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/grades", token: f.token(t, f.parent),
			body:     marchallObj(t, grade.NewGrade{StudentID: emmaID, Subject: "Art", AssignmentName: "Collage", Score: &nine, MaxScore: 10, Date: "2023-06-07"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to add grades"}),
		})
		rec := f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/grades", token: teacherToken,
			body:     marchallObj(t, grade.NewGrade{StudentID: emmaID, Subject: "Art", AssignmentName: "Collage", Score: &nine, MaxScore: 10, Date: "2023-06-07"}),
			wantCode: http.StatusCreated,
		})
		unmarshal(t, rec, &created)
		if created.ID == 0 || created.TeacherID != teacherID {
			t.Errorf("failed! grade = %+v", created)
		}
	})

	t.Run("update", func(t *testing.T) {
		score := 10.0
		f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/grades/999", token: teacherToken,
			body: marchallObj(t, grade.UpdateGrade{Score: &score}), wantCode: http.StatusNotFound,
		})

		other := testutil.CreateUser(t, f.usrRepo, "Tom Brown", "tom@example.com", "", user.RoleTeacher)
		f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/grades/" + strconv.Itoa(created.ID), token: f.token(t, other),
			body:     marchallObj(t, grade.UpdateGrade{Score: &score}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to update this grade"}),
		})

		rec := f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/grades/" + strconv.Itoa(created.ID), token: teacherToken,
			body: marchallObj(t, grade.UpdateGrade{Score: &score}), wantCode: http.StatusOK,
		})
		var g grade.Grade
		unmarshal(t, rec, &g)
		if g.Score != score || g.Subject != "Art" {
			t.Errorf("failed! grade = %+v", g)
		}
	})
}
