package inmemdb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/event"
	"github.com/trezcool/schoolconnect/core/grade"
	"github.com/trezcool/schoolconnect/core/message"
	"github.com/trezcool/schoolconnect/core/news"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/resource"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
)

// first id handed out for chats created at runtime
const firstChatID = 103

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func instant(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func strPtr(s string) *string { return &s }

type seedUser struct {
	usr user.User
	pwd string
}

// seed fills db with the demo school: one teacher, two parents and their children.
func (db *DB) seed() error {
	now := time.Now().UTC()
	for _, su := range []seedUser{
		{user.User{Name: "Jane Smith", Email: "teacher@example.com", Role: user.RoleTeacher, CreatedAt: day("2023-01-15")}, "teacher123"},
		{user.User{Name: "John Doe", Email: "parent@example.com", Role: user.RoleParent, CreatedAt: day("2023-01-20")}, "parent123"},
		{user.User{Name: "Alice Johnson", Email: "parent2@example.com", Role: user.RoleParent, CreatedAt: day("2023-01-25")}, "parent123"},
	} {
		usr := su.usr
		if err := usr.SetPassword(su.pwd); err != nil {
			return errors.Wrap(err, "seeding users")
		}
		usr.ID = next(&db.seq.user)
		usr.LastActive = now
		db.users[usr.ID] = &usr
	}

	for _, s := range []student.Student{
		{ID: 101, Name: "Emma Doe", Grade: 5, ParentID: 2, TeacherID: 1, DateOfBirth: "2013-05-12", EmergencyContact: "+1234567890", CreatedAt: day("2023-01-15")},
		{ID: 102, Name: "Michael Doe", Grade: 3, ParentID: 2, TeacherID: 1, DateOfBirth: "2015-09-22", EmergencyContact: "+1234567890", MedicalInfo: strPtr("Allergic to peanuts"), CreatedAt: day("2023-01-15")},
	} {
		s := s
		db.students[s.ID] = &s
		db.seq.student = s.ID
	}

	for _, n := range []student.Note{
		{StudentID: 101, TeacherID: 1, Note: "Emma is showing great improvement in math this quarter.", CreatedAt: day("2023-05-15")},
		{StudentID: 102, TeacherID: 1, Note: "Michael struggled with the recent science project. Need to follow up with parents.", CreatedAt: day("2023-05-20")},
	} {
		n := n
		n.ID = next(&db.seq.note)
		db.notes[n.ID] = &n
	}

	for _, r := range []attendance.Record{
		{StudentID: 101, Date: "2023-06-01", Status: attendance.StatusPresent, CreatedAt: instant("2023-06-01T09:00:00Z")},
		{StudentID: 102, Date: "2023-06-01", Status: attendance.StatusPresent, CreatedAt: instant("2023-06-01T09:00:00Z")},
		{StudentID: 101, Date: "2023-06-02", Status: attendance.StatusAbsent, Notes: strPtr("Parent called to report illness"), CreatedAt: instant("2023-06-02T09:00:00Z")},
		{StudentID: 102, Date: "2023-06-02", Status: attendance.StatusPresent, CreatedAt: instant("2023-06-02T09:00:00Z")},
		{StudentID: 101, Date: "2023-06-05", Status: attendance.StatusPresent, CreatedAt: instant("2023-06-05T09:00:00Z")},
		{StudentID: 102, Date: "2023-06-05", Status: attendance.StatusTardy, Notes: strPtr("Arrived 15 minutes late"), CreatedAt: instant("2023-06-05T09:15:00Z")},
	} {
		r := r
		r.ID = next(&db.seq.attendance)
		r.MarkedBy = 1
		db.attendance[r.ID] = &r
	}

	type seedGrade struct {
		studentID int
		subject   string
		name      string
		score     float64
		date      string
		comments  string
	}
	for _, sg := range []seedGrade{
		{101, "Math", "Fractions Quiz", 90, "2023-05-15", "Excellent work!"},
		{101, "Science", "Plant Life Cycle Project", 85, "2023-05-20", "Good presentation, but missing some details."},
		{101, "English", "Book Report", 95, "2023-05-25", "Outstanding analysis and writing!"},
		{102, "Math", "Fractions Quiz", 80, "2023-05-15", "Good effort, but needs more practice with improper fractions."},
		{102, "Science", "Plant Life Cycle Project", 70, "2023-05-20", "Project was incomplete and missing key components."},
		{102, "English", "Book Report", 85, "2023-05-25", "Good insights, but some grammatical errors."},
	} {
		g := grade.Grade{
			ID:             next(&db.seq.grade),
			StudentID:      sg.studentID,
			TeacherID:      1,
			Subject:        sg.subject,
			AssignmentName: sg.name,
			Score:          sg.score,
			MaxScore:       100,
			Date:           sg.date,
			Comments:       strPtr(sg.comments),
			CreatedAt:      day(sg.date),
		}
		db.grades[g.ID] = &g
	}

	for _, a := range []assignment.Assignment{
		{Subject: "Math", Title: "Multiplication Worksheet", Description: strPtr("Complete the multiplication tables 1-12"), DueDate: "2023-06-10", CreatedAt: day("2023-06-01")},
		{Subject: "Science", Title: "Weather Journal", Description: strPtr("Track and record the weather for one week"), DueDate: "2023-06-15", CreatedAt: day("2023-06-02")},
		{Subject: "English", Title: "Vocabulary Quiz", Description: strPtr("Study the vocabulary words for Friday's quiz"), DueDate: "2023-06-09", CreatedAt: day("2023-06-01")},
	} {
		a := a
		a.ID = next(&db.seq.assignment)
		a.TeacherID = 1
		db.assignments[a.ID] = &a
		for _, studentID := range []int{101, 102} {
			st := assignment.Status{
				ID:           next(&db.seq.assignmentStatus),
				AssignmentID: a.ID,
				StudentID:    studentID,
				Status:       assignment.StatusNotStarted,
			}
			if a.ID == 1 && studentID == 101 {
				st.Status = assignment.StatusInProgress
			}
			db.assignmentStatus[st.ID] = &st
		}
	}

	for _, m := range []message.Message{
		{ChatID: 101, SenderID: 1, RecipientID: 2, Content: "Hello, I wanted to discuss your child's progress in science class.", Read: true, CreatedAt: instant("2023-06-01T10:00:00Z")},
		{ChatID: 101, SenderID: 2, RecipientID: 1, Content: "Great! I've been wanting to talk about that. How is she doing?", Read: true, CreatedAt: instant("2023-06-01T10:15:00Z")},
		{ChatID: 101, SenderID: 1, RecipientID: 2, Content: "She's doing well overall, but I think she could use some extra help with the lab work.", CreatedAt: instant("2023-06-01T10:20:00Z")},
		{ChatID: 102, SenderID: 1, RecipientID: 3, Content: "Just a reminder that the permission slips for the field trip are due tomorrow.", CreatedAt: instant("2023-06-02T09:30:00Z")},
	} {
		m := m
		m.ID = next(&db.seq.message)
		m.Type = message.TypeText
		db.messages[m.ID] = &m
	}
	db.seq.chat = firstChatID - 1

	both := []string{event.AudienceTeachers, event.AudienceParents}
	for _, e := range []event.Event{
		{Title: "Parent-Teacher Conference", Description: "Discuss student progress and address any concerns", Location: "School Auditorium", StartTime: instant("2023-06-15T15:00:00Z"), EndTime: instant("2023-06-15T19:00:00Z"), Type: event.TypeMeeting, CreatedAt: day("2023-05-20"), Audience: both},
		{Title: "Math Test - Grade 5", Description: "Fractions and decimals unit test", Location: "Classroom 103", StartTime: instant("2023-06-10T09:00:00Z"), EndTime: instant("2023-06-10T10:30:00Z"), Type: event.TypeAssignment, CreatedAt: day("2023-05-25"), Audience: both},
		{Title: "School Field Trip", Description: "Science museum visit", Location: "City Science Museum", StartTime: instant("2023-06-20T08:00:00Z"), EndTime: instant("2023-06-20T15:00:00Z"), Type: event.TypeSchool, CreatedAt: day("2023-05-10"), Audience: both},
		{Title: "Faculty Meeting", Description: "End of year planning and assessment discussion", Location: "Staff Room", StartTime: instant("2023-06-12T14:00:00Z"), EndTime: instant("2023-06-12T16:00:00Z"), Type: event.TypeMeeting, CreatedAt: day("2023-05-28"), Audience: []string{event.AudienceTeachers}},
	} {
		e := e
		e.ID = next(&db.seq.event)
		e.CreatedBy = 1
		db.events[e.ID] = &e
	}

	for _, item := range []news.Item{
		{Title: "Summer School Registration Now Open", Content: "Registration for summer school programs is now open. Visit the school office or website to sign up.", Category: news.CategoryAnnouncement, PublishDate: "2023-05-15", Author: "Admin", Featured: true},
		{Title: "Student Art Exhibition", Content: "Join us for the annual student art exhibition in the school gallery. Opening night is June 5th at 6 PM.", Category: news.CategoryEvent, PublishDate: "2023-05-20", Author: "Art Department"},
		{Title: "End-of-Year Schedule", Content: "Please note the adjusted schedule for the last week of school. Early dismissal on Friday, June 23rd.", Category: news.CategoryAnnouncement, PublishDate: "2023-05-25", Author: "Principal", Featured: true},
		{Title: "New Math Curriculum for Next Year", Content: "We're excited to announce our new math curriculum for the 2023-2024 school year. More information coming soon.", Category: news.CategoryNewsletter, PublishDate: "2023-06-01", Author: "Curriculum Committee"},
	} {
		item := item
		item.ID = next(&db.seq.news)
		item.CreatedAt = day(item.PublishDate)
		db.news[item.ID] = &item
	}

	for _, r := range []resource.Resource{
		{Title: "Math Worksheets - Grade 5", Description: "Practice worksheets for 5th grade math curriculum", URL: "https://example.com/resources/math-g5.pdf", CreatedAt: day("2023-05-10"), Tags: []string{"math", "grade 5", "practice"}},
		{Title: "Science Lab Safety Guidelines", Description: "Safety procedures for all school science labs", URL: "https://example.com/resources/lab-safety.pdf", CreatedAt: day("2023-05-15"), Tags: []string{"science", "safety", "lab"}},
		{Title: "Parent Volunteer Sign-up Form", Description: "Form for parents to sign up for volunteer opportunities", URL: "https://example.com/resources/volunteer-form.pdf", CreatedAt: day("2023-05-20"), Tags: []string{"parent", "volunteer", "form"}},
	} {
		r := r
		r.ID = next(&db.seq.resource)
		r.Type = resource.TypeDocument
		r.UploadedBy = 1
		db.resources[r.ID] = &r
	}

	req := resource.Request{
		ID:          next(&db.seq.resourceRequest),
		UserID:      2,
		Title:       "Reading List for Summer",
		Description: strPtr("Could we get a recommended reading list for summer break?"),
		Status:      resource.StatusPending,
		CreatedAt:   day("2023-06-01"),
	}
	db.resourceRequests[req.ID] = &req

	for _, n := range []notification.Notification{
		{UserID: 1, Title: "New Assignment Posted", Message: "A new Math assignment has been posted", Type: notification.TypeAssignment, CreatedAt: instant("2023-06-01T10:00:00Z")},
		{UserID: 2, Title: "Student Attendance", Message: "Your child was absent today", Type: notification.TypeAttendance, Read: true, CreatedAt: instant("2023-06-02T09:30:00Z")},
		{UserID: 1, Title: "Faculty Meeting", Message: "Reminder: Faculty meeting tomorrow at 3 PM", Type: notification.TypeEvent, CreatedAt: instant("2023-06-03T14:45:00Z")},
	} {
		n := n
		n.ID = next(&db.seq.notification)
		db.notifications[n.ID] = &n
	}
	return nil
}
