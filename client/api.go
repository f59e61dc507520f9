package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

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

// withQuery appends the non-empty params to endpoint.
func withQuery(endpoint string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		if v != "" && v != "0" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}

func itoa(i int) string { return strconv.Itoa(i) }

// Authentication

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, &s); err != nil {
		return Session{}, err
	}
	return s, errors.Wrap(c.tokens.SetToken(s.Token), "saving token")
}

func (c *Client) Register(ctx context.Context, nu user.NewUser) (Session, error) {
	var s Session
	if err := c.Do(ctx, http.MethodPost, "/auth/register", nu, &s); err != nil {
		return Session{}, err
	}
	return s, errors.Wrap(c.tokens.SetToken(s.Token), "saving token")
}

// Logout ends the session server side and forgets the token, even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = errors.Wrap(clearErr, "clearing token")
	}
	return err
}

func (c *Client) GetUserData(ctx context.Context) (usr user.User, err error) {
	err = c.Do(ctx, http.MethodGet, "/user", nil, &usr)
	return
}

// Profile

func (c *Client) UpdateProfile(ctx context.Context, userID int, uu user.UpdateUser) (p Profile, err error) {
	err = c.Do(ctx, http.MethodPut, "/users/"+itoa(userID), uu, &p)
	return
}

func (c *Client) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) (m Message, err error) {
	cp := user.ChangePassword{CurrentPassword: currentPassword, NewPassword: newPassword}
	err = c.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/password", userID), cp, &m)
	return
}

// Students

func (c *Client) GetStudentsByParent(ctx context.Context, parentID int) (students []student.Student, err error) {
	err = c.Do(ctx, http.MethodGet, fmt.Sprintf("/parents/%d/students", parentID), nil, &students)
	return
}

func (c *Client) GetTeacherStudents(ctx context.Context, teacherID int) (students []student.Student, err error) {
	err = c.Do(ctx, http.MethodGet, fmt.Sprintf("/teachers/%d/students", teacherID), nil, &students)
	return
}

func (c *Client) GetStudentDetails(ctx context.Context, studentID int) (d student.Details, err error) {
	err = c.Do(ctx, http.MethodGet, "/students/"+itoa(studentID), nil, &d)
	return
}

func (c *Client) AddStudentNote(ctx context.Context, nn student.NewNote) (note student.Note, err error) {
	err = c.Do(ctx, http.MethodPost, "/student-notes", nn, &note)
	return
}

// Attendance

func (c *Client) GetStudentAttendance(ctx context.Context, studentID int) (a StudentAttendance, err error) {
	err = c.Do(ctx, http.MethodGet, fmt.Sprintf("/students/%d/attendance", studentID), nil, &a)
	return
}

func (c *Client) GetAttendanceData(ctx context.Context, q AttendanceQuery) (records []attendance.Record, err error) {
	endpoint := withQuery("/attendance", map[string]string{
		"teacherId": itoa(q.TeacherID),
		"studentId": itoa(q.StudentID),
		"date":      q.Date,
	})
	err = c.Do(ctx, http.MethodGet, endpoint, nil, &records)
	return
}

func (c *Client) MarkAttendance(ctx context.Context, m attendance.Mark) (rec attendance.Record, err error) {
	err = c.Do(ctx, http.MethodPost, "/attendance", m, &rec)
	return
}

// Grades

func (c *Client) GetStudentGrades(ctx context.Context, studentID int) (g StudentGrades, err error) {
	err = c.Do(ctx, http.MethodGet, fmt.Sprintf("/students/%d/grades", studentID), nil, &g)
	return
}

func (c *Client) GetGrades(ctx context.Context, q GradeQuery) (grades []grade.Grade, err error) {
	endpoint := withQuery("/grades", map[string]string{
		"teacherId":    itoa(q.TeacherID),
		"studentId":    itoa(q.StudentID),
		"assignmentId": itoa(q.AssignmentID),
	})
	err = c.Do(ctx, http.MethodGet, endpoint, nil, &grades)
	return
}

func (c *Client) AddGrade(ctx context.Context, ng grade.NewGrade) (g grade.Grade, err error) {
	err = c.Do(ctx, http.MethodPost, "/grades", ng, &g)
	return
}

func (c *Client) UpdateGrade(ctx context.Context, gradeID int, ug grade.UpdateGrade) (g grade.Grade, err error) {
	err = c.Do(ctx, http.MethodPut, "/grades/"+itoa(gradeID), ug, &g)
	return
}

// Assignments

func (c *Client) GetStudentAssignments(ctx context.Context, studentID int) (a StudentAssignments, err error) {
	err = c.Do(ctx, http.MethodGet, fmt.Sprintf("/students/%d/assignments", studentID), nil, &a)
	return
}

func (c *Client) GetAssignments(ctx context.Context, teacherID int) (list []assignment.Assignment, err error) {
	err = c.Do(ctx, http.MethodGet, withQuery("/assignments", map[string]string{"teacherId": itoa(teacherID)}), nil, &list)
	return
}

func (c *Client) GetUpcomingAssignments(ctx context.Context, teacherID int) (list []assignment.Assignment, err error) {
	err = c.Do(ctx, http.MethodGet, withQuery("/assignments/upcoming", map[string]string{"teacherId": itoa(teacherID)}), nil, &list)
	return
}

func (c *Client) CreateAssignment(ctx context.Context, na assignment.NewAssignment) (a assignment.Assignment, err error) {
	err = c.Do(ctx, http.MethodPost, "/assignments", na, &a)
	return
}

func (c *Client) UpdateAssignment(ctx context.Context, assignmentID int, ua assignment.UpdateAssignment) (a assignment.Assignment, err error) {
	err = c.Do(ctx, http.MethodPut, "/assignments/"+itoa(assignmentID), ua, &a)
	return
}

func (c *Client) DeleteAssignment(ctx context.Context, assignmentID int) (d AssignmentDeleted, err error) {
	err = c.Do(ctx, http.MethodDelete, "/assignments/"+itoa(assignmentID), nil, &d)
	return
}

func (c *Client) GetSubmissions(ctx context.Context, assignmentID int) (s Submissions, err error) {
	err = c.Do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d/submissions", assignmentID), nil, &s)
	return
}

// Messaging

func (c *Client) GetContacts(ctx context.Context, userID int) (contacts []message.Contact, err error) {
	var resp Contacts
	err = c.Do(ctx, http.MethodGet, withQuery("/messages/contacts", map[string]string{"userId": itoa(userID)}), nil, &resp)
	return resp.Contacts, err
}

func (c *Client) GetMessages(ctx context.Context, chatID int) (msgs []message.Message, err error) {
	err = c.Do(ctx, http.MethodGet, withQuery("/messages", map[string]string{"chatId": itoa(chatID)}), nil, &msgs)
	return
}

func (c *Client) GetRecentMessages(ctx context.Context, userID int) (msgs []message.Message, err error) {
	err = c.Do(ctx, http.MethodGet, withQuery("/messages/recent", map[string]string{"userId": itoa(userID)}), nil, &msgs)
	return
}

func (c *Client) SendMessage(ctx context.Context, nm message.NewMessage) (msg message.Message, err error) {
	err = c.Do(ctx, http.MethodPost, "/messages", nm, &msg)
	return
}

func (c *Client) MarkMessageAsRead(ctx context.Context, messageID int) (msg message.Message, err error) {
	err = c.Do(ctx, http.MethodPut, fmt.Sprintf("/messages/%d/read", messageID), nil, &msg)
	return
}

// Calendar

func (c *Client) GetEvents(ctx context.Context, userID int, role string) (events []event.Event, err error) {
	endpoint := withQuery("/events", map[string]string{"userId": itoa(userID), "role": role})
	err = c.Do(ctx, http.MethodGet, endpoint, nil, &events)
	return
}

func (c *Client) CreateEvent(ctx context.Context, ne event.NewEvent) (e event.Event, err error) {
	err = c.Do(ctx, http.MethodPost, "/events", ne, &e)
	return
}

// News

func (c *Client) GetSchoolNews(ctx context.Context, category string) (items []news.Item, err error) {
	err = c.Do(ctx, http.MethodGet, withQuery("/news", map[string]string{"category": category}), nil, &items)
	return
}

func (c *Client) GetRecentAnnouncements(ctx context.Context) (items []news.Item, err error) {
	err = c.Do(ctx, http.MethodGet, "/news/recent", nil, &items)
	return
}

func (c *Client) CreateAnnouncement(ctx context.Context, ni news.NewItem) (item news.Item, err error) {
	err = c.Do(ctx, http.MethodPost, "/news", ni, &item)
	return
}

func (c *Client) UpdateAnnouncement(ctx context.Context, id int, ui news.UpdateItem) (item news.Item, err error) {
	err = c.Do(ctx, http.MethodPut, "/news/"+itoa(id), ui, &item)
	return
}

func (c *Client) DeleteAnnouncement(ctx context.Context, id int) (d AnnouncementDeleted, err error) {
	err = c.Do(ctx, http.MethodDelete, "/news/"+itoa(id), nil, &d)
	return
}

// Resources

func (c *Client) GetResources(ctx context.Context, userID int) (list []resource.Resource, err error) {
	err = c.Do(ctx, http.MethodGet, withQuery("/resources", map[string]string{"userId": itoa(userID)}), nil, &list)
	return
}

func (c *Client) AddResource(ctx context.Context, nr resource.NewResource) (r resource.Resource, err error) {
	err = c.Do(ctx, http.MethodPost, "/resources", nr, &r)
	return
}

func (c *Client) RequestResource(ctx context.Context, nr resource.NewRequest) (req resource.Request, err error) {
	err = c.Do(ctx, http.MethodPost, "/resources/request", nr, &req)
	return
}

func (c *Client) GetResourceRequests(ctx context.Context) (list []resource.Request, err error) {
	err = c.Do(ctx, http.MethodGet, "/resources/requests", nil, &list)
	return
}

func (c *Client) ResolveResourceRequest(ctx context.Context, id int, res resource.Resolution) (req resource.Request, err error) {
	err = c.Do(ctx, http.MethodPut, "/resources/requests/"+itoa(id), res, &req)
	return
}

// Notifications

func (c *Client) GetNotifications(ctx context.Context, userID int) (list []notification.Notification, err error) {
	err = c.Do(ctx, http.MethodGet, withQuery("/notifications", map[string]string{"userId": itoa(userID)}), nil, &list)
	return
}

func (c *Client) MarkNotificationAsRead(ctx context.Context, id int) (n notification.Notification, err error) {
	err = c.Do(ctx, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), nil, &n)
	return
}

func (c *Client) MarkAllNotificationsAsRead(ctx context.Context, userID int) (list []notification.Notification, err error) {
	err = c.Do(ctx, http.MethodPut, withQuery("/notifications/read-all", map[string]string{"userId": itoa(userID)}), nil, &list)
	return
}

func (c *Client) DeleteNotification(ctx context.Context, id int) (d NotificationDeleted, err error) {
	err = c.Do(ctx, http.MethodDelete, "/notifications/"+itoa(id), nil, &d)
	return
}

func (c *Client) DeleteAllNotifications(ctx context.Context, userID int) (m Message, err error) {
	err = c.Do(ctx, http.MethodDelete, withQuery("/notifications", map[string]string{"userId": itoa(userID)}), nil, &m)
	return
}
