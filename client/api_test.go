package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	dig_container "github.com/trezcool/schoolconnect/apps/api/di/dig"
	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/client"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/message"
	"github.com/trezcool/schoolconnect/core/user"
)

// newAPI serves a freshly seeded School Connect API.
func newAPI(t *testing.T) *client.Client {
	t.Setenv("ENV", "TEST")
	user.HashCost = bcrypt.MinCost

	var server *echoapi.Server
	if err := dig_container.New().Invoke(func(s *echoapi.Server) { server = s }); err != nil {
		t.Fatalf("building server: %v", err)
	}
	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
		_ = server.Shutdown(context.Background())
	})
	return client.New(ts.URL + "/api")
}

func TestClient_parentSession(t *testing.T) {
	c := newAPI(t)
	ctx := context.Background()

	_, err := c.Login(ctx, "parent@example.com", "wrong")
	assert.EqualError(t, err, "Invalid email or password")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	s, err := c.Login(ctx, "parent@example.com", "parent123")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	assert.Equal(t, 2, s.ID)
	token, _ := c.Tokens().Token()
	assert.Equal(t, s.Token, token)

	me, err := c.GetUserData(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "John Doe", me.Name)

	students, err := c.GetStudentsByParent(ctx, me.ID)
	assert.NoError(t, err)
	assert.Len(t, students, 2)

	_, err = c.GetStudentsByParent(ctx, 3)
	assert.True(t, client.IsStatus(err, http.StatusForbidden))

	details, err := c.GetStudentDetails(ctx, 101)
	assert.NoError(t, err)
	assert.Equal(t, "Emma Doe", details.Name)
	assert.Empty(t, details.Notes)

	grades, err := c.GetStudentGrades(ctx, 101)
	assert.NoError(t, err)
	assert.Len(t, grades.Grades, 3)

	msgs, err := c.GetRecentMessages(ctx, me.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, msgs)

	notifs, err := c.GetNotifications(ctx, me.ID)
	assert.NoError(t, err)
	assert.Len(t, notifs, 1)

	assert.NoError(t, c.Logout(ctx))
	token, _ = c.Tokens().Token()
	assert.Empty(t, token)

	_, err = c.GetUserData(ctx)
	assert.EqualError(t, err, "Not authenticated")
}

func TestClient_teacherWorkflow(t *testing.T) {
	c := newAPI(t)
	ctx := context.Background()

	if _, err := c.Login(ctx, "teacher@example.com", "teacher123"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	rec, err := c.MarkAttendance(ctx, attendance.Mark{StudentID: 102, Date: "2023-06-05", Status: attendance.StatusPresent})
	assert.NoError(t, err)
	assert.Equal(t, 102, rec.StudentID)

	records, err := c.GetAttendanceData(ctx, client.AttendanceQuery{StudentID: 102, Date: "2023-06-05"})
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	msg, err := c.SendMessage(ctx, message.NewMessage{RecipientID: 3, Content: "See you at the meeting"})
	assert.NoError(t, err)
	assert.Equal(t, 102, msg.ChatID)

	chat, err := c.GetMessages(ctx, msg.ChatID)
	assert.NoError(t, err)
	assert.Len(t, chat, 2)

	_, err = c.GetMessages(ctx, 0)
	assert.EqualError(t, err, "Chat ID is required")

	res, err := c.DeleteAllNotifications(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "2 notifications deleted successfully", res.Message)
}
