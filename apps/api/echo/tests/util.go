package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/core"
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
	"github.com/trezcool/schoolconnect/services/email"
	"github.com/trezcool/schoolconnect/services/realtime"
	"github.com/trezcool/schoolconnect/services/session"
	inmemdb "github.com/trezcool/schoolconnect/storage/database/inmem"
	"github.com/trezcool/schoolconnect/tests"
)

// seeded users
const (
	teacherID = 1
	parentID  = 2
	parent2ID = 3

	emmaID    = 101
	michaelID = 102
)

var errMissingToken = httpErr{Message: "Not authenticated"}

type fixture struct {
	conf    *core.Config
	app     *echoapi.Server
	hub     *realtime.Hub
	mailSvc *emailsvc.ConsoleServiceMock

	usrRepo  user.Repository
	usrSvc   *user.Service
	notifSvc *notification.Service

	teacher user.User
	parent  user.User
	parent2 user.User
}

// setup builds a server backed by a freshly seeded DB.
func setup(t *testing.T) *fixture {
	t.Helper()
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)
	validate, translator := testutil.NewValidator()
	db := testutil.NewDB(t, true)

	// set up repos & services
	usrRepo := inmemdb.NewUserRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc := user.NewService(usrRepo, mailSvc)
	studentSvc := student.NewService(inmemdb.NewStudentRepository(db))
	notifSvc := notification.NewService(inmemdb.NewNotificationRepository(db))
	metrics := echoapi.NewMetrics()
	hub := realtime.NewHub(logger, realtime.WithMetrics(metrics))

	app := echoapi.NewServer(&echoapi.Options{
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		Sessions:        sessionsvc.NewMemoryStore(),
		Hub:             hub,
		Metrics:         metrics,
		UserSvc:         usrSvc,
		StudentSvc:      studentSvc,
		AttendanceSvc:   attendance.NewService(inmemdb.NewAttendanceRepository(db)),
		GradeSvc:        grade.NewService(inmemdb.NewGradeRepository(db)),
		AssignmentSvc:   assignment.NewService(inmemdb.NewAssignmentRepository(db), studentSvc),
		MessageSvc:      message.NewService(inmemdb.NewMessageRepository(db), usrSvc),
		EventSvc:        event.NewService(inmemdb.NewEventRepository(db)),
		NewsSvc:         news.NewService(inmemdb.NewNewsRepository(db)),
		ResourceSvc:     resource.NewService(inmemdb.NewResourceRepository(db)),
		NotificationSvc: notifSvc,
	})
	t.Cleanup(func() {
		_ = app.Shutdown(context.Background())
	})

	f := &fixture{
		conf:     conf,
		app:      app,
		hub:      hub,
		mailSvc:  mailSvc,
		usrRepo:  usrRepo,
		usrSvc:   usrSvc,
		notifSvc: notifSvc,
	}
	f.teacher = f.getUser(t, teacherID)
	f.parent = f.getUser(t, parentID)
	f.parent2 = f.getUser(t, parent2ID)
	return f
}

func (f *fixture) getUser(t *testing.T, id int) user.User {
	usr, err := f.usrSvc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("getUser(%d) failed: %v", id, err)
	}
	return usr
}

func (f *fixture) token(t *testing.T, usr user.User) string {
	return getToken(t, f.conf, usr)
}

// serve runs tt against the server and checks the response code and, when set, its data.
func (f *fixture) serve(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	f.app.ServeHTTP(rec, req)
	if tt.wantData == nil {
		if rec.Code != tt.wantCode {
			t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
		}
	} else {
		checkCodeAndData(t, tt, rec)
	}
	return rec
}

type httpErr struct {
	Message string `json:"message"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	claims := echoapi.NewUserClaims(usr, conf)
	token, err := echoapi.GenerateToken(claims, conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	if _, ok := j2.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
