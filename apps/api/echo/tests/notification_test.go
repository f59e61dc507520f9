package tests

import (
	"net/http"
	"testing"

	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/core/notification"
)

func Test_notificationApi(t *testing.T) {
	f := setup(t)
	token := f.token(t, f.teacher)

	list := func(t *testing.T) []notification.Notification {
		rec := f.serve(t, httpTest{method: http.MethodGet, path: "/api/notifications", token: token, wantCode: http.StatusOK})
		var l []notification.Notification
		unmarshal(t, rec, &l)
		return l
	}

	t.Run("query", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodGet, path: "/api/notifications?userId=2", token: token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to access these notifications"}),
		})
		l := list(t)
		// newest first
		if len(l) != 2 || l[0].ID != 3 || l[1].ID != 1 {
			t.Errorf("failed! notifications = %+v", l)
		}
	})

	t.Run("mark read", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/notifications/2/read", token: token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to modify this notification"}),
		})
		f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/notifications/999/read", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Notification not found"}),
		})

		rec := f.serve(t, httpTest{method: http.MethodPut, path: "/api/notifications/1/read", token: token, wantCode: http.StatusOK})
		var n notification.Notification
		unmarshal(t, rec, &n)
		if n.ID != 1 || !n.Read {
			t.Errorf("failed! notification = %+v", n)
		}
	})

	t.Run("mark all read", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/notifications/read-all?userId=2", token: token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to modify these notifications"}),
		})
		rec := f.serve(t, httpTest{method: http.MethodPut, path: "/api/notifications/read-all", token: token, wantCode: http.StatusOK})
		var l []notification.Notification
		unmarshal(t, rec, &l)
		for _, n := range l {
			if !n.Read {
				t.Errorf("failed! notification %d is unread", n.ID)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodDelete, path: "/api/notifications/2", token: token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to delete this notification"}),
		})

		rec := f.serve(t, httpTest{method: http.MethodDelete, path: "/api/notifications/3", token: token, wantCode: http.StatusOK})
		var resp echoapi.NotificationDeletedResponse
		unmarshal(t, rec, &resp)
		if resp.Message != "Notification deleted successfully" || resp.Notification.ID != 3 {
			t.Errorf("failed! response = %+v", resp)
		}
		if l := list(t); len(l) != 1 {
			t.Errorf("failed! len(notifications) = %d; want 1", len(l))
		}
	})

	t.Run("delete all", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodDelete, path: "/api/notifications?userId=2", token: token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to delete these notifications"}),
		})
		f.serve(t, httpTest{
			method: http.MethodDelete, path: "/api/notifications", token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, echoapi.MessageResponse{Message: "1 notifications deleted successfully"}),
		})
		f.serve(t, httpTest{method: http.MethodGet, path: "/api/notifications", token: token, wantCode: http.StatusOK, wantData: []byte("[]")})
	})
}
