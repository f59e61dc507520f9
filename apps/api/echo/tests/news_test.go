package tests

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/core/event"
	"github.com/trezcool/schoolconnect/core/news"
	"github.com/trezcool/schoolconnect/core/user"
	"github.com/trezcool/schoolconnect/tests"
)

func Test_eventApi_query(t *testing.T) {
	f := setup(t)
	admin := testutil.CreateUser(t, f.usrRepo, "Principal Skinner", "admin@example.com", "", user.RoleAdmin)

	type extraTest struct {
		count int
	}
	tests := []httpTest{
		{
			name: "someone else's events", path: "/api/events?userId=1", token: f.token(t, f.parent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to access these events"}),
		},
		{name: "teacher", path: "/api/events", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: extraTest{count: 4}},
		{name: "parent", path: "/api/events?userId=2", token: f.token(t, f.parent), wantCode: http.StatusOK, extra: extraTest{count: 3}},
		{name: "role param", path: "/api/events?role=parent", token: f.token(t, f.teacher), wantCode: http.StatusOK, extra: extraTest{count: 3}},
		// admins are not an event audience
		{name: "admin", path: "/api/events", token: f.token(t, admin), wantCode: http.StatusOK, wantData: []byte("[]")},
		{name: "admin as teacher", path: "/api/events?role=teachers", token: f.token(t, admin), wantCode: http.StatusOK, extra: extraTest{count: 4}},
		{name: "unknown role", path: "/api/events?role=janitor", token: f.token(t, f.teacher), wantCode: http.StatusOK, wantData: []byte("[]")},
		{name: "malformed user id", path: "/api/events?userId=me", token: f.token(t, f.teacher), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "Invalid ID"})},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, tt)
			if extra, ok := tt.extra.(extraTest); ok {
				var events []event.Event
				unmarshal(t, rec, &events)
				if len(events) != extra.count {
					t.Fatalf("failed! len(events) = %d; want %d", len(events), extra.count)
				}
				for i := 1; i < len(events); i++ {
					if events[i].StartTime.Before(events[i-1].StartTime) {
						t.Error("failed! events not sorted by start time")
					}
				}
			}
		})
	}
}

func Test_eventApi_create(t *testing.T) {
	f := setup(t)

	start := time.Date(2099, 9, 1, 8, 0, 0, 0, time.UTC)
	valid := event.NewEvent{Title: "First Day", StartTime: start, EndTime: start.Add(8 * time.Hour), Audience: []string{event.AudienceParents}}
	backwards := valid
	backwards.EndTime = start.Add(-time.Hour)
	noAudience := valid
	noAudience.Audience = nil

	tests := []httpTest{
		{
			name: "parent not allowed", token: f.token(t, f.parent), body: marchallObj(t, valid),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to create events"}),
		},
		{name: "ends before it starts", token: f.token(t, f.teacher), body: marchallObj(t, backwards), wantCode: http.StatusBadRequest},
		{name: "no audience", token: f.token(t, f.teacher), body: marchallObj(t, noAudience), wantCode: http.StatusBadRequest},
		{name: "created", token: f.token(t, f.teacher), body: marchallObj(t, valid), wantCode: http.StatusCreated, extra: true},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/events"

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, tt)
			if _, ok := tt.extra.(bool); ok {
				var e event.Event
				unmarshal(t, rec, &e)
				if e.ID == 0 || e.CreatedBy != teacherID || e.Type != event.TypeOther || !e.StartTime.Equal(start) {
					t.Errorf("failed! event = %+v", e)
				}
			}
		})
	}

	rec := f.serve(t, httpTest{method: http.MethodGet, path: "/api/events", token: f.token(t, f.parent), wantCode: http.StatusOK})
	var events []event.Event
	unmarshal(t, rec, &events)
	if len(events) != 4 || events[3].Title != "First Day" {
		t.Errorf("failed! parent events = %+v", events)
	}
}

func Test_newsApi_query(t *testing.T) {
	f := setup(t)

	type extraTest struct {
		count int
	}
	tests := []httpTest{
		{name: "public", path: "/api/news", wantCode: http.StatusOK, extra: extraTest{count: 4}},
		{name: "by category", path: "/api/news?category=Announcement", wantCode: http.StatusOK, extra: extraTest{count: 2}},
		{name: "unknown category", path: "/api/news?category=gossip", wantCode: http.StatusOK, wantData: []byte("[]")},
		{name: "recent", path: "/api/news/recent", wantCode: http.StatusOK, extra: extraTest{count: 2}},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, tt)
			if extra, ok := tt.extra.(extraTest); ok {
				var items []news.Item
				unmarshal(t, rec, &items)
				if len(items) != extra.count {
					t.Fatalf("failed! len(items) = %d; want %d", len(items), extra.count)
				}
				for i := 1; i < len(items); i++ {
					if items[i].PublishDate > items[i-1].PublishDate {
						t.Error("failed! items not sorted by publish date")
					}
				}
			}
		})
	}
}

func Test_newsApi_manage(t *testing.T) {
	f := setup(t)
	admin := testutil.CreateUser(t, f.usrRepo, "Principal Skinner", "admin@example.com", "", user.RoleAdmin)
	other := testutil.CreateUser(t, f.usrRepo, "Tom Brown", "tom@example.com", "", user.RoleTeacher)

	var item news.Item
	t.Run("publish", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/news", body: marchallObj(t, news.NewItem{Title: "Bake sale", Content: "Friday", Category: news.CategoryEvent}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		})
		f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/news", token: f.token(t, f.parent),
			body: marchallObj(t, news.NewItem{Title: "Bake sale"}), wantCode: http.StatusBadRequest,
		})
		f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/news", token: f.token(t, f.parent),
			body:     marchallObj(t, news.NewItem{Title: "Bake sale", Content: "Friday", Category: news.CategoryEvent}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to create announcements"}),
		})
		f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/news", token: f.token(t, f.teacher),
			body: marchallObj(t, news.NewItem{Title: "Bake sale", Content: "Friday", Category: "rumour"}), wantCode: http.StatusBadRequest,
		})

		rec := f.serve(t, httpTest{
			method: http.MethodPost, path: "/api/news", token: f.token(t, f.teacher),
			body: marchallObj(t, news.NewItem{Title: "Bake sale", Content: "Friday", Category: news.CategoryEvent}), wantCode: http.StatusCreated,
		})
		unmarshal(t, rec, &item)
		if item.ID == 0 || item.Author != "Jane Smith" || item.AuthorID != teacherID || item.PublishDate == "" {
			t.Errorf("failed! item = %+v", item)
		}
	})

	path := "/api/news/" + strconv.Itoa(item.ID)
	t.Run("update", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodPut, path: path, token: f.token(t, other), body: []byte(`{"title":"Mine"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to update this announcement"}),
		})
		// seeded items have no author account
		f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/news/1", token: f.token(t, f.teacher), body: []byte(`{"title":"Mine"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to update this announcement"}),
		})
		f.serve(t, httpTest{
			method: http.MethodPut, path: "/api/news/1", token: f.token(t, admin), body: []byte(`{"featured":false}`), wantCode: http.StatusOK,
		})

		rec := f.serve(t, httpTest{
			method: http.MethodPut, path: path, token: f.token(t, f.teacher), body: []byte(`{"title":"Big bake sale","featured":true}`), wantCode: http.StatusOK,
		})
		var updated news.Item
		unmarshal(t, rec, &updated)
		if updated.Title != "Big bake sale" || !updated.Featured || updated.Content != "Friday" {
			t.Errorf("failed! item = %+v", updated)
		}
	})

	t.Run("delete", func(t *testing.T) {
		f.serve(t, httpTest{
			method: http.MethodDelete, path: path, token: f.token(t, f.parent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "Forbidden: not authorized to delete this announcement"}),
		})

		rec := f.serve(t, httpTest{method: http.MethodDelete, path: path, token: f.token(t, f.teacher), wantCode: http.StatusOK})
		var resp echoapi.NewsDeletedResponse
		unmarshal(t, rec, &resp)
		if resp.Message != "Announcement deleted successfully" || resp.Announcement.ID != item.ID {
			t.Errorf("failed! response = %+v", resp)
		}

		f.serve(t, httpTest{
			method: http.MethodDelete, path: path, token: f.token(t, admin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Announcement not found"}),
		})
	})
}
