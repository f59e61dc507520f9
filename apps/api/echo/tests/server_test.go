package tests

import (
	"net/http"
	"strings"
	"testing"
)

func TestServer_routes(t *testing.T) {
	f := setup(t)

	t.Run("home", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/")
		f.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != "Welcome to School Connect API!" {
			t.Errorf("failed! code = %v; body %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("health", func(t *testing.T) {
		f.serve(t, httpTest{method: http.MethodGet, path: "/health", wantCode: http.StatusOK, wantData: []byte(`{"status":"ok"}`)})
	})

	t.Run("trailing slash", func(t *testing.T) {
		f.serve(t, httpTest{method: http.MethodGet, path: "/api/news/", wantCode: http.StatusOK})
	})

	t.Run("unknown route", func(t *testing.T) {
		f.serve(t, httpTest{method: http.MethodGet, path: "/api/nothing", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Not Found"})})
	})

	t.Run("cors", func(t *testing.T) {
		req, rec := newRequest(http.MethodOptions, "/api/news")
		req.Header.Set("Origin", "http://localhost:19006")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		f.app.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:19006" {
			t.Errorf("failed! Access-Control-Allow-Origin = %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("failed! Access-Control-Allow-Credentials = %q", got)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		f.serve(t, httpTest{method: http.MethodGet, path: "/api/user", wantCode: http.StatusUnauthorized})
		rec := f.serve(t, httpTest{method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK})
		body := rec.Body.String()
		for _, want := range []string{
			`schoolconnect_http_requests_total{method="GET",route="/health",status="200"} 1`,
			`schoolconnect_http_requests_total{method="GET",route="/api/user",status="401"} 1`,
			"go_goroutines",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("metrics do not contain %q", want)
			}
		}
	})
}
