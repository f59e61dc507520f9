package dig_container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/user"
)

func TestNew(t *testing.T) {
	t.Setenv("ENV", "TEST")
	c := New()

	err := c.Invoke(func(conf *core.Config, sqlParam SQLParam, usrSvc *user.Service, mailSvc core.EmailService, server *echoapi.Server) {
		defer func() { _ = server.Shutdown(context.Background()) }()

		if !conf.TestMode || conf.Database.Engine != core.EngineMemory {
			t.Errorf("unexpected config: testMode %v, engine %q", conf.TestMode, conf.Database.Engine)
		}
		if sqlParam.DB != nil {
			t.Error("memory engine must not open a SQL database")
		}
		if mailSvc == nil {
			t.Error("no email service")
		}

		usr, err := usrSvc.GetByEmail(context.Background(), "teacher@example.com")
		if err != nil || usr.ID != 1 {
			t.Errorf("seeded teacher = %+v, err %v", usr, err)
		}

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET /health code = %d", rec.Code)
		}
	})
	if err != nil {
		t.Fatalf("c.Invoke() failed: %v", err)
	}
}
