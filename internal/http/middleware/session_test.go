package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pitchbridge/internal/domain"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

func sessionRouter(store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewSessionMiddleware(logger.Nop(), store, SessionConfig{}).Load())
	r.GET("/whoami", func(c *gin.Context) {
		sess := SessionFrom(c)
		c.String(http.StatusOK, sess.ID)
	})
	r.POST("/touch", func(c *gin.Context) {
		SessionFrom(c).PendingIdeaID = "idea-1"
		c.Status(http.StatusNoContent)
	})
	r.GET("/private", RequireSignedIn(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestSessionLoaderIssuesAndReusesCookie(t *testing.T) {
	store := session.NewMemoryStore(0)
	r := sessionRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/touch", nil))
	ck := sessionCookie(t, rec)
	if !ck.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	saved, err := store.Get(context.Background(), ck.Value)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if saved.PendingIdeaID != "idea-1" {
		t.Fatalf("handler changes not saved: %+v", saved)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(ck)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != ck.Value {
		t.Fatalf("cookie session not reused: %q vs %q", rec.Body.String(), ck.Value)
	}

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+ck.Value)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != ck.Value {
		t.Fatalf("bearer session not reused")
	}
}

func TestSessionLoaderSkipsBlankSessions(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	r := sessionRouter(store)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
	}
	if n := store.Len(); n != 0 {
		t.Fatalf("stored sessions after cookieless GETs = %d, want 0", n)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/touch", nil))
	if n := store.Len(); n != 1 {
		t.Fatalf("stored sessions after touch = %d, want 1", n)
	}
}

func TestSessionLoaderReplacesUnknownID(t *testing.T) {
	r := sessionRouter(session.NewMemoryStore(0))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Body.String(); got == "stale" || got == "" {
		t.Fatalf("stale id kept: %q", got)
	}
}

func TestGates(t *testing.T) {
	store := session.NewMemoryStore(0)
	r := sessionRouter(store)

	user := session.New()
	user.AccessToken, user.AccountID = "tok", "u1"
	user.Profile = &domain.Profile{ID: "u1", Role: domain.RoleInvestor}
	admin := session.New()
	admin.AccessToken, admin.AccountID = "tok", "u2"
	admin.Profile = &domain.Profile{ID: "u2", IsAdmin: true}
	for _, s := range []*session.Session{user, admin} {
		if err := store.Save(context.Background(), s); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	tests := []struct {
		name string
		path string
		sess string
		want int
	}{
		{name: "anonymous_private", path: "/private", want: http.StatusUnauthorized},
		{name: "user_private", path: "/private", sess: user.ID, want: http.StatusOK},
		{name: "anonymous_admin", path: "/admin", want: http.StatusUnauthorized},
		{name: "user_admin", path: "/admin", sess: user.ID, want: http.StatusForbidden},
		{name: "admin_admin", path: "/admin", sess: admin.ID, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.sess != "" {
				req.Header.Set("Authorization", "Bearer "+tt.sess)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status=%d want %d", rec.Code, tt.want)
			}
		})
	}
}
