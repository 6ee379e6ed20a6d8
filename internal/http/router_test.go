package http

import (
	"bytes"
	"strings"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pitchbridge/internal/backend/backendtest"
	"github.com/yungbote/pitchbridge/internal/domain"
	httpH "github.com/yungbote/pitchbridge/internal/http/handlers"
	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/observability"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/services"
	"github.com/yungbote/pitchbridge/internal/session"
)

type testShell struct {
	t      *testing.T
	engine *gin.Engine
	fake   *backendtest.Fake
}

func newTestShell(t *testing.T) *testShell {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	fake := backendtest.New(t)

	feed := services.NewFeedService(log, fake, services.FeedOptions{})
	directory := services.NewDirectoryService(log, fake)
	avatars, err := services.NewAvatarService(log, fake)
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	engine := NewRouter(RouterConfig{
		Log:               log,
		SessionMiddleware: httpMW.NewSessionMiddleware(log, session.NewMemoryStore(0), httpMW.SessionConfig{}),
		HealthHandler:     httpH.NewHealthHandler("sql"),
		SessionHandler:    httpH.NewSessionHandler(services.NewSessionService(log, fake, feed, directory)),
		FeedHandler:       httpH.NewFeedHandler(feed),
		DirectoryHandler:  httpH.NewDirectoryHandler(directory),
		ProfileHandler:    httpH.NewProfileHandler(services.NewProfileService(log, fake), avatars),
		NDAHandler:        httpH.NewNDAHandler(services.NewNDAService(log, fake)),
		AdminHandler:      httpH.NewAdminHandler(services.NewAdminService(log, fake)),
	})
	return &testShell{t: t, engine: engine, fake: fake}
}

// do sends body as JSON with the given session cookie and returns the
// recorder plus the session id the response carried.
func (s *testShell) do(method, path, sid string, body any) (*httptest.ResponseRecorder, string) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: httpMW.CookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == httpMW.CookieName {
			sid = ck.Value
		}
	}
	return rec, sid
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestSignUpFeedLogoutFlow(t *testing.T) {
	s := newTestShell(t)

	rec, sid := s.do(http.MethodGet, "/api/session", "", nil)
	if rec.Code != http.StatusOK || decode[map[string]any](t, rec)["view"] != services.ViewLanding {
		t.Fatalf("anonymous session: %d %s", rec.Code, rec.Body.String())
	}

	rec, sid = s.do(http.MethodPost, "/api/auth/signup", sid, services.SignUpInput{
		Name: "Ada Lovelace", Email: "ada@example.com", Password: "secret123", Role: "entrepreneur",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup: %d %s", rec.Code, rec.Body.String())
	}
	entry := decode[services.EntryView](t, rec)
	if entry.View != services.ViewApp || entry.Notice != "👋 Welcome back, Ada!" || !entry.Capabilities.PostIdeas {
		t.Fatalf("entry %+v", entry)
	}

	rec, _ = s.do(http.MethodPost, "/api/ideas", sid, services.IdeaInput{Title: "Solar kites", Body: "Wind + sun"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create idea: %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = s.do(http.MethodGet, "/api/feed", sid, nil)
	feed := decode[services.FeedView](t, rec)
	if rec.Code != http.StatusOK || len(feed.Ideas) != 1 || feed.Ideas[0].OwnerName != "Ada Lovelace" {
		t.Fatalf("feed: %d %+v", rec.Code, feed)
	}

	rec, _ = s.do(http.MethodGet, "/api/session", sid, nil)
	if rec.Code != http.StatusOK || decode[services.EntryView](t, rec).View != services.ViewApp {
		t.Fatalf("restore: %s", rec.Body.String())
	}

	rec, _ = s.do(http.MethodPost, "/api/auth/logout", sid, nil)
	if out := decode[services.SignOutView](t, rec); out.Notice != services.NoticeLoggedOut {
		t.Fatalf("logout %+v", out)
	}

	rec, _ = s.do(http.MethodGet, "/api/feed", sid, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("feed after logout: %d", rec.Code)
	}
}

func TestSignUpValidationReturnsForm(t *testing.T) {
	s := newTestShell(t)
	rec, _ := s.do(http.MethodPost, "/api/auth/signup", "", services.SignUpInput{Email: "a@b.co", Password: "secret123"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	var env struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
		Form services.FormState `json:"form"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "missing_fields" || env.Error.Message != services.MsgMissingFields {
		t.Fatalf("error %+v", env.Error)
	}
	if !env.Form.Enabled || env.Form.Label != services.SignUpLabel {
		t.Fatalf("form %+v", env.Form)
	}
	if s.fake.Total() != 0 {
		t.Fatalf("validation failure reached the backend")
	}
}

func TestAdminGate(t *testing.T) {
	s := newTestShell(t)
	user := backendtest.SeedAccount(t, s.fake, domain.Profile{FullName: "Ivy", Role: domain.RoleInvestor})
	admin := backendtest.SeedAccount(t, s.fake, domain.Profile{FullName: "Root", Role: domain.RoleEntrepreneur, IsAdmin: true})

	login := func(email string) string {
		rec, sid := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": backendtest.Password})
		if rec.Code != http.StatusOK {
			t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
		}
		return sid
	}

	rec, _ := s.do(http.MethodGet, "/api/admin/dashboard", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous dashboard: %d", rec.Code)
	}

	rec, _ = s.do(http.MethodGet, "/api/admin/dashboard", login(user.Profile.Email), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin dashboard: %d", rec.Code)
	}

	adminSID := login(admin.Profile.Email)
	rec, _ = s.do(http.MethodGet, "/api/admin/dashboard", adminSID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin dashboard: %d %s", rec.Code, rec.Body.String())
	}
	if d := decode[services.Dashboard](t, rec); d.PendingCount != 1 || d.UserCount != 2 {
		t.Fatalf("dashboard %+v", d)
	}

	rec, _ = s.do(http.MethodPost, "/api/admin/investors/"+user.Profile.ID+"/approve", adminSID, map[string]string{"name": "Ivy"})
	if res := decode[services.AdminResult](t, rec); rec.Code != http.StatusOK || res.Notice != "✅ Ivy is now verified!" {
		t.Fatalf("approve: %d %s", rec.Code, rec.Body.String())
	}
}

func TestOwnIdeaAccessIsForbidden(t *testing.T) {
	s := newTestShell(t)
	owner := backendtest.SeedAccount(t, s.fake, domain.Profile{FullName: "Bo", Role: domain.RoleBoth})
	idea := backendtest.SeedIdea(t, s.fake, domain.Idea{UserID: owner.Profile.ID, Title: "t", Body: "b"})

	_, sid := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": owner.Profile.Email, "password": backendtest.Password})
	rec, _ := s.do(http.MethodPost, "/api/ideas/"+idea+"/access", sid, map[string]string{"owner_id": owner.Profile.ID})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d %s", rec.Code, rec.Body.String())
	}
}

func TestAvatarServesPNG(t *testing.T) {
	s := newTestShell(t)
	acct := backendtest.SeedAccount(t, s.fake, domain.Profile{FullName: "Ada", Role: domain.RoleEntrepreneur})
	_, sid := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": acct.Profile.Email, "password": backendtest.Password})

	rec, _ := s.do(http.MethodGet, "/api/avatars/"+acct.Profile.ID, sid, nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("avatar: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Metrics:       observability.NewMetrics(),
		HealthHandler: httpH.NewHealthHandler("rest"),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || decode[map[string]string](t, rec)["backend"] != "rest" {
		t.Fatalf("healthcheck: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `pitchbridge_http_requests_total{method="GET",route="/healthcheck",status="200"} 1`) {
		t.Fatalf("metrics:\n%s", rec.Body.String())
	}
}
