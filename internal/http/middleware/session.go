package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pitchbridge/internal/http/response"
	"github.com/yungbote/pitchbridge/internal/platform/ctxutil"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
	"github.com/yungbote/pitchbridge/internal/session"
)

const (
	CookieName = "pb_session"

	sessionKey = "pb.session"
)

type SessionConfig struct {
	// TTL is the cookie max-age; zero leaves a browser-session cookie.
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware loads the shell session for each request and persists it
// once the handler is done. Unknown or missing ids start a fresh anonymous
// session, which is only stored once a handler puts something in it.
type SessionMiddleware struct {
	log   *logger.Logger
	store session.Store
	cfg   SessionConfig
}

func NewSessionMiddleware(log *logger.Logger, store session.Store, cfg SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{log: log.With("Middleware", "SessionMiddleware"), store: store, cfg: cfg}
}

func (sm *SessionMiddleware) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *session.Session
		stored := false
		if id := sessionID(c); id != "" {
			s, err := sm.store.Get(ctx, id)
			switch {
			case err == nil:
				sess, stored = s, true
			case errors.Is(err, session.ErrNotFound):
				sm.log.Debug("Unknown session id, starting a new session")
			default:
				sm.log.Error("Session store read failed", "error", err)
				response.RespondError(c, http.StatusServiceUnavailable, "session_unavailable", err)
				c.Abort()
				return
			}
		}
		if sess == nil {
			sess = session.New()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, sess.ID, int(sm.cfg.TTL.Seconds()), "/", "", sm.cfg.Secure, true)

		rd := &ctxutil.RequestData{AccountID: sess.AccountID, SessionID: sess.ID}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(ctx, rd))
		c.Set(sessionKey, sess)

		c.Next()

		rd.AccountID = sess.AccountID
		if !stored && sess.Blank() {
			return
		}
		if err := sm.store.Save(context.WithoutCancel(ctx), sess); err != nil {
			sm.log.Error("Session store write failed", "session_id", sess.ID, "error", err)
		}
	}
}

// SessionFrom returns the request's session. Outside the loader it is a fresh
// anonymous session that is never persisted.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	s := session.New()
	c.Set(sessionKey, s)
	return s
}

func RequireSignedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).SignedIn() {
			response.RespondError(c, http.StatusUnauthorized, "not_signed_in", errors.New("Please sign in first."))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin hides the admin surface from everyone whose loaded profile is
// not flagged is_admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if !sess.SignedIn() {
			response.RespondError(c, http.StatusUnauthorized, "not_signed_in", errors.New("Please sign in first."))
			c.Abort()
			return
		}
		if !sess.IsAdmin() {
			response.RespondError(c, http.StatusForbidden, "admin_only", errors.New("Admin access required."))
			c.Abort()
			return
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
