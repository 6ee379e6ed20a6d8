package handlers

import (
	"github.com/gin-gonic/gin"
	"net/http"

	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/http/response"
	"github.com/yungbote/pitchbridge/internal/services"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GET /api/session
// Re-enters the app from the stored session, or reports the landing page.
func (sh *SessionHandler) Current(c *gin.Context) {
	view, err := sh.sessions.Restore(c.Request.Context(), httpMW.SessionFrom(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	if view == nil {
		response.RespondOK(c, gin.H{"view": services.ViewLanding})
		return
	}
	response.RespondOK(c, view)
}

// POST /api/auth/signup
// body: { "name", "email", "password", "role" }
func (sh *SessionHandler) SignUp(c *gin.Context) {
	var req services.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := sh.sessions.SignUp(c.Request.Context(), httpMW.SessionFrom(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/auth/login
func (sh *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := sh.sessions.SignIn(c.Request.Context(), httpMW.SessionFrom(c), req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/auth/logout
func (sh *SessionHandler) Logout(c *gin.Context) {
	response.RespondOK(c, sh.sessions.SignOut(c.Request.Context(), httpMW.SessionFrom(c)))
}
