package handlers

import (
	"github.com/gin-gonic/gin"
	"net/http"

	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/http/response"
	"github.com/yungbote/pitchbridge/internal/services"
)

type ProfileHandler struct {
	profile services.ProfileService
	avatars services.AvatarService
}

func NewProfileHandler(profile services.ProfileService, avatars services.AvatarService) *ProfileHandler {
	return &ProfileHandler{profile: profile, avatars: avatars}
}

// GET /api/profile/ideas
func (ph *ProfileHandler) OwnIdeas(c *gin.Context) {
	response.RespondOK(c, ph.profile.ListOwnIdeas(c.Request.Context(), httpMW.SessionFrom(c)))
}

// GET /api/avatars/:id
func (ph *ProfileHandler) Avatar(c *gin.Context) {
	png, err := ph.avatars.ForProfile(c.Request.Context(), httpMW.SessionFrom(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}
