package handlers

import (
	"github.com/gin-gonic/gin"
	"net/http"

	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/http/response"
	"github.com/yungbote/pitchbridge/internal/services"
)

type FeedHandler struct {
	feed services.FeedService
}

func NewFeedHandler(feed services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// GET /api/feed
func (fh *FeedHandler) List(c *gin.Context) {
	response.RespondOK(c, fh.feed.ListFeed(c.Request.Context(), httpMW.SessionFrom(c)))
}

// POST /api/ideas
// body: { "title", "body", "funding_ask", "category" }
func (fh *FeedHandler) Create(c *gin.Context) {
	var req services.IdeaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := fh.feed.CreateIdea(c.Request.Context(), httpMW.SessionFrom(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/ideas/:id/like
func (fh *FeedHandler) Like(c *gin.Context) {
	res, err := fh.feed.LikeIdea(c.Request.Context(), httpMW.SessionFrom(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, res)
}
