package handlers

import (
	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/http/response"
	"github.com/yungbote/pitchbridge/internal/services"
)

type DirectoryHandler struct {
	directory services.DirectoryService
}

func NewDirectoryHandler(directory services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// GET /api/investors
func (dh *DirectoryHandler) List(c *gin.Context) {
	response.RespondOK(c, dh.directory.Directory(c.Request.Context(), httpMW.SessionFrom(c)))
}

// GET /api/investors/preview
func (dh *DirectoryHandler) Preview(c *gin.Context) {
	response.RespondOK(c, dh.directory.Sidebar(c.Request.Context(), httpMW.SessionFrom(c)))
}

// POST /api/investors/:id/connect
// body: { "name": "<display name for the notice>" }
func (dh *DirectoryHandler) Connect(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// the name only feeds the notice; an empty body is fine
	_ = c.ShouldBindJSON(&req)
	res, err := dh.directory.Connect(c.Request.Context(), httpMW.SessionFrom(c), c.Param("id"), req.Name)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, res)
}
