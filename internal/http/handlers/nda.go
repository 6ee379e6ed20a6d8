package handlers

import (
	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/http/response"
	"github.com/yungbote/pitchbridge/internal/services"
)

type NDAHandler struct {
	nda services.NDAService
}

func NewNDAHandler(nda services.NDAService) *NDAHandler {
	return &NDAHandler{nda: nda}
}

// POST /api/ideas/:id/access
// body (optional): { "owner_id": "<idea owner>" }
func (nh *NDAHandler) Open(c *gin.Context) {
	var req struct {
		OwnerID string `json:"owner_id"`
	}
	_ = c.ShouldBindJSON(&req)
	modal, err := nh.nda.OpenModal(c.Request.Context(), httpMW.SessionFrom(c), c.Param("id"), req.OwnerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, modal)
}

// POST /api/nda/confirm
// body: { "acknowledged": true }
func (nh *NDAHandler) Confirm(c *gin.Context) {
	var req struct {
		Acknowledged bool `json:"acknowledged"`
	}
	_ = c.ShouldBindJSON(&req)
	res, err := nh.nda.Confirm(c.Request.Context(), httpMW.SessionFrom(c), req.Acknowledged)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/nda/modal
func (nh *NDAHandler) Close(c *gin.Context) {
	response.RespondOK(c, nh.nda.CloseModal(c.Request.Context(), httpMW.SessionFrom(c)))
}
