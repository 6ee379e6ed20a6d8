package handlers

import (
	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/pitchbridge/internal/http/middleware"
	"github.com/yungbote/pitchbridge/internal/http/response"
	"github.com/yungbote/pitchbridge/internal/services"
)

// AdminHandler assumes RequireAdmin ran first.
type AdminHandler struct {
	admin services.AdminService
}

func NewAdminHandler(admin services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// GET /api/admin/dashboard
func (ah *AdminHandler) Dashboard(c *gin.Context) {
	response.RespondOK(c, ah.admin.LoadDashboard(c.Request.Context(), httpMW.SessionFrom(c)))
}

// POST /api/admin/investors/:id/approve
// body: { "name" }
func (ah *AdminHandler) Approve(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	_ = c.ShouldBindJSON(&req)
	res, err := ah.admin.ApproveInvestor(c.Request.Context(), httpMW.SessionFrom(c), c.Param("id"), req.Name)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/admin/investors/:id/deny
func (ah *AdminHandler) Deny(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	_ = c.ShouldBindJSON(&req)
	response.RespondOK(c, ah.admin.DenyInvestor(c.Request.Context(), httpMW.SessionFrom(c), c.Param("id"), req.Name))
}

// POST /api/admin/connect-requests/:id/schedule
// body: { "from", "to" }
func (ah *AdminHandler) Schedule(c *gin.Context) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	_ = c.ShouldBindJSON(&req)
	res, err := ah.admin.ScheduleCall(c.Request.Context(), httpMW.SessionFrom(c), c.Param("id"), req.From, req.To)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, res)
}
