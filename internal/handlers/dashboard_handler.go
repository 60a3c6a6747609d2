package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/consultapp/internal/httpresp"
	"github.com/BruksfildServices01/consultapp/internal/middleware"
	ucDashboard "github.com/BruksfildServices01/consultapp/internal/usecase/dashboard"
)

type DashboardHandler struct {
	dashboard *ucDashboard.GetDashboard
}

func NewDashboardHandler(dashboard *ucDashboard.GetDashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	out, err := h.dashboard.Execute(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fail(c, err, nil, "failed_to_get_dashboard")
		return
	}

	httpresp.OK(c, out)
}
