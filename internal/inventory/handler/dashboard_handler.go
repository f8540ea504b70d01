package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quayside/stockpilot/internal/inventory/service"
)

type DashboardHandler struct {
	svc    *service.DashboardService
	report *service.ReportService
}

func NewDashboardHandler(svc *service.DashboardService, report *service.ReportService) *DashboardHandler {
	return &DashboardHandler{svc: svc, report: report}
}

// Stats GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to compute dashboard stats: "+err.Error())
		return
	}
	Success(c, stats)
}

// ExportInventory GET /api/v1/reports/inventory
func (h *DashboardHandler) ExportInventory(c *gin.Context) {
	f, filename, err := h.report.ExportInventory(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to build inventory report: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// ExportOrders GET /api/v1/reports/purchase-orders
func (h *DashboardHandler) ExportOrders(c *gin.Context) {
	f, filename, err := h.report.ExportOrders(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to build order report: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
