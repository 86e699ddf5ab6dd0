package handlers

import (
	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// TenantDashboard 租户经营看板
func (h *ReportHandler) TenantDashboard(c *gin.Context) {
	dashboard, err := h.service.GetTenantDashboard(middleware.MustGetTenantID(c))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, dashboard)
}

// PlatformOverview 平台总览
// 仅返回聚合数字，不下钻任何租户的明细行
func (h *ReportHandler) PlatformOverview(c *gin.Context) {
	overview, err := h.service.GetPlatformOverview()
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, overview)
}
