package handlers

import (
	"fmt"

	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/pagination"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateExportRequest struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
}

// ExportHandler 审计导出任务
// 创建后轮询状态，完成后下载CSV
type ExportHandler struct {
	service *services.ExportService
	audit   *services.AuditService
}

func NewExportHandler(service *services.ExportService, audit *services.AuditService) *ExportHandler {
	return &ExportHandler{
		service: service,
		audit:   audit,
	}
}

// Create 创建导出任务
func (h *ExportHandler) Create(c *gin.Context) {
	var req CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	userID := middleware.MustGetUserID(c)

	job, err := h.service.CreateJob(tenantID, userID, services.ExportParams{
		From:         req.From,
		To:           req.To,
		Action:       req.Action,
		ResourceType: req.ResourceType,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(userID, &tenantID, "audit:export", "export_job",
		job.ID, c.GetString("request_id"), nil)

	response.Success(c, job)
}

// List 导出任务列表
func (h *ExportHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)
	pageParams := pagination.ParsePageParams(c)

	jobs, total, err := h.service.ListJobs(tenantID, pageParams)
	if err != nil {
		response.AppError(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, jobs, pageInfo)
}

// GetByID 查询导出任务状态
func (h *ExportHandler) GetByID(c *gin.Context) {
	job, err := h.service.GetJob(middleware.MustGetTenantID(c), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, job)
}

// Download 下载导出文件
func (h *ExportHandler) Download(c *gin.Context) {
	id := c.Param("id")
	filePath, err := h.service.FilePath(middleware.MustGetTenantID(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="audit-%s.csv"`, id))
	c.File(filePath)
}

// Cancel 取消导出任务
func (h *ExportHandler) Cancel(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)
	job, err := h.service.CancelJob(tenantID, c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessWithMessage(c, "任务已取消", job)
}
