package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/service"
	pkgerrors "github.com/j4v3l/Duty-Tracker/pkg/errors"
	"github.com/j4v3l/Duty-Tracker/pkg/response"
)

// AssignmentHandler 值班分配 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListAssignments 获取值班分配列表
// GET /api/v1/assignments?duty_date=2024-01-15&page=1&page_size=20
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	list, total, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreateAssignment 手工录入值班分配
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, assignment)
}

// handleAssignmentError 统一处理值班分配业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDutyDate):
		response.BadRequest(c, response.CodeInvalidDutyDate, "值班日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, response.CodePersonnelNotFound, "人员不存在")
	case errors.Is(err, service.ErrPersonnelInactive):
		response.BadRequest(c, response.CodePersonnelInactive, "人员已停用")
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, response.CodePostNotFound, "岗位不存在")
	case errors.Is(err, service.ErrAssignmentExists):
		response.Conflict(c, response.CodeAssignmentExists, "该人员当日已分配到此岗位")
	case errors.Is(err, pkgerrors.ErrMutationBusy):
		response.Conflict(c, response.CodeMutationBusy, "公平性数据正在被其他操作更新，请稍后重试")
	default:
		response.InternalError(c)
	}
}
