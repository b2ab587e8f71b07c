package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/service"
	"github.com/j4v3l/Duty-Tracker/pkg/response"
)

// PersonnelHandler 人员模块 HTTP 处理器
type PersonnelHandler struct {
	personnelSvc service.PersonnelService
	statsSvc     service.StatsService
}

// NewPersonnelHandler 创建 PersonnelHandler
func NewPersonnelHandler(personnelSvc service.PersonnelService, statsSvc service.StatsService) *PersonnelHandler {
	return &PersonnelHandler{personnelSvc: personnelSvc, statsSvc: statsSvc}
}

// ListPersonnel 获取人员列表（默认仅在岗）
// GET /api/v1/personnel?page=1&page_size=20&include_inactive=false
func (h *PersonnelHandler) ListPersonnel(c *gin.Context) {
	var req dto.PersonnelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	list, total, err := h.personnelSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreatePersonnel 新增人员
// POST /api/v1/personnel
func (h *PersonnelHandler) CreatePersonnel(c *gin.Context) {
	var req dto.CreatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	person, err := h.personnelSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}

	response.Created(c, person)
}

// GetPersonnel 获取人员信息
// GET /api/v1/personnel/:id
func (h *PersonnelHandler) GetPersonnel(c *gin.Context) {
	person, err := h.personnelSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}

	response.OK(c, person)
}

// GetPersonnelDetails 获取人员值班统计详情
// GET /api/v1/personnel/:id/details
func (h *PersonnelHandler) GetPersonnelDetails(c *gin.Context) {
	detail, err := h.statsSvc.PersonnelDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}

	response.OK(c, detail)
}

// DeactivatePersonnel 停用人员（软删除）
// PUT /api/v1/personnel/:id/deactivate
func (h *PersonnelHandler) DeactivatePersonnel(c *gin.Context) {
	person, err := h.personnelSvc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}

	response.OK(c, person)
}

// handlePersonnelError 统一处理人员模块业务错误
func (h *PersonnelHandler) handlePersonnelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, response.CodePersonnelNotFound, "人员不存在")
	default:
		response.InternalError(c)
	}
}
