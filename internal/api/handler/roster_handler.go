package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/service"
	pkgerrors "github.com/j4v3l/Duty-Tracker/pkg/errors"
	"github.com/j4v3l/Duty-Tracker/pkg/response"
)

// RosterHandler 群聊名册导入 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ImportRoster 解析群聊文本并写入值班分配
// POST /api/v1/roster/import
func (h *RosterHandler) ImportRoster(c *gin.Context) {
	var req dto.ImportRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.ImportChat(c.Request.Context(), &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// PreviewRoster 仅解析，返回候选与逐行诊断
// POST /api/v1/roster/preview
func (h *RosterHandler) PreviewRoster(c *gin.Context) {
	var req dto.ImportRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.Preview(c.Request.Context(), &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// handleRosterError 统一处理名册导入业务错误
func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRosterEmpty):
		response.BadRequest(c, response.CodeRosterEmpty, "名册文本为空")
	case errors.Is(err, pkgerrors.ErrMutationBusy):
		response.Conflict(c, response.CodeMutationBusy, "公平性数据正在被其他操作更新，请稍后重试")
	default:
		response.InternalError(c)
	}
}
