package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/j4v3l/Duty-Tracker/internal/service"
	pkgerrors "github.com/j4v3l/Duty-Tracker/pkg/errors"
	"github.com/j4v3l/Duty-Tracker/pkg/response"
)

// FairnessHandler 公平性 HTTP 处理器
type FairnessHandler struct {
	fairnessSvc service.FairnessService
}

// NewFairnessHandler 创建 FairnessHandler
func NewFairnessHandler(fairnessSvc service.FairnessService) *FairnessHandler {
	return &FairnessHandler{fairnessSvc: fairnessSvc}
}

// GetRanking 获取公平性排名（得分越低越应优先安排）
// GET /api/v1/fairness
func (h *FairnessHandler) GetRanking(c *gin.Context) {
	ranking, err := h.fairnessSvc.Rank(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": ranking})
}

// Recalculate 按全部历史分配重建公平性数据
// POST /api/v1/fairness/recalculate
func (h *FairnessHandler) Recalculate(c *gin.Context) {
	result, err := h.fairnessSvc.RecalculateAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, pkgerrors.ErrMutationBusy) {
			response.Conflict(c, response.CodeMutationBusy, "公平性数据正在被其他操作更新，请稍后重试")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
