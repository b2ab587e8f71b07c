package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/j4v3l/Duty-Tracker/internal/dto"
	"github.com/j4v3l/Duty-Tracker/internal/service"
	"github.com/j4v3l/Duty-Tracker/pkg/response"
)

// PostHandler 岗位与岗位类型 HTTP 处理器
type PostHandler struct {
	postSvc service.PostService
}

// NewPostHandler 创建 PostHandler
func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

// ListPostTypes 获取岗位类型列表
// GET /api/v1/post-types
func (h *PostHandler) ListPostTypes(c *gin.Context) {
	types, err := h.postSvc.ListPostTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": types})
}

// CreatePostType 创建岗位类型
// POST /api/v1/post-types
func (h *PostHandler) CreatePostType(c *gin.Context) {
	var req dto.CreatePostTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	pt, err := h.postSvc.CreatePostType(c.Request.Context(), &req)
	if err != nil {
		h.handlePostError(c, err)
		return
	}

	response.Created(c, pt)
}

// ListPosts 获取启用岗位列表
// GET /api/v1/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postSvc.ListPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": posts})
}

// CreatePost 创建岗位
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}

	post, err := h.postSvc.CreatePost(c.Request.Context(), &req)
	if err != nil {
		h.handlePostError(c, err)
		return
	}

	response.Created(c, post)
}

// SetupPosts 补齐标准岗位类型与岗位
// POST /api/v1/posts/setup
func (h *PostHandler) SetupPosts(c *gin.Context) {
	result, err := h.postSvc.SetupPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handlePostError 统一处理岗位模块业务错误
func (h *PostHandler) handlePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostTypeNotFound):
		response.NotFound(c, response.CodePostTypeNotFound, "岗位类型不存在")
	case errors.Is(err, service.ErrPostTypeNameTaken):
		response.Conflict(c, response.CodePostTypeNameTaken, "岗位类型名称已存在")
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, response.CodePostNotFound, "岗位不存在")
	case errors.Is(err, service.ErrPostNameTaken):
		response.Conflict(c, response.CodePostNameTaken, "该类型下岗位名称已存在")
	default:
		response.InternalError(c)
	}
}
