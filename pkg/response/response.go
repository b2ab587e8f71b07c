package response

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ── 业务码 ──
// 1xxxx 请求层，2xxxx 领域校验与冲突，5xxxx 服务端

const (
	CodeOK = 0

	CodeInvalidParam      = 10001
	CodeRateLimited       = 10004
	CodeBodyTooLarge      = 10005
	CodePersonnelNotFound = 20001

	CodePostTypeNotFound  = 21001
	CodePostTypeNameTaken = 21002
	CodePostNotFound      = 21003
	CodePostNameTaken     = 21004

	CodeInvalidDutyDate   = 22001
	CodePersonnelInactive = 22002
	CodeAssignmentExists  = 22003

	CodeMutationBusy = 23001
	CodeRosterEmpty  = 24001

	CodeInternal     = 50000
	CodeDatabaseDown = 50001
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// NewPagination 按总数计算页数，pageSize<=0 视为单页
func NewPagination(total int64, page, pageSize int) Pagination {
	totalPages := 1
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// ── 成功响应 ──

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: CodeOK, Message: "success", Data: data})
}

// OKPage 分页列表；list 为 nil 时也返回空数组
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	if list == nil {
		list = []struct{}{}
	}
	OK(c, PageData{List: list, Pagination: NewPagination(total, page, pageSize)})
}

// Attachment 文件下载（Excel 分布表 / iCalendar 日历）
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Header("Content-Length", strconv.Itoa(len(body)))
	c.Data(http.StatusOK, contentType, body)
}

// ── 错误响应 ──

// Error 通用错误响应，同时中止后续处理链
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{Code: code, Message: message})
}

func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.AbortWithStatusJSON(httpStatus, Response{Code: code, Message: message, Details: details})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, CodeRateLimited, message)
}

func PayloadTooLarge(c *gin.Context) {
	Error(c, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "请求体过大")
}

// ServiceUnavailable 依赖不可用，data 携带各依赖的状态
func ServiceUnavailable(c *gin.Context, message string, data interface{}) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, Response{Code: CodeDatabaseDown, Message: message, Data: data})
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}
