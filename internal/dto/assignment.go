package dto

// ── 值班分配模块 DTO ──

// CreateAssignmentRequest 手工创建值班分配请求
type CreateAssignmentRequest struct {
	PersonID  string `json:"person_id"  binding:"required,uuid"`
	PostID    string `json:"post_id"    binding:"required,uuid"`
	DutyDate  string `json:"duty_date"  binding:"required"` // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"omitempty,max=10"`
	EndTime   string `json:"end_time"   binding:"omitempty,max=10"`
	Status    string `json:"status"     binding:"omitempty,max=20"`
	Notes     string `json:"notes"      binding:"omitempty,max=500"`
}

// AssignmentListRequest 值班分配列表查询参数
type AssignmentListRequest struct {
	PaginationRequest
	DutyDate string `form:"duty_date"` // 可选，YYYY-MM-DD
}

// AssignmentResponse 值班分配响应
type AssignmentResponse struct {
	ID           string `json:"id"`
	PersonID     string `json:"person_id"`
	PersonName   string `json:"person_name,omitempty"`
	PostID       string `json:"post_id"`
	PostName     string `json:"post_name,omitempty"`
	PostTypeName string `json:"post_type_name,omitempty"`
	DutyDate     string `json:"duty_date"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at"`
}
