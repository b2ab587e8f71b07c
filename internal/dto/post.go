package dto

// ── 岗位模块 DTO ──

// CreatePostTypeRequest 创建岗位类型请求
type CreatePostTypeRequest struct {
	Name              string   `json:"name"               binding:"required,min=1,max=50"`
	Description       string   `json:"description"        binding:"omitempty,max=500"`
	EquipmentRequired []string `json:"equipment_required"`
	MeetingTime       string   `json:"meeting_time"       binding:"omitempty,max=20"`
	MeetingLocation   string   `json:"meeting_location"   binding:"omitempty,max=100"`
	PersonnelRequired int      `json:"personnel_required" binding:"omitempty,min=1"`
	DifficultyWeight  int      `json:"difficulty_weight"  binding:"omitempty,min=1"`
}

// PostTypeResponse 岗位类型响应
type PostTypeResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	EquipmentRequired []string `json:"equipment_required"`
	MeetingTime       string   `json:"meeting_time,omitempty"`
	MeetingLocation   string   `json:"meeting_location,omitempty"`
	PersonnelRequired int      `json:"personnel_required"`
	DifficultyWeight  int      `json:"difficulty_weight"`
}

// CreatePostRequest 创建岗位请求
type CreatePostRequest struct {
	Name       string `json:"name"         binding:"required,min=1,max=50"`
	PostTypeID string `json:"post_type_id" binding:"required,uuid"`
}

// PostResponse 岗位响应
type PostResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	IsActive bool              `json:"is_active"`
	PostType *PostTypeResponse `json:"post_type,omitempty"`
}

// SetupPostsResponse 标准岗位初始化结果
type SetupPostsResponse struct {
	PostTypesCreated int `json:"post_types_created"`
	PostsCreated     int `json:"posts_created"`
}
