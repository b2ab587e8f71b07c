package dto

// ── 人员模块 DTO ──

// CreatePersonnelRequest 创建人员请求
type CreatePersonnelRequest struct {
	Rank string `json:"rank" binding:"required,oneof=PV2 PFC SPC CPL SGT SSG SFC MSG SGM"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// PersonnelListRequest 人员列表查询参数
type PersonnelListRequest struct {
	PaginationRequest
	IncludeInactive bool `form:"include_inactive"`
}

// PersonnelResponse 人员信息响应
type PersonnelResponse struct {
	ID        string `json:"id"`
	Rank      string `json:"rank"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// PersonnelDetailResponse 人员值班详情
// FairnessScore 与排名口径一致；RecencyWeightedScore 为 0.7×平均难度 + 0.1×距上次值班天数
type PersonnelDetailResponse struct {
	Personnel             PersonnelResponse    `json:"personnel"`
	TotalAssignments      int                  `json:"total_assignments"`
	TotalDifficultyPoints int                  `json:"total_difficulty_points"`
	AverageDifficulty     float64              `json:"average_difficulty"`
	PostTypeCounts        []NameCount          `json:"post_type_counts"`
	PostCounts            []NameCount          `json:"post_counts"`
	MostFrequentPostType  string               `json:"most_frequent_post_type,omitempty"`
	MostFrequentPost      string               `json:"most_frequent_post,omitempty"`
	LastDutyDate          string               `json:"last_duty_date,omitempty"`
	DaysSinceLastDuty     *int                 `json:"days_since_last_duty,omitempty"`
	FairnessScore         float64              `json:"fairness_score"`
	RecencyWeightedScore  float64              `json:"recency_weighted_score"`
	Tracking              *FairnessResponse    `json:"tracking,omitempty"`
	RecentAssignments     []AssignmentResponse `json:"recent_assignments"`
}

// NameCount 名称-次数对（有序列表元素）
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
