package dto

// ── 公平性模块 DTO ──

// FairnessResponse 公平性跟踪快照
type FairnessResponse struct {
	PersonID              string `json:"person_id"`
	TotalAssignments      int    `json:"total_assignments"`
	TotalDifficultyPoints int    `json:"total_difficulty_points"`
	LastAssignmentDate    string `json:"last_assignment_date,omitempty"`
	ConsecutiveStandby    int    `json:"consecutive_standby"`
}

// FairnessRankItem 公平性排名条目，Score 越小越应优先安排
type FairnessRankItem struct {
	Rank      int               `json:"rank"`
	Personnel PersonnelResponse `json:"personnel"`
	Score     float64           `json:"score"`
	DaysSince *int              `json:"days_since_last_assignment,omitempty"`
	Tracking  *FairnessResponse `json:"tracking,omitempty"`
}

// RecalculateResponse 全量重算结果
type RecalculateResponse struct {
	Deleted  int64 `json:"deleted"`
	Replayed int   `json:"replayed"`
	Updated  int   `json:"updated"` // 重算后跟踪记录条数
}
