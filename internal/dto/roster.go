package dto

// ── 群聊名册导入 DTO ──

// ImportRosterRequest 导入请求
type ImportRosterRequest struct {
	ChatText string `json:"chat_text" binding:"required"`
	DutyDate string `json:"duty_date"` // YYYY-MM-DD 或 RFC3339，无法解析时回退为当天
}

// UnmatchedToken 未能匹配到人员的军衔-姓名对
type UnmatchedToken struct {
	Line    int    `json:"line"`
	Section string `json:"section"`
	Rank    string `json:"rank"`
	Name    string `json:"name"`
}

// ImportRosterResponse 导入结果
type ImportRosterResponse struct {
	Created         int              `json:"created"`
	Duplicates      int              `json:"duplicates"`
	Unmatched       []UnmatchedToken `json:"unmatched"`
	UnresolvedPosts []string         `json:"unresolved_posts"`
	DutyDate        string           `json:"duty_date"`
	DateFallback    bool             `json:"date_fallback"`
}

// RosterCandidateResponse 预览中的候选分配
type RosterCandidateResponse struct {
	Line        int    `json:"line"`
	Section     string `json:"section"`
	Post        string `json:"post"`
	Rank        string `json:"rank"`
	Name        string `json:"name"`
	PersonnelID string `json:"personnel_id"`
	FullName    string `json:"full_name"`
	MatchRule   string `json:"match_rule"`
}

// RosterTraceResponse 逐行解析诊断
type RosterTraceResponse struct {
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// RosterPreviewResponse 预览结果（只解析，不写库）
type RosterPreviewResponse struct {
	DutyDate     string                    `json:"duty_date"`
	DateFallback bool                      `json:"date_fallback"`
	Candidates   []RosterCandidateResponse `json:"candidates"`
	Unmatched    []UnmatchedToken          `json:"unmatched"`
	Trace        []RosterTraceResponse     `json:"trace"`
}
