package dto

// ── 统计模块 DTO ──

// DashboardResponse 概览统计
type DashboardResponse struct {
	TotalPersonnel      int64                `json:"total_personnel"`
	UpcomingAssignments int64                `json:"upcoming_assignments"`
	ActivePosts         int64                `json:"active_posts"`
	FairnessVariance    float64              `json:"fairness_variance"`
	RecentAssignments   []AssignmentResponse `json:"recent_assignments"`
}

// PostTypeShare 单人在某岗位类型上的次数与占比
type PostTypeShare struct {
	PostType           string  `json:"post_type"`
	Count              int     `json:"count"`
	PercentageOfTotal  float64 `json:"percentage_of_total"`  // 占该类型总次数
	PercentageOfPerson float64 `json:"percentage_of_person"` // 占本人总次数
}

// PersonDistribution 单人的岗位类型分布
type PersonDistribution struct {
	Personnel        PersonnelResponse `json:"personnel"`
	TotalAssignments int               `json:"total_assignments"`
	Breakdown        []PostTypeShare   `json:"breakdown"`
}

// PostDistributionResponse 岗位分布统计
type PostDistributionResponse struct {
	Personnel      []PersonDistribution `json:"personnel"`
	PostTypeTotals []NameCount          `json:"post_type_totals"`
	GrandTotal     int                  `json:"grand_total"`
	PersonnelCount int                  `json:"personnel_count"`
}
