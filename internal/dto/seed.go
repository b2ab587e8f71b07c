package dto

// SeedResponse 初始化数据写入结果
type SeedResponse struct {
	PostTypesCreated int  `json:"post_types_created"`
	PostsCreated     int  `json:"posts_created"`
	PersonnelCreated int  `json:"personnel_created"`
	PersonnelSkipped bool `json:"personnel_skipped"` // 人员表非空时不导入名册
}
