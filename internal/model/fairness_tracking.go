package model

import (
	"time"

	"gorm.io/gorm"
)

// FairnessTracking 公平性跟踪表，对应 fairness_tracking，每人至多一条
// 仅由公平性引擎写入
type FairnessTracking struct {
	FairnessID            string     `gorm:"type:uuid;primaryKey"  json:"fairness_id"`
	PersonID              string     `gorm:"type:uuid;not null;uniqueIndex" json:"person_id"`
	TotalAssignments      int        `gorm:"not null;default:0"    json:"total_assignments"`
	TotalDifficultyPoints int        `gorm:"not null;default:0"    json:"total_difficulty_points"`
	LastAssignmentDate    *time.Time `json:"last_assignment_date,omitempty"`
	ConsecutiveStandby    int        `gorm:"not null;default:0"    json:"consecutive_standby"` // 末尾连续待命次数
	BaseModel
}

func (FairnessTracking) TableName() string { return "fairness_tracking" }

func (f *FairnessTracking) BeforeCreate(_ *gorm.DB) error {
	newID(&f.FairnessID)
	return nil
}
