package model

import (
	"time"

	"gorm.io/gorm"
)

// 值班状态（自由文本，以下为约定取值）
const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusNoShow    = "no-show"
	AssignmentStatusStandby   = "standby"
)

// Assignment 值班分配表，对应 assignments
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey"                          json:"assignment_id"`
	PersonID     string    `gorm:"type:uuid;not null"                            json:"person_id"`
	PostID       string    `gorm:"type:uuid;not null"                            json:"post_id"`
	DutyDate     time.Time `gorm:"type:date;not null"                            json:"duty_date"`
	StartTime    string    `gorm:"type:varchar(10)"                              json:"start_time,omitempty"` // e.g. "06:00"
	EndTime      string    `gorm:"type:varchar(10)"                              json:"end_time,omitempty"`
	Status       string    `gorm:"type:varchar(20);not null;default:'assigned'"  json:"status"`
	Notes        string    `gorm:"type:text"                                     json:"notes,omitempty"`
	BaseModel

	// 关联
	Person *Personnel `gorm:"foreignKey:PersonID;references:PersonnelID" json:"person,omitempty"`
	Post   *Post      `gorm:"foreignKey:PostID;references:PostID"        json:"post,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// BeforeCreate 生成主键并归一化值班日期
func (a *Assignment) BeforeCreate(_ *gorm.DB) error {
	newID(&a.AssignmentID)
	a.DutyDate = DateOnly(a.DutyDate)
	if a.Status == "" {
		a.Status = AssignmentStatusAssigned
	}
	return nil
}
