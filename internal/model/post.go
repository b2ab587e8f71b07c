package model

import "gorm.io/gorm"

// StandbyPostTypeName 待命类岗位类型名称，连续待命计数据此判断
const StandbyPostTypeName = "Stand by"

// PostType 岗位类型表，对应 post_types
type PostType struct {
	PostTypeID        string      `gorm:"type:uuid;primaryKey"              json:"post_type_id"`
	Name              string      `gorm:"type:varchar(50);not null;unique"  json:"name"`
	Description       string      `gorm:"type:text"                         json:"description,omitempty"`
	EquipmentRequired StringArray `gorm:"type:text"                         json:"equipment_required,omitempty"`
	MeetingTime       string      `gorm:"type:varchar(20)"                  json:"meeting_time,omitempty"` // e.g. "0700"
	MeetingLocation   string      `gorm:"type:varchar(100)"                 json:"meeting_location,omitempty"`
	PersonnelRequired int         `gorm:"not null;default:1"                json:"personnel_required"`
	DifficultyWeight  int         `gorm:"not null;default:1"                json:"difficulty_weight"` // 公平性计分单位
	BaseModel
}

func (PostType) TableName() string { return "post_types" }

func (pt *PostType) BeforeCreate(_ *gorm.DB) error {
	newID(&pt.PostTypeID)
	if pt.DifficultyWeight <= 0 {
		pt.DifficultyWeight = 1
	}
	if pt.PersonnelRequired <= 0 {
		pt.PersonnelRequired = 1
	}
	return nil
}

// Weight 难度权重，缺省为 1
func (pt *PostType) Weight() int {
	if pt == nil || pt.DifficultyWeight <= 0 {
		return 1
	}
	return pt.DifficultyWeight
}

// Post 岗位表，对应 posts（如 ECP1 / ECP2）
type Post struct {
	PostID     string `gorm:"type:uuid;primaryKey"     json:"post_id"`
	Name       string `gorm:"type:varchar(50);not null" json:"name"`
	PostTypeID string `gorm:"type:uuid;not null"       json:"post_type_id"`
	IsActive   bool   `gorm:"not null"                 json:"is_active"`
	BaseModel

	// 关联
	PostType *PostType `gorm:"foreignKey:PostTypeID;references:PostTypeID" json:"post_type,omitempty"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	newID(&p.PostID)
	return nil
}
