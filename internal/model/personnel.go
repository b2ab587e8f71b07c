package model

import "gorm.io/gorm"

// Personnel 人员表，对应 personnel
type Personnel struct {
	PersonnelID string `gorm:"type:uuid;primaryKey"                   json:"personnel_id"`
	Rank        string `gorm:"type:varchar(10);not null"              json:"rank"` // PV2 | PFC | SPC | CPL | SGT | SSG | SFC | MSG | SGM
	Name        string `gorm:"type:varchar(100);not null"             json:"name"`
	IsActive    bool   `gorm:"not null"                               json:"is_active"`
	BaseModel

	// 关联
	Fairness *FairnessTracking `gorm:"foreignKey:PersonID;references:PersonnelID" json:"fairness,omitempty"`
}

// TableName 指定表名
func (Personnel) TableName() string { return "personnel" }

// BeforeCreate 生成主键
func (p *Personnel) BeforeCreate(_ *gorm.DB) error {
	newID(&p.PersonnelID)
	return nil
}

// FullName 军衔 + 姓名，读取时计算，不落库
func (p *Personnel) FullName() string {
	return p.Rank + " " + p.Name
}
