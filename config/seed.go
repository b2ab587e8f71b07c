package config

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed seed.toml
var defaultSeed string

// SeedData 初始化数据（岗位类型、岗位、人员名册）
type SeedData struct {
	PostTypes []SeedPostType  `toml:"post_types"`
	Posts     []SeedPost      `toml:"posts"`
	Personnel []SeedPersonnel `toml:"personnel"`
}

// SeedPostType 岗位类型种子
type SeedPostType struct {
	Name              string   `toml:"name"`
	Description       string   `toml:"description"`
	EquipmentRequired []string `toml:"equipment_required"`
	MeetingTime       string   `toml:"meeting_time"`
	MeetingLocation   string   `toml:"meeting_location"`
	PersonnelRequired int      `toml:"personnel_required"`
	DifficultyWeight  int      `toml:"difficulty_weight"`
}

// SeedPost 岗位种子，PostType 为岗位类型名称
type SeedPost struct {
	Name     string `toml:"name"`
	PostType string `toml:"post_type"`
}

// SeedPersonnel 人员种子
type SeedPersonnel struct {
	Rank string `toml:"rank"`
	Name string `toml:"name"`
}

// LoadSeed 加载种子数据；path 为空时使用内置 seed.toml
func LoadSeed(path string) (*SeedData, error) {
	var seed SeedData
	if path == "" {
		if _, err := toml.Decode(defaultSeed, &seed); err != nil {
			return nil, fmt.Errorf("解析内置种子数据失败: %w", err)
		}
	} else {
		if _, err := toml.DecodeFile(path, &seed); err != nil {
			return nil, fmt.Errorf("解析种子文件 %q 失败: %w", path, err)
		}
	}

	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// validate 校验岗位引用的类型均已声明
func (s *SeedData) validate() error {
	types := make(map[string]bool, len(s.PostTypes))
	for _, pt := range s.PostTypes {
		if pt.Name == "" {
			return fmt.Errorf("种子数据校验失败: 岗位类型名称不能为空")
		}
		types[pt.Name] = true
	}
	for _, p := range s.Posts {
		if !types[p.PostType] {
			return fmt.Errorf("种子数据校验失败: 岗位 %q 引用了未声明的类型 %q", p.Name, p.PostType)
		}
	}
	for _, p := range s.Personnel {
		if p.Rank == "" || p.Name == "" {
			return fmt.Errorf("种子数据校验失败: 人员军衔与姓名不能为空")
		}
	}
	return nil
}
