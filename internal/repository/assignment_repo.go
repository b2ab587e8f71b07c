package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/model"
)

// AssignmentRepository 值班分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	// GetByPersonPostDate 按 (人员, 岗位, 值班日期) 精确查询，用于导入去重
	GetByPersonPostDate(ctx context.Context, personID, postID string, dutyDate time.Time) (*model.Assignment, error)
	// List 按值班日期倒序分页；dutyDate 非空时仅返回该日记录
	List(ctx context.Context, dutyDate *time.Time, offset, limit int) ([]model.Assignment, int64, error)
	// ListInInsertionOrder 按写入顺序返回全部记录，供公平性重算回放
	ListInInsertionOrder(ctx context.Context) ([]model.Assignment, error)
	ListByPerson(ctx context.Context, personID string) ([]model.Assignment, error)
	// ListForActivePersonnel 返回在岗人员的全部记录（含岗位及类型），供分布统计
	ListForActivePersonnel(ctx context.Context) ([]model.Assignment, error)
	CountFrom(ctx context.Context, from time.Time) (int64, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByPersonPostDate(ctx context.Context, personID, postID string, dutyDate time.Time) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND post_id = ? AND duty_date = ?", personID, postID, model.DateOnly(dutyDate)).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) List(ctx context.Context, dutyDate *time.Time, offset, limit int) ([]model.Assignment, int64, error) {
	var assignments []model.Assignment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Assignment{})
	if dutyDate != nil {
		db = db.Where("duty_date = ?", model.DateOnly(*dutyDate))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Person").
		Preload("Post").Preload("Post.PostType").
		Offset(offset).Limit(limit).
		Order("duty_date DESC, created_at DESC").
		Find(&assignments).Error
	return assignments, total, err
}

func (r *assignmentRepo) ListInInsertionOrder(ctx context.Context) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Order("created_at ASC, assignment_id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByPerson(ctx context.Context, personID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Post").Preload("Post.PostType").
		Where("person_id = ?", personID).
		Order("duty_date DESC, created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListForActivePersonnel(ctx context.Context) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("Post").Preload("Post.PostType").
		Joins("JOIN personnel ON personnel.personnel_id = assignments.person_id").
		Where("personnel.is_active = ?", true).
		Order("assignments.created_at ASC, assignments.assignment_id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) CountFrom(ctx context.Context, from time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("duty_date >= ?", model.DateOnly(from)).
		Count(&total).Error
	return total, err
}
