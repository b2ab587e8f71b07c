package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/model"
)

// PersonnelRepository 人员数据访问接口
type PersonnelRepository interface {
	Create(ctx context.Context, person *model.Personnel) error
	GetByID(ctx context.Context, id string) (*model.Personnel, error)
	// ListActive 按录入顺序（created_at, personnel_id 升序）返回在岗人员，名册匹配依赖此顺序
	ListActive(ctx context.Context) ([]model.Personnel, error)
	List(ctx context.Context, offset, limit int, includeInactive bool) ([]model.Personnel, int64, error)
	Update(ctx context.Context, person *model.Personnel) error
	CountActive(ctx context.Context) (int64, error)
}

// personnelRepo PersonnelRepository 的 GORM 实现
type personnelRepo struct {
	db *gorm.DB
}

// NewPersonnelRepo 创建 PersonnelRepository 实例
func NewPersonnelRepo(db *gorm.DB) PersonnelRepository {
	return &personnelRepo{db: db}
}

func (r *personnelRepo) Create(ctx context.Context, person *model.Personnel) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *personnelRepo) GetByID(ctx context.Context, id string) (*model.Personnel, error) {
	var person model.Personnel
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", id).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personnelRepo) ListActive(ctx context.Context) ([]model.Personnel, error) {
	var personnel []model.Personnel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, personnel_id ASC").
		Find(&personnel).Error
	return personnel, err
}

func (r *personnelRepo) List(ctx context.Context, offset, limit int, includeInactive bool) ([]model.Personnel, int64, error) {
	var personnel []model.Personnel
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Personnel{})
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at ASC, personnel_id ASC").
		Find(&personnel).Error
	return personnel, total, err
}

func (r *personnelRepo) Update(ctx context.Context, person *model.Personnel) error {
	return r.db.WithContext(ctx).Save(person).Error
}

func (r *personnelRepo) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Personnel{}).
		Where("is_active = ?", true).
		Count(&total).Error
	return total, err
}
