package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/model"
)

// FairnessRepository 公平性跟踪数据访问接口
type FairnessRepository interface {
	GetByPersonID(ctx context.Context, personID string) (*model.FairnessTracking, error)
	Create(ctx context.Context, tracking *model.FairnessTracking) error
	Update(ctx context.Context, tracking *model.FairnessTracking) error
	List(ctx context.Context) ([]model.FairnessTracking, error)
	// DeleteAll 清空全部跟踪记录（全量重算前调用），返回删除条数
	DeleteAll(ctx context.Context) (int64, error)
}

type fairnessRepo struct {
	db *gorm.DB
}

// NewFairnessRepo 创建 FairnessRepository 实例
func NewFairnessRepo(db *gorm.DB) FairnessRepository {
	return &fairnessRepo{db: db}
}

func (r *fairnessRepo) GetByPersonID(ctx context.Context, personID string) (*model.FairnessTracking, error) {
	var tracking model.FairnessTracking
	err := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		First(&tracking).Error
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (r *fairnessRepo) Create(ctx context.Context, tracking *model.FairnessTracking) error {
	return r.db.WithContext(ctx).Create(tracking).Error
}

func (r *fairnessRepo) Update(ctx context.Context, tracking *model.FairnessTracking) error {
	return r.db.WithContext(ctx).
		Model(tracking).
		Where("fairness_id = ?", tracking.FairnessID).
		Updates(map[string]interface{}{
			"total_assignments":       tracking.TotalAssignments,
			"total_difficulty_points": tracking.TotalDifficultyPoints,
			"last_assignment_date":    tracking.LastAssignmentDate,
			"consecutive_standby":     tracking.ConsecutiveStandby,
		}).Error
}

func (r *fairnessRepo) List(ctx context.Context) ([]model.FairnessTracking, error) {
	var trackings []model.FairnessTracking
	err := r.db.WithContext(ctx).
		Order("person_id ASC").
		Find(&trackings).Error
	return trackings, err
}

func (r *fairnessRepo) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.FairnessTracking{})
	return result.RowsAffected, result.Error
}
