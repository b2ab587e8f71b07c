package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/j4v3l/Duty-Tracker/internal/model"
)

// PostTypeRepository 岗位类型数据访问接口
type PostTypeRepository interface {
	Create(ctx context.Context, postType *model.PostType) error
	GetByID(ctx context.Context, id string) (*model.PostType, error)
	// GetByName 名称匹配不区分大小写
	GetByName(ctx context.Context, name string) (*model.PostType, error)
	List(ctx context.Context) ([]model.PostType, error)
}

// PostRepository 岗位数据访问接口
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// GetByTypeAndName 名称匹配不区分大小写
	GetByTypeAndName(ctx context.Context, postTypeID, name string) (*model.Post, error)
	ListActive(ctx context.Context) ([]model.Post, error)
	CountActive(ctx context.Context) (int64, error)
}

// ── PostType Repository 实现 ──

type postTypeRepo struct {
	db *gorm.DB
}

func NewPostTypeRepo(db *gorm.DB) PostTypeRepository {
	return &postTypeRepo{db: db}
}

func (r *postTypeRepo) Create(ctx context.Context, postType *model.PostType) error {
	return r.db.WithContext(ctx).Create(postType).Error
}

func (r *postTypeRepo) GetByID(ctx context.Context, id string) (*model.PostType, error) {
	var pt model.PostType
	err := r.db.WithContext(ctx).
		Where("post_type_id = ?", id).
		First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *postTypeRepo) GetByName(ctx context.Context, name string) (*model.PostType, error) {
	var pt model.PostType
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *postTypeRepo) List(ctx context.Context) ([]model.PostType, error) {
	var types []model.PostType
	err := r.db.WithContext(ctx).
		Order("created_at ASC, post_type_id ASC").
		Find(&types).Error
	return types, err
}

// ── Post Repository 实现 ──

type postRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("PostType").
		Where("post_id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) GetByTypeAndName(ctx context.Context, postTypeID, name string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("PostType").
		Where("post_type_id = ? AND LOWER(name) = LOWER(?)", postTypeID, name).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) ListActive(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("PostType").
		Where("is_active = ?", true).
		Order("created_at ASC, post_id ASC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepo) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("is_active = ?", true).
		Count(&total).Error
	return total, err
}
