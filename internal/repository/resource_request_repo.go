package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
)

// ResourceRequestRepository 资料求助单数据访问接口
type ResourceRequestRepository interface {
	Create(ctx context.Context, req *model.ResourceRequest) error
	GetByID(ctx context.Context, id string) (*model.ResourceRequest, error)
	ListByUser(ctx context.Context, userID string) ([]model.ResourceRequest, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]model.ResourceRequest, int64, error)
	Update(ctx context.Context, req *model.ResourceRequest) error
}

// resourceRequestRepo ResourceRequestRepository 的 GORM 实现
type resourceRequestRepo struct {
	db *gorm.DB
}

// NewResourceRequestRepo 创建 ResourceRequestRepository 实例
func NewResourceRequestRepo(db *gorm.DB) ResourceRequestRepository {
	return &resourceRequestRepo{db: db}
}

func (r *resourceRequestRepo) Create(ctx context.Context, req *model.ResourceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *resourceRequestRepo) GetByID(ctx context.Context, id string) (*model.ResourceRequest, error) {
	var req model.ResourceRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *resourceRequestRepo) ListByUser(ctx context.Context, userID string) ([]model.ResourceRequest, error) {
	var items []model.ResourceRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *resourceRequestRepo) ListByStatus(ctx context.Context, status string, offset, limit int) ([]model.ResourceRequest, int64, error) {
	var items []model.ResourceRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ResourceRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *resourceRequestRepo) Update(ctx context.Context, req *model.ResourceRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
