package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
)

// ContributionRepository 资料贡献数据访问接口
type ContributionRepository interface {
	// BatchCreate 同一上传会话的文件整批写入
	BatchCreate(ctx context.Context, items []model.Contribution) error
	GetByID(ctx context.Context, id string) (*model.Contribution, error)
	ListByUser(ctx context.Context, userID string) ([]model.Contribution, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]model.Contribution, int64, error)
	Update(ctx context.Context, c *model.Contribution) error
}

// contributionRepo ContributionRepository 的 GORM 实现
type contributionRepo struct {
	db *gorm.DB
}

// NewContributionRepo 创建 ContributionRepository 实例
func NewContributionRepo(db *gorm.DB) ContributionRepository {
	return &contributionRepo{db: db}
}

func (r *contributionRepo) BatchCreate(ctx context.Context, items []model.Contribution) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *contributionRepo) GetByID(ctx context.Context, id string) (*model.Contribution, error) {
	var c model.Contribution
	err := r.db.WithContext(ctx).
		Where("contribution_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contributionRepo) ListByUser(ctx context.Context, userID string) ([]model.Contribution, error) {
	var items []model.Contribution
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *contributionRepo) ListByStatus(ctx context.Context, status string, offset, limit int) ([]model.Contribution, int64, error) {
	var items []model.Contribution
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Contribution{})
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

func (r *contributionRepo) Update(ctx context.Context, c *model.Contribution) error {
	return r.db.WithContext(ctx).Save(c).Error
}
