package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
)

// DayRecordRepository 单日考勤记录数据访问接口
type DayRecordRepository interface {
	GetByUserAndDate(ctx context.Context, userID, date string) (*model.DayRecord, error)
	// ListByUser 返回用户全部日记录，按日期升序
	ListByUser(ctx context.Context, userID string) ([]model.DayRecord, error)
	// CreateIfAbsent 幂等创建: 若 (user_id, date) 已存在则保留旧记录，
	// 返回落库后的实际记录
	CreateIfAbsent(ctx context.Context, rec *model.DayRecord) (*model.DayRecord, error)
	UpdateOccurrences(ctx context.Context, userID, date string, occs model.OccurrenceList) error
	DeleteByUser(ctx context.Context, userID string) error
}

// dayRecordRepo DayRecordRepository 的 GORM 实现
type dayRecordRepo struct {
	db *gorm.DB
}

// NewDayRecordRepo 创建 DayRecordRepository 实例
func NewDayRecordRepo(db *gorm.DB) DayRecordRepository {
	return &dayRecordRepo{db: db}
}

func (r *dayRecordRepo) GetByUserAndDate(ctx context.Context, userID, date string) (*model.DayRecord, error) {
	var rec model.DayRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *dayRecordRepo) ListByUser(ctx context.Context, userID string) ([]model.DayRecord, error) {
	var recs []model.DayRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&recs).Error
	return recs, err
}

func (r *dayRecordRepo) CreateIfAbsent(ctx context.Context, rec *model.DayRecord) (*model.DayRecord, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	// 冲突时 Create 不回填字段，重读保证返回落库记录
	return r.GetByUserAndDate(ctx, rec.UserID, rec.Date)
}

func (r *dayRecordRepo) UpdateOccurrences(ctx context.Context, userID, date string, occs model.OccurrenceList) error {
	return r.db.WithContext(ctx).
		Model(&model.DayRecord{}).
		Where("user_id = ? AND date = ?", userID, date).
		Update("occurrences", occs).Error
}

func (r *dayRecordRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.DayRecord{}).Error
}
