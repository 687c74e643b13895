package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
)

// TimetableRepository 课表数据访问接口
type TimetableRepository interface {
	// Create 在单个事务内写入课表及其全部子表记录
	Create(ctx context.Context, tt *model.Timetable) error
	GetByID(ctx context.Context, id string) (*model.Timetable, error)
	GetByUser(ctx context.Context, userID string) (*model.Timetable, error)
	// DeleteByUser 删除用户名下课表及级联子表，返回删除的课表数
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	UpdateCourseMinAttendance(ctx context.Context, timetableID, courseName string, minAttendance int) (int64, error)
}

// timetableRepo TimetableRepository 的 GORM 实现
type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, tt *model.Timetable) error {
	// FullSaveAssociations 保证子表随主表一并落库
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Create(tt).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Preload("TimeSlots").
		Preload("Courses").
		Preload("Events").
		Where("timetable_id = ?", id).
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) GetByUser(ctx context.Context, userID string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Preload("TimeSlots").
		Preload("Courses").
		Preload("Events").
		Where("user_id = ?", userID).
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Timetable{})
	return res.RowsAffected, res.Error
}

func (r *timetableRepo) UpdateCourseMinAttendance(ctx context.Context, timetableID, courseName string, minAttendance int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("timetable_id = ? AND name = ?", timetableID, courseName).
		Update("min_attendance", minAttendance)
	return res.RowsAffected, res.Error
}
