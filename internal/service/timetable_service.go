package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/config"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableNotFound  = errors.New("课表不存在")
	ErrInvalidCourseDates = errors.New("课程起止日期非法")
	ErrCourseNotFound     = errors.New("课程不存在")
)

// TimetableService 课表业务接口
type TimetableService interface {
	// Upload 整体替换用户课表，并预生成从课程开始到今天的日记录
	Upload(ctx context.Context, userID string, req *dto.UploadTimetableRequest) (*dto.UploadTimetableResponse, error)
	// UploadXLSX 解析 Excel 课表后走 Upload 同一路径
	UploadXLSX(ctx context.Context, userID string, data []byte) (*dto.UploadTimetableResponse, error)
	Get(ctx context.Context, userID string) (*dto.TimetableResponse, error)
	Check(ctx context.Context, userID string) (*dto.TimetableCheckResponse, error)
	SetCourseMinAttendance(ctx context.Context, userID, courseName string, minAttendance int) error
}

type timetableService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    Cache
	loc    *time.Location
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(cfg *config.Config, repo *repository.Repository, rdb Cache, logger *zap.Logger) TimetableService {
	return &timetableService{
		cfg:    cfg,
		repo:   repo,
		rdb:    rdb,
		loc:    cfg.Attendance.Location(),
		logger: logger,
	}
}

// ────────────────────── Upload ──────────────────────

func (s *timetableService) Upload(ctx context.Context, userID string, req *dto.UploadTimetableRequest) (*dto.UploadTimetableResponse, error) {
	start, err := attendance.ParseDate(req.CourseStart)
	if err != nil {
		return nil, ErrInvalidCourseDates
	}
	end, err := attendance.ParseDate(req.CourseEnd)
	if err != nil {
		return nil, ErrInvalidCourseDates
	}
	if start.After(end) {
		return nil, ErrInvalidCourseDates
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 重新上传 = 删除重建，旧课表与既有考勤记录一并清除
	if _, err := s.repo.Timetable.DeleteByUser(ctx, userID); err != nil {
		s.logger.Error("删除旧课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if err := s.repo.DayRecord.DeleteByUser(ctx, userID); err != nil {
		s.logger.Error("删除旧考勤记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	tt := toTimetableModel(userID, req)
	if err := s.repo.Timetable.Create(ctx, tt); err != nil {
		s.logger.Error("创建课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	startTime := time.Date(start.Year, start.Month, start.Day, 0, 0, 0, 0, s.loc)
	endTime := time.Date(end.Year, end.Month, end.Day, 0, 0, 0, 0, s.loc)
	user.TimetableID = &tt.TimetableID
	user.CourseStart = &startTime
	user.CourseEnd = &endTime
	if req.Class != "" {
		user.Section = req.Class
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户课表引用失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	seeded, err := s.seedDayRecords(ctx, userID, tt, start, end)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.InvalidateStatsCache(ctx, userID); err != nil {
		s.logger.Warn("统计缓存失效失败", zap.Error(err))
	}

	s.logger.Info("课表上传完成",
		zap.String("user_id", userID),
		zap.String("timetable_id", tt.TimetableID),
		zap.Int("seeded_days", seeded))
	return &dto.UploadTimetableResponse{TimetableID: tt.TimetableID, SeededDays: seeded}, nil
}

// seedDayRecords 预生成课程开始到今天（含）的日记录，今天越过课程结束时截断
func (s *timetableService) seedDayRecords(ctx context.Context, userID string, tt *model.Timetable, start, end attendance.Date) (int, error) {
	today := attendance.DateOf(time.Now(), s.loc)
	last := today
	if last.After(end) {
		last = end
	}
	if last.Before(start) {
		return 0, nil
	}

	engine := tt.ToEngine()
	seeded := 0
	for d := start; !d.After(last); d = d.Next() {
		occs, _ := attendance.BuildDayTable(engine, d)
		rec := &model.DayRecord{
			UserID:      userID,
			Date:        d.String(),
			Occurrences: model.OccurrenceList(occs),
		}
		if _, err := s.repo.DayRecord.CreateIfAbsent(ctx, rec); err != nil {
			s.logger.Error("预生成日记录失败", zap.String("date", d.String()), zap.Error(err))
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

// ────────────────────── UploadXLSX ──────────────────────

func (s *timetableService) UploadXLSX(ctx context.Context, userID string, data []byte) (*dto.UploadTimetableResponse, error) {
	req, err := parseTimetableXLSX(data)
	if err != nil {
		return nil, err
	}
	return s.Upload(ctx, userID, req)
}

// ────────────────────── Get ──────────────────────

func (s *timetableService) Get(ctx context.Context, userID string) (*dto.TimetableResponse, error) {
	tt, err := s.repo.Timetable.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TimetableResponse{
		TimetableID: tt.TimetableID,
		Class:       tt.Class,
		TimeSlots:   make([]dto.TimeSlotPayload, 0, len(tt.TimeSlots)),
		Courses:     make([]dto.CoursePayload, 0, len(tt.Courses)),
		Events:      make([]dto.EventPayload, 0, len(tt.Events)),
	}
	if user.CourseStart != nil {
		resp.CourseStart = attendance.DateOf(*user.CourseStart, s.loc).String()
	}
	if user.CourseEnd != nil {
		resp.CourseEnd = attendance.DateOf(*user.CourseEnd, s.loc).String()
	}
	for _, slot := range tt.TimeSlots {
		resp.TimeSlots = append(resp.TimeSlots, dto.TimeSlotPayload{
			SlotID:  slot.SlotID,
			Display: slot.Display,
			Start:   slot.StartMinute,
			End:     slot.EndMinute,
		})
	}
	for _, c := range tt.Courses {
		parent := ""
		if c.ParentCourse != nil {
			parent = *c.ParentCourse
		}
		resp.Courses = append(resp.Courses, dto.CoursePayload{
			Name:          c.Name,
			FullName:      c.FullName,
			Kind:          c.Kind,
			Instructor:    c.Instructor,
			ParentCourse:  parent,
			MinAttendance: c.MinAttendance,
		})
	}
	for _, e := range tt.Events {
		resp.Events = append(resp.Events, dto.EventPayload{
			Day:         e.Day,
			DayIndex:    e.DayIndex,
			CourseID:    e.CourseID,
			SlotID:      e.SlotID,
			Duration:    e.Duration,
			Description: e.Description,
		})
	}
	return resp, nil
}

// ────────────────────── Check ──────────────────────

func (s *timetableService) Check(ctx context.Context, userID string) (*dto.TimetableCheckResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := &dto.TimetableCheckResponse{HasTimetable: user.TimetableID != nil}
	if user.TimetableID != nil {
		resp.TimetableID = *user.TimetableID
	}
	return resp, nil
}

// ────────────────────── SetCourseMinAttendance ──────────────────────

func (s *timetableService) SetCourseMinAttendance(ctx context.Context, userID, courseName string, minAttendance int) error {
	tt, err := s.repo.Timetable.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableNotFound
		}
		return err
	}

	rows, err := s.repo.Timetable.UpdateCourseMinAttendance(ctx, tt.TimetableID, courseName, minAttendance)
	if err != nil {
		s.logger.Error("更新课程最低出勤率失败", zap.String("course", courseName), zap.Error(err))
		return err
	}
	if rows == 0 {
		return ErrCourseNotFound
	}

	if err := s.rdb.InvalidateStatsCache(ctx, userID); err != nil {
		s.logger.Warn("统计缓存失效失败", zap.Error(err))
	}
	return nil
}

func toTimetableModel(userID string, req *dto.UploadTimetableRequest) *model.Timetable {
	tt := &model.Timetable{
		UserID:    userID,
		Class:     req.Class,
		TimeSlots: make([]model.TimeSlot, 0, len(req.TimeSlots)),
		Courses:   make([]model.Course, 0, len(req.Courses)),
		Events:    make([]model.TimetableEvent, 0, len(req.Events)),
	}
	for _, slot := range req.TimeSlots {
		tt.TimeSlots = append(tt.TimeSlots, model.TimeSlot{
			SlotID:      slot.SlotID,
			Display:     slot.Display,
			StartMinute: slot.Start,
			EndMinute:   slot.End,
		})
	}
	for _, c := range req.Courses {
		var parent *string
		if c.ParentCourse != "" {
			p := c.ParentCourse
			parent = &p
		}
		tt.Courses = append(tt.Courses, model.Course{
			Name:          c.Name,
			FullName:      c.FullName,
			Kind:          c.Kind,
			Instructor:    c.Instructor,
			ParentCourse:  parent,
			MinAttendance: c.MinAttendance,
		})
	}
	for _, e := range req.Events {
		tt.Events = append(tt.Events, model.TimetableEvent{
			Day:         e.Day,
			DayIndex:    e.DayIndex,
			CourseID:    e.CourseID,
			SlotID:      e.SlotID,
			Duration:    e.Duration,
			Description: e.Description,
		})
	}
	return tt
}
