package service

import (
	"context"
	"encoding/json"
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

// ── 考勤模块业务错误 ──

var (
	ErrNoTimetable   = errors.New("尚未上传课表")
	ErrDayNotFound   = errors.New("日记录不存在")
	ErrInvalidDate   = errors.New("日期格式非法")
	ErrSlotNotFound  = errors.New("时间段不存在")
	ErrInvalidMark   = errors.New("出勤标记非法")
	ErrEntryNotFound = errors.New("课次不存在")
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// GetOrCreateDay 按日期取日记录，范围内缺失时按需物化
	GetOrCreateDay(ctx context.Context, userID, date string) (*dto.DayResponse, error)
	// AddCustom 向某日追加自定义课次
	AddCustom(ctx context.Context, userID string, req *dto.AddOccurrenceRequest) (*dto.DayResponse, error)
	// Remove 删除某日首个 slotId+courseId 匹配的课次
	Remove(ctx context.Context, userID string, req *dto.RemoveOccurrenceRequest) (*dto.DayResponse, error)
	// ReplaceDay 整日课次替换（标记更新走此路径）
	ReplaceDay(ctx context.Context, userID string, req *dto.UpdateDayRequest) (*dto.DayResponse, error)
	// Statistics 计算（或读缓存）考勤统计报表
	Statistics(ctx context.Context, userID string) (*dto.StatisticsResponse, error)
}

type attendanceService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    Cache
	loc    *time.Location
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, rdb Cache, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		cfg:    cfg,
		repo:   repo,
		rdb:    rdb,
		loc:    cfg.Attendance.Location(),
		logger: logger,
	}
}

// loadContext 取用户、课程起止日期与课表引擎值，三者是所有考勤操作的前置
func (s *attendanceService) loadContext(ctx context.Context, userID string) (*attendance.Timetable, attendance.Date, attendance.Date, error) {
	var zero attendance.Date

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, zero, zero, ErrUserNotFound
		}
		return nil, zero, zero, err
	}
	if user.TimetableID == nil || user.CourseStart == nil || user.CourseEnd == nil {
		return nil, zero, zero, ErrNoTimetable
	}

	tt, err := s.repo.Timetable.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, zero, zero, ErrNoTimetable
		}
		return nil, zero, zero, err
	}

	start := attendance.DateOf(*user.CourseStart, s.loc)
	end := attendance.DateOf(*user.CourseEnd, s.loc)
	return tt.ToEngine(), start, end, nil
}

// ────────────────────── GetOrCreateDay ──────────────────────

func (s *attendanceService) GetOrCreateDay(ctx context.Context, userID, date string) (*dto.DayResponse, error) {
	target, err := attendance.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	engine, start, end, err := s.loadContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 闭包内的仓储错误带出循环，未命中返回 nil 让核心逻辑继续
	var lookupErr error
	existing := func(d attendance.Date) *attendance.DayRecord {
		rec, err := s.repo.DayRecord.GetByUserAndDate(ctx, userID, d.String())
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				lookupErr = err
			}
			return nil
		}
		engineRec, err := rec.ToEngine()
		if err != nil {
			lookupErr = err
			return nil
		}
		return engineRec
	}

	res, err := attendance.ResolveDay(engine, start, end, target, existing)
	if err != nil {
		return nil, err
	}
	if lookupErr != nil {
		s.logger.Error("查询日记录失败", zap.String("user_id", userID), zap.Error(lookupErr))
		return nil, lookupErr
	}

	if res.Created {
		stored, err := s.repo.DayRecord.CreateIfAbsent(ctx, &model.DayRecord{
			UserID:      userID,
			Date:        res.Record.Date.String(),
			Occurrences: model.OccurrenceList(res.Record.Occurrences),
		})
		if err != nil {
			s.logger.Error("物化日记录失败", zap.String("date", date), zap.Error(err))
			return nil, err
		}
		// 并发创建时以落库版本为准
		engineRec, err := stored.ToEngine()
		if err != nil {
			return nil, err
		}
		res.Record = engineRec

		if err := s.rdb.InvalidateStatsCache(ctx, userID); err != nil {
			s.logger.Warn("统计缓存失效失败", zap.Error(err))
		}
	}

	return &dto.DayResponse{
		Date:        res.Record.Date.String(),
		Occurrences: res.Record.Occurrences,
		Created:     res.Created,
		Boundary:    boundaryString(res.Boundary),
	}, nil
}

// ────────────────────── AddCustom ──────────────────────

func (s *attendanceService) AddCustom(ctx context.Context, userID string, req *dto.AddOccurrenceRequest) (*dto.DayResponse, error) {
	target, err := attendance.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	mark := req.Attendance
	if mark == "" {
		mark = attendance.MarkPending
	} else if !mark.Valid() {
		return nil, ErrInvalidMark
	}

	engine, _, _, err := s.loadContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	slot := engine.SlotByID(req.SlotID)
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	rec, err := s.loadDay(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	duration := req.Duration
	if duration == 0 {
		duration = 1
	}
	attendance.AddOccurrence(rec, attendance.Occurrence{
		Day:         target.Weekday(),
		DayIndex:    target.Weekday().Index(),
		CourseID:    req.CourseID,
		SlotID:      req.SlotID,
		Duration:    duration,
		Attendance:  mark,
		Display:     slot.Display,
		Custom:      true,
		Description: req.Description,
	})

	return s.storeDay(ctx, userID, rec)
}

// ────────────────────── Remove ──────────────────────

func (s *attendanceService) Remove(ctx context.Context, userID string, req *dto.RemoveOccurrenceRequest) (*dto.DayResponse, error) {
	target, err := attendance.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	rec, err := s.loadDay(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	if err := attendance.RemoveOccurrence(rec, req.SlotID, req.CourseID); err != nil {
		if errors.Is(err, attendance.ErrOccurrenceNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	return s.storeDay(ctx, userID, rec)
}

// ────────────────────── ReplaceDay ──────────────────────

func (s *attendanceService) ReplaceDay(ctx context.Context, userID string, req *dto.UpdateDayRequest) (*dto.DayResponse, error) {
	target, err := attendance.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	for _, occ := range req.Occurrences {
		if !occ.Attendance.Valid() {
			return nil, ErrInvalidMark
		}
	}

	rec, err := s.loadDay(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	attendance.ReplaceOccurrences(rec, req.Occurrences)
	return s.storeDay(ctx, userID, rec)
}

// ────────────────────── Statistics ──────────────────────

func (s *attendanceService) Statistics(ctx context.Context, userID string) (*dto.StatisticsResponse, error) {
	if cached, err := s.rdb.GetStatsCache(ctx, userID); err != nil {
		s.logger.Warn("统计缓存读取失败", zap.Error(err))
	} else if cached != "" {
		var resp dto.StatisticsResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			resp.Cached = true
			return &resp, nil
		}
		s.logger.Warn("统计缓存内容非法，回退实时计算", zap.String("user_id", userID))
	}

	engine, start, end, err := s.loadContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.DayRecord.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("读取日记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	records := make([]attendance.DayRecord, 0, len(rows))
	for i := range rows {
		engineRec, err := rows[i].ToEngine()
		if err != nil {
			s.logger.Warn("跳过非法日记录", zap.String("date", rows[i].Date), zap.Error(err))
			continue
		}
		records = append(records, *engineRec)
	}

	defaultMin := s.cfg.Attendance.DefaultMinAttendance
	if user, err := s.repo.User.GetByID(ctx, userID); err == nil && user.MinAttendance > 0 {
		defaultMin = user.MinAttendance
	}

	report, err := attendance.Aggregate(engine, records, start, end, defaultMin)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatisticsResponse{
		AttendanceState:        report.AttendanceState,
		OverallAttendanceState: report.OverallAttendanceState,
		Warnings:               report.Warnings,
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.rdb.SetStatsCache(ctx, userID, string(payload), s.cfg.Attendance.StatsCacheTTL); err != nil {
			s.logger.Warn("统计缓存写入失败", zap.Error(err))
		}
	}
	return resp, nil
}

// loadDay 取某日既有记录，缺失时不隐式创建
func (s *attendanceService) loadDay(ctx context.Context, userID string, d attendance.Date) (*attendance.DayRecord, error) {
	rec, err := s.repo.DayRecord.GetByUserAndDate(ctx, userID, d.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDayNotFound
		}
		s.logger.Error("查询日记录失败", zap.String("date", d.String()), zap.Error(err))
		return nil, err
	}
	return rec.ToEngine()
}

func (s *attendanceService) storeDay(ctx context.Context, userID string, rec *attendance.DayRecord) (*dto.DayResponse, error) {
	err := s.repo.DayRecord.UpdateOccurrences(ctx, userID, rec.Date.String(), model.OccurrenceList(rec.Occurrences))
	if err != nil {
		s.logger.Error("回写日记录失败", zap.String("date", rec.Date.String()), zap.Error(err))
		return nil, err
	}
	if err := s.rdb.InvalidateStatsCache(ctx, userID); err != nil {
		s.logger.Warn("统计缓存失效失败", zap.Error(err))
	}
	return &dto.DayResponse{Date: rec.Date.String(), Occurrences: rec.Occurrences}, nil
}

func boundaryString(b attendance.Boundary) string {
	if b == attendance.BoundaryNone {
		return ""
	}
	return string(b)
}
