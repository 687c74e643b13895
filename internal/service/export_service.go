package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/config"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("导出文件生成失败")

// ExportService 导出业务接口
type ExportService interface {
	// CalendarICS 将课程期内的周循环事件展开为 iCalendar 日历
	CalendarICS(ctx context.Context, userID string) ([]byte, string, error)
	// StatisticsXLSX 导出考勤统计报表
	StatisticsXLSX(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	att    AttendanceService
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, att AttendanceService, logger *zap.Logger) ExportService {
	return &exportService{
		cfg:    cfg,
		repo:   repo,
		att:    att,
		loc:    cfg.Attendance.Location(),
		logger: logger,
	}
}

// ────────────────────── CalendarICS ──────────────────────

func (s *exportService) CalendarICS(ctx context.Context, userID string) ([]byte, string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if user.TimetableID == nil || user.CourseStart == nil || user.CourseEnd == nil {
		return nil, "", ErrNoTimetable
	}

	tt, err := s.repo.Timetable.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNoTimetable
		}
		return nil, "", err
	}
	engine := tt.ToEngine()

	start := attendance.DateOf(*user.CourseStart, s.loc)
	end := attendance.DateOf(*user.CourseEnd, s.loc)
	byDay, err := attendance.ExpandRange(start, end)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//RVCE Utility//Attendance//EN")
	now := time.Now()

	for _, day := range attendance.Weekdays {
		events := engine.EventsOn(day)
		if len(events) == 0 {
			continue
		}
		for _, date := range byDay[day] {
			for _, ev := range events {
				slot := engine.SlotByID(ev.SlotID)
				if slot == nil {
					continue
				}
				startAt := time.Date(date.Year, date.Month, date.Day, 0, slot.Start, 0, 0, s.loc)
				endMinute := slot.Start + ev.Duration*(slot.End-slot.Start)
				endAt := time.Date(date.Year, date.Month, date.Day, 0, endMinute, 0, 0, s.loc)

				summary := ev.CourseID
				if c := engine.CourseByID(ev.CourseID); c != nil && c.FullName != "" {
					summary = c.FullName
				}

				uid := fmt.Sprintf("%s-%s-%s@rvce-utility", date.String(), ev.CourseID, ev.SlotID)
				e := cal.AddEvent(uid)
				e.SetCreatedTime(now)
				e.SetDtStampTime(now)
				e.SetStartAt(startAt)
				e.SetEndAt(endAt)
				e.SetSummary(summary)
				if ev.Description != "" {
					e.SetDescription(ev.Description)
				}
			}
		}
	}

	filename := fmt.Sprintf("timetable_%s_%s.ics", start.String(), end.String())
	return []byte(cal.Serialize()), filename, nil
}

// ────────────────────── StatisticsXLSX ──────────────────────

func (s *exportService) StatisticsXLSX(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	stats, err := s.att.Statistics(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "考勤统计"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 16)
	f.SetColWidth(sheetName, "B", "H", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", "考勤统计报表")
	f.MergeCell(sheetName, "A1", "H1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	headers := []string{"课程", "应到", "出勤", "缺勤", "待定", "忽略", "出勤率(%)", "达标"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 2), h)
	}

	row := 3
	for _, cs := range stats.AttendanceState {
		eligible := "否"
		if cs.IsEligible {
			eligible = "是"
		}
		values := []interface{}{
			cs.CourseID, cs.TotalClasses, cs.Present, cs.Absent,
			cs.Pending, cs.Ignore, cs.AttendancePercentage, eligible,
		}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheetName, cell(col, row), v)
		}
		row++
	}

	overall := stats.OverallAttendanceState
	row++
	f.SetCellValue(sheetName, cell("A", row), "总计")
	f.SetCellValue(sheetName, cell("B", row), overall.TotalClasses)
	f.SetCellValue(sheetName, cell("C", row), overall.Present)
	f.SetCellValue(sheetName, cell("D", row), overall.Absent)
	f.SetCellValue(sheetName, cell("E", row), overall.Pending)
	f.SetCellValue(sheetName, cell("F", row), overall.Ignore)
	f.SetCellValue(sheetName, cell("G", row), overall.AttendancePercent)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("考勤统计_%s.xlsx", time.Now().In(s.loc).Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
