package service

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
)

// ErrBadWorkbook Excel 课表无法解析
var ErrBadWorkbook = errors.New("课表工作簿格式错误")

// 工作簿约定:
//   Meta      — A 列键 / B 列值: class, courseStart, courseEnd
//   TimeSlots — slotId | display | start | end（分钟数）
//   Courses   — name | fullName | kind | instructor | parentCourse | minAttendance
//   Events    — day | courseId | slotId | duration | description
// 各数据表首行为表头，解析时跳过。
func parseTimetableXLSX(data []byte) (*dto.UploadTimetableRequest, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer f.Close()

	req := &dto.UploadTimetableRequest{}

	meta, err := f.GetRows("Meta")
	if err != nil {
		return nil, fmt.Errorf("%w: 缺少 Meta 表", ErrBadWorkbook)
	}
	for _, row := range meta {
		if len(row) < 2 {
			continue
		}
		switch strings.TrimSpace(row[0]) {
		case "class":
			req.Class = strings.TrimSpace(row[1])
		case "courseStart":
			req.CourseStart = strings.TrimSpace(row[1])
		case "courseEnd":
			req.CourseEnd = strings.TrimSpace(row[1])
		}
	}
	if req.CourseStart == "" || req.CourseEnd == "" {
		return nil, fmt.Errorf("%w: Meta 表缺少课程起止日期", ErrBadWorkbook)
	}

	slots, err := f.GetRows("TimeSlots")
	if err != nil {
		return nil, fmt.Errorf("%w: 缺少 TimeSlots 表", ErrBadWorkbook)
	}
	for i, row := range slots {
		if i == 0 || isBlankRow(row) {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("%w: TimeSlots 第 %d 行列数不足", ErrBadWorkbook, i+1)
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(row[2]))
		end, err2 := strconv.Atoi(strings.TrimSpace(row[3]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: TimeSlots 第 %d 行时间非法", ErrBadWorkbook, i+1)
		}
		req.TimeSlots = append(req.TimeSlots, dto.TimeSlotPayload{
			SlotID:  strings.TrimSpace(row[0]),
			Display: strings.TrimSpace(row[1]),
			Start:   start,
			End:     end,
		})
	}

	courses, err := f.GetRows("Courses")
	if err != nil {
		return nil, fmt.Errorf("%w: 缺少 Courses 表", ErrBadWorkbook)
	}
	for i, row := range courses {
		if i == 0 || isBlankRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: Courses 第 %d 行列数不足", ErrBadWorkbook, i+1)
		}
		c := dto.CoursePayload{
			Name:     strings.TrimSpace(row[0]),
			FullName: strings.TrimSpace(row[1]),
			Kind:     strings.TrimSpace(row[2]),
		}
		if len(row) > 3 {
			c.Instructor = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			c.ParentCourse = strings.TrimSpace(row[4])
		}
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			min, err := strconv.Atoi(strings.TrimSpace(row[5]))
			if err != nil || min < 0 || min > 100 {
				return nil, fmt.Errorf("%w: Courses 第 %d 行最低出勤率非法", ErrBadWorkbook, i+1)
			}
			c.MinAttendance = min
		}
		req.Courses = append(req.Courses, c)
	}

	events, err := f.GetRows("Events")
	if err != nil {
		return nil, fmt.Errorf("%w: 缺少 Events 表", ErrBadWorkbook)
	}
	for i, row := range events {
		if i == 0 || isBlankRow(row) {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("%w: Events 第 %d 行列数不足", ErrBadWorkbook, i+1)
		}
		day := attendance.Weekday(strings.ToUpper(strings.TrimSpace(row[0])))
		idx := day.Index()
		if idx < 0 || day.IsWeekend() {
			return nil, fmt.Errorf("%w: Events 第 %d 行星期非法", ErrBadWorkbook, i+1)
		}
		duration, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil || duration < 1 || duration > 2 {
			return nil, fmt.Errorf("%w: Events 第 %d 行课时非法", ErrBadWorkbook, i+1)
		}
		e := dto.EventPayload{
			Day:      string(day),
			DayIndex: idx,
			CourseID: strings.TrimSpace(row[1]),
			SlotID:   strings.TrimSpace(row[2]),
			Duration: duration,
		}
		if len(row) > 4 {
			e.Description = strings.TrimSpace(row[4])
		}
		req.Events = append(req.Events, e)
	}

	if len(req.TimeSlots) == 0 || len(req.Courses) == 0 {
		return nil, fmt.Errorf("%w: 时间段与课程不能为空", ErrBadWorkbook)
	}
	return req, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
