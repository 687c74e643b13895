package dto

import "github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"

// ── 考勤模块 DTO ──

// DayRequest 按日期定位（或按需创建）日记录
type DayRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

// DayResponse 单日考勤
type DayResponse struct {
	Date        string                  `json:"date"`
	Occurrences []attendance.Occurrence `json:"dayTimeTable"`
	Created     bool                    `json:"created"`            // 本次请求是否新建
	Boundary    string                  `json:"boundary,omitempty"` // before_start | after_end
}

// AddOccurrenceRequest 追加自定义课次
type AddOccurrenceRequest struct {
	Date        string          `json:"date"     binding:"required"`
	CourseID    string          `json:"courseId" binding:"required"`
	SlotID      string          `json:"slotId"   binding:"required"`
	Duration    int             `json:"duration" binding:"omitempty,min=1,max=2"` // 缺省按 1 处理
	Attendance  attendance.Mark `json:"attendance,omitempty"`                     // 缺省按 pending 处理
	Description string          `json:"description,omitempty"`
}

// RemoveOccurrenceRequest 删除课次（首个 slotId+courseId 匹配项）
type RemoveOccurrenceRequest struct {
	Date     string `json:"date"     binding:"required"`
	CourseID string `json:"courseId" binding:"required"`
	SlotID   string `json:"slotId"   binding:"required"`
}

// UpdateDayRequest 整日课次替换（逐项标记后回写）
type UpdateDayRequest struct {
	Date        string                  `json:"date"         binding:"required"`
	Occurrences []attendance.Occurrence `json:"dayTimeTable" binding:"required"`
}

// StatisticsResponse 考勤统计报表，布局与前端消费端约定一致
type StatisticsResponse struct {
	AttendanceState        []attendance.CourseStat `json:"attendanceState"`
	OverallAttendanceState attendance.OverallStat  `json:"overallAttendanceState"`
	Warnings               []attendance.Warning    `json:"warnings,omitempty"`
	Cached                 bool                    `json:"cached"`
}
