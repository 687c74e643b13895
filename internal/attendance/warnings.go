package attendance

// ── 数据质量告警 ──
//
// 源数据中的悬空引用、未知出勤标记等问题不会中断计算：对应条目
// 被跳过或降级（如空 display），并以 Warning 随结果返回，由调用
// 方记录日志或透出给前端。

// WarningKind 告警类别
type WarningKind string

const (
	// WarnDanglingSlot 事件引用了不存在的时间段
	WarnDanglingSlot WarningKind = "dangling_slot"
	// WarnDanglingCourse 事件引用了不存在的课程
	WarnDanglingCourse WarningKind = "dangling_course"
	// WarnUnknownMark 条目带有未知出勤标记
	WarnUnknownMark WarningKind = "unknown_mark"
	// WarnMissingCourseID 条目缺少课程标识
	WarnMissingCourseID WarningKind = "missing_course_id"
)

// Warning 一条被跳过/降级的数据质量问题
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Date     string      `json:"date,omitempty"`
	CourseID string      `json:"courseId,omitempty"`
	SlotID   string      `json:"slotId,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}
