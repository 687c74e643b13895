package attendance

import "fmt"

// ── 考勤记录物化（Attendance Materializer）────────────────
//
// DayRecord 按日期惰性生成：首次访问某个日期时，由周课表派生该
// 日的课程条目并落库；之后的访问原样返回已存在的记录。落库端的
// "不存在才插入"原子性由持久化层保证（ON CONFLICT DO NOTHING），
// 本包只做纯决策。
// ─────────────────────────────────────────────────────────────

// Boundary 目标日期相对课程范围的位置
type Boundary string

const (
	// BoundaryNone 目标日期在课程范围内
	BoundaryNone Boundary = "none"
	// BoundaryBeforeStart 目标日期早于课程开始，返回空列表且不建记录
	BoundaryBeforeStart Boundary = "before_start"
	// BoundaryAfterEnd 目标日期晚于课程结束，按既定策略返回结束日的记录
	BoundaryAfterEnd Boundary = "after_end"
)

// DayResolution ResolveDay 的决策结果
type DayResolution struct {
	Record   *DayRecord
	Created  bool // Record 是新构造的，调用方需要执行条件插入
	Boundary Boundary
	Warnings []Warning
}

// BuildDayTable 由周课表派生指定日期的课程条目。
// 每个条目的 display 取自事件引用的时间段并就此固化；引用悬空时
// 降级为空串并产生告警。出勤标记初始为 pending，custom=false。
func BuildDayTable(tt *Timetable, date Date) ([]Occurrence, []Warning) {
	var warnings []Warning
	day := date.Weekday()

	events := tt.EventsOn(day)
	occs := make([]Occurrence, 0, len(events))
	for _, e := range events {
		if e.CourseID == "" {
			warnings = append(warnings, Warning{
				Kind:   WarnMissingCourseID,
				Date:   date.String(),
				SlotID: e.SlotID,
				Detail: "事件缺少课程标识，已跳过",
			})
			continue
		}

		display := ""
		if slot := tt.SlotByID(e.SlotID); slot != nil {
			display = slot.Display
		} else {
			warnings = append(warnings, Warning{
				Kind:     WarnDanglingSlot,
				Date:     date.String(),
				CourseID: e.CourseID,
				SlotID:   e.SlotID,
				Detail:   fmt.Sprintf("事件引用的时间段 %q 不存在，display 置空", e.SlotID),
			})
		}

		occs = append(occs, Occurrence{
			Day:         e.Day,
			DayIndex:    e.DayIndex,
			CourseID:    e.CourseID,
			SlotID:      e.SlotID,
			Duration:    e.Duration,
			Attendance:  MarkPending,
			Display:     display,
			Custom:      false,
			Description: e.Description,
		})
	}

	return occs, warnings
}

// ResolveDay 物化决策：给定课程范围、已有记录查询与目标日期，
// 决定返回什么记录以及是否需要新建。
//
// 边界策略（见 DESIGN.md）：
//   - 早于课程开始：返回空列表，不建记录；
//   - 晚于课程结束：返回课程结束日的既有记录（无则空列表）。
//
// existing 返回指定日期的既有记录，不存在时返回 nil。
func ResolveDay(tt *Timetable, start, end Date, target Date, existing func(Date) *DayRecord) (*DayResolution, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	if target.Before(start) {
		return &DayResolution{
			Record:   &DayRecord{Date: target, Occurrences: []Occurrence{}},
			Boundary: BoundaryBeforeStart,
		}, nil
	}

	if target.After(end) {
		rec := existing(end)
		if rec == nil {
			rec = &DayRecord{Date: end, Occurrences: []Occurrence{}}
		}
		return &DayResolution{Record: rec, Boundary: BoundaryAfterEnd}, nil
	}

	if rec := existing(target); rec != nil {
		return &DayResolution{Record: rec, Boundary: BoundaryNone}, nil
	}

	occs, warnings := BuildDayTable(tt, target)
	return &DayResolution{
		Record:   &DayRecord{Date: target, Occurrences: occs},
		Created:  true,
		Boundary: BoundaryNone,
		Warnings: warnings,
	}, nil
}

// AddOccurrence 向既有记录追加一个手工条目
func AddOccurrence(rec *DayRecord, occ Occurrence) {
	rec.Occurrences = append(rec.Occurrences, occ)
}

// RemoveOccurrence 删除第一个匹配 (slotID, courseID) 的条目。
// 无匹配时返回 ErrOccurrenceNotFound；删除不是幂等操作，重复删除
// 同一对会失败。
func RemoveOccurrence(rec *DayRecord, slotID, courseID string) error {
	for i, occ := range rec.Occurrences {
		if occ.SlotID == slotID && occ.CourseID == courseID {
			rec.Occurrences = append(rec.Occurrences[:i], rec.Occurrences[i+1:]...)
			return nil
		}
	}
	return ErrOccurrenceNotFound
}

// ReplaceOccurrences 整体替换当日条目（用于批量标记出勤）
func ReplaceOccurrences(rec *DayRecord, occs []Occurrence) {
	rec.Occurrences = occs
}
