package attendance

import (
	"errors"
	"testing"
)

// ── ClassCount 预测 ──

func TestClassCount_BelowTarget(t *testing.T) {
	// M=75, P=10, A=5 → requiredPresent=5
	p, err := ClassCount(75, 10, 5)
	if err != nil {
		t.Fatalf("ClassCount 应成功: %v", err)
	}
	if p.RequiredPresent != 5 || p.AllowedAbsent != 0 || p.Unlimited {
		t.Errorf("期望 {5,0}，实际 %+v", p)
	}
}

func TestClassCount_AlreadyEligible(t *testing.T) {
	// M=75, P=20, A=2 → allowedAbsent=4
	p, err := ClassCount(75, 20, 2)
	if err != nil {
		t.Fatalf("ClassCount 应成功: %v", err)
	}
	if p.RequiredPresent != 0 || p.AllowedAbsent != 4 {
		t.Errorf("期望 {0,4}，实际 %+v", p)
	}
}

func TestClassCount_HundredPercent(t *testing.T) {
	// M=100, P=5, A=3 → requiredPresent=A+1=4
	p, err := ClassCount(100, 5, 3)
	if err != nil {
		t.Fatalf("ClassCount 应成功: %v", err)
	}
	if p.RequiredPresent != 4 || p.AllowedAbsent != 0 {
		t.Errorf("期望 {4,0}，实际 %+v", p)
	}
}

func TestClassCount_ZeroTarget(t *testing.T) {
	p, err := ClassCount(0, 3, 10)
	if err != nil {
		t.Fatalf("ClassCount 应成功: %v", err)
	}
	if !p.Unlimited || p.RequiredPresent != 0 {
		t.Errorf("M=0 时应为无限缺勤: %+v", p)
	}
}

func TestClassCount_NoClassesHeld(t *testing.T) {
	p, err := ClassCount(75, 0, 0)
	if err != nil {
		t.Fatalf("ClassCount 应成功: %v", err)
	}
	if p.RequiredPresent != 0 || p.AllowedAbsent != 0 || p.Unlimited {
		t.Errorf("尚无已结课次应返回双零: %+v", p)
	}
}

func TestClassCount_MinimalInteger(t *testing.T) {
	// requiredPresent 必须是满足 (P+x)/(held+x) ≥ M/100 的最小整数
	p, err := ClassCount(75, 10, 5)
	if err != nil {
		t.Fatalf("ClassCount 应成功: %v", err)
	}
	x := p.RequiredPresent
	held := 15
	if float64(10+x)/float64(held+x) < 0.75 {
		t.Errorf("x=%d 不满足目标出勤率", x)
	}
	if x > 0 && float64(10+x-1)/float64(held+x-1) >= 0.75 {
		t.Errorf("x=%d 不是最小解", x)
	}
}

func TestClassCount_InvalidParameters(t *testing.T) {
	cases := []struct{ m, p, a int }{
		{-1, 1, 1}, {101, 1, 1}, {75, -1, 1}, {75, 1, -1},
	}
	for _, c := range cases {
		if _, err := ClassCount(c.m, c.p, c.a); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("(%d,%d,%d) 期望 ErrInvalidParameter，实际 %v", c.m, c.p, c.a, err)
		}
	}
}

// ── Aggregate 汇总 ──

// statsTimetable 周一 CS101、周三 CS101+MA102 的课表
func statsTimetable() *Timetable {
	return &Timetable{
		TimeSlots: []TimeSlot{
			{SlotID: "S1", Display: "9–10am", Start: 540, End: 600},
			{SlotID: "S2", Display: "10–11am", Start: 600, End: 660},
		},
		Courses: []Course{
			{Name: "CS101", FullName: "数据结构", Kind: KindTheory, MinAttendance: 75},
			{Name: "MA102", FullName: "线性代数", Kind: KindTheory}, // 回退用户默认
		},
		Events: []Event{
			{Day: Monday, DayIndex: 0, CourseID: "CS101", SlotID: "S1", Duration: 1},
			{Day: Wednesday, DayIndex: 2, CourseID: "CS101", SlotID: "S1", Duration: 1},
			{Day: Wednesday, DayIndex: 2, CourseID: "MA102", SlotID: "S2", Duration: 1},
		},
	}
}

func findCourse(t *testing.T, report *Report, courseID string) *CourseStat {
	t.Helper()
	for i := range report.AttendanceState {
		if report.AttendanceState[i].CourseID == courseID {
			return &report.AttendanceState[i]
		}
	}
	t.Fatalf("统计结果中缺少课程 %s", courseID)
	return nil
}

func TestAggregate_CountsAndTotals(t *testing.T) {
	tt := statsTimetable()
	// 范围 2025-01-06(周一) 到 2025-01-19(周日)：每个星期各 2 天
	start, end := mustDate(t, "2025-01-06"), mustDate(t, "2025-01-19")

	records := []DayRecord{
		{Date: mustDate(t, "2025-01-06"), Occurrences: []Occurrence{
			{Day: Monday, CourseID: "CS101", SlotID: "S1", Attendance: MarkPresent},
		}},
		{Date: mustDate(t, "2025-01-08"), Occurrences: []Occurrence{
			{Day: Wednesday, CourseID: "CS101", SlotID: "S1", Attendance: MarkAbsent},
			{Day: Wednesday, CourseID: "MA102", SlotID: "S2", Attendance: MarkPending},
		}},
		{Date: mustDate(t, "2025-01-13"), Occurrences: []Occurrence{
			{Day: Monday, CourseID: "CS101", SlotID: "S1", Attendance: MarkPresent},
			// 周一的手工加课
			{Day: Monday, CourseID: "CS101", SlotID: "S2", Attendance: MarkPresent, Custom: true},
		}},
		// 周六的手工条目：只有 custom 计入总课次
		{Date: mustDate(t, "2025-01-11"), Occurrences: []Occurrence{
			{Day: Saturday, CourseID: "MA102", SlotID: "S1", Attendance: MarkPresent, Custom: true},
		}},
	}

	report, err := Aggregate(tt, records, start, end, 75)
	if err != nil {
		t.Fatalf("Aggregate 应成功: %v", err)
	}

	cs := findCourse(t, report, "CS101")
	if cs.Present != 3 || cs.Absent != 1 || cs.Pending != 0 || cs.Ignore != 0 {
		t.Errorf("CS101 计数错误: %+v", cs)
	}
	// 周一 2 天×1 事件 + 周三 2 天×1 事件 + 周一手工 1 = 5
	if cs.TotalClasses != 5 {
		t.Errorf("CS101 总课次期望 5，实际 %d", cs.TotalClasses)
	}
	// 3/(3+1)=75% ≥ 75
	if cs.AttendancePercentage != 75 || !cs.IsEligible {
		t.Errorf("CS101 出勤率判定错误: %+v", cs)
	}

	ma := findCourse(t, report, "MA102")
	if ma.Present != 1 || ma.Pending != 1 {
		t.Errorf("MA102 计数错误: %+v", ma)
	}
	// 周三 2 天×1 事件 + 周六手工 1 = 3
	if ma.TotalClasses != 3 {
		t.Errorf("MA102 总课次期望 3，实际 %d", ma.TotalClasses)
	}
	// 未设课程覆盖值，回退用户默认 75
	if ma.MinAttendance != 75 {
		t.Errorf("MA102 应回退用户默认出勤率: %+v", ma)
	}

	overall := report.OverallAttendanceState
	if overall.Present != 4 || overall.Absent != 1 || overall.Pending != 1 {
		t.Errorf("全局汇总错误: %+v", overall)
	}
	// round(4/5×100) = 80
	if overall.AttendancePercent != 80 {
		t.Errorf("全局出勤率期望 80，实际 %d", overall.AttendancePercent)
	}
	if overall.TotalClasses != 8 {
		t.Errorf("全局总课次期望 8，实际 %d", overall.TotalClasses)
	}
}

func TestAggregate_CourseWithNoRecordsStillListed(t *testing.T) {
	tt := statsTimetable()
	report, err := Aggregate(tt, nil, mustDate(t, "2025-01-06"), mustDate(t, "2025-01-12"), 75)
	if err != nil {
		t.Fatalf("Aggregate 应成功: %v", err)
	}

	ma := findCourse(t, report, "MA102")
	if ma.Present != 0 || ma.Absent != 0 || ma.Pending != 0 || ma.Ignore != 0 {
		t.Errorf("无记录课程应为全零计数: %+v", ma)
	}
	if ma.IsEligible {
		t.Error("尚无已结课次的课程不应判定为合格")
	}
	if ma.AttendancePercentage != 0 {
		t.Errorf("零分母出勤率应为 0，实际 %d", ma.AttendancePercentage)
	}
}

func TestAggregate_UnknownMarkSkippedWithWarning(t *testing.T) {
	tt := statsTimetable()
	records := []DayRecord{
		{Date: mustDate(t, "2025-01-06"), Occurrences: []Occurrence{
			{Day: Monday, CourseID: "CS101", SlotID: "S1", Attendance: Mark("maybe")},
			{Day: Monday, CourseID: "CS101", SlotID: "S2", Attendance: MarkPresent, Custom: true},
		}},
	}

	report, err := Aggregate(tt, records, mustDate(t, "2025-01-06"), mustDate(t, "2025-01-12"), 75)
	if err != nil {
		t.Fatalf("未知标记不应导致失败: %v", err)
	}

	cs := findCourse(t, report, "CS101")
	if cs.Present != 1 {
		t.Errorf("未知标记条目不应计数: %+v", cs)
	}

	found := false
	for _, w := range report.Warnings {
		if w.Kind == WarnUnknownMark && w.CourseID == "CS101" {
			found = true
		}
	}
	if !found {
		t.Errorf("应产生 unknown_mark 告警: %v", report.Warnings)
	}
}

func TestAggregate_MissingCourseIDSkippedWithWarning(t *testing.T) {
	tt := statsTimetable()
	records := []DayRecord{
		{Date: mustDate(t, "2025-01-06"), Occurrences: []Occurrence{
			{Day: Monday, CourseID: "", SlotID: "S1", Attendance: MarkPresent},
		}},
	}

	report, err := Aggregate(tt, records, mustDate(t, "2025-01-06"), mustDate(t, "2025-01-12"), 75)
	if err != nil {
		t.Fatalf("缺课程标识不应导致失败: %v", err)
	}

	found := false
	for _, w := range report.Warnings {
		if w.Kind == WarnMissingCourseID {
			found = true
		}
	}
	if !found {
		t.Errorf("应产生 missing_course_id 告警: %v", report.Warnings)
	}
}

func TestAggregate_DanglingCourseUsesDefault(t *testing.T) {
	tt := statsTimetable()
	records := []DayRecord{
		{Date: mustDate(t, "2025-01-06"), Occurrences: []Occurrence{
			{Day: Monday, CourseID: "GHOST", SlotID: "S1", Attendance: MarkPresent},
		}},
	}

	report, err := Aggregate(tt, records, mustDate(t, "2025-01-06"), mustDate(t, "2025-01-12"), 80)
	if err != nil {
		t.Fatalf("Aggregate 应成功: %v", err)
	}

	ghost := findCourse(t, report, "GHOST")
	if ghost.MinAttendance != 80 {
		t.Errorf("课表外课程应使用用户默认出勤率: %+v", ghost)
	}

	found := false
	for _, w := range report.Warnings {
		if w.Kind == WarnDanglingCourse && w.CourseID == "GHOST" {
			found = true
		}
	}
	if !found {
		t.Errorf("应产生 dangling_course 告警: %v", report.Warnings)
	}
}

func TestAggregate_InvalidRange(t *testing.T) {
	_, err := Aggregate(statsTimetable(), nil,
		mustDate(t, "2025-01-12"), mustDate(t, "2025-01-06"), 75)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("期望 ErrInvalidRange，实际 %v", err)
	}
}

func TestAggregate_InvalidDefaultMin(t *testing.T) {
	_, err := Aggregate(statsTimetable(), nil,
		mustDate(t, "2025-01-06"), mustDate(t, "2025-01-12"), 130)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("期望 ErrInvalidParameter，实际 %v", err)
	}
}

func TestAggregate_RoundingHalfUp(t *testing.T) {
	tt := statsTimetable()
	// present=1, absent=2 → 33.33 → 33；present=2, absent=1 → 66.67 → 67
	records := []DayRecord{
		{Date: mustDate(t, "2025-01-06"), Occurrences: []Occurrence{
			{Day: Monday, CourseID: "CS101", SlotID: "S1", Attendance: MarkPresent},
			{Day: Monday, CourseID: "MA102", SlotID: "S2", Attendance: MarkPresent, Custom: true},
		}},
		{Date: mustDate(t, "2025-01-08"), Occurrences: []Occurrence{
			{Day: Wednesday, CourseID: "CS101", SlotID: "S1", Attendance: MarkAbsent},
			{Day: Wednesday, CourseID: "MA102", SlotID: "S2", Attendance: MarkPresent},
		}},
		{Date: mustDate(t, "2025-01-13"), Occurrences: []Occurrence{
			{Day: Monday, CourseID: "CS101", SlotID: "S1", Attendance: MarkAbsent},
			{Day: Monday, CourseID: "MA102", SlotID: "S2", Attendance: MarkAbsent, Custom: true},
		}},
	}

	report, err := Aggregate(tt, records, mustDate(t, "2025-01-06"), mustDate(t, "2025-01-19"), 75)
	if err != nil {
		t.Fatalf("Aggregate 应成功: %v", err)
	}

	if cs := findCourse(t, report, "CS101"); cs.AttendancePercentage != 33 {
		t.Errorf("CS101 期望 33%%，实际 %d%%", cs.AttendancePercentage)
	}
	if ma := findCourse(t, report, "MA102"); ma.AttendancePercentage != 67 {
		t.Errorf("MA102 期望 67%%，实际 %d%%", ma.AttendancePercentage)
	}
}
