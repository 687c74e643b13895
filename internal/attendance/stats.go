package attendance

import (
	"fmt"
	"math"
)

// ── 出勤统计（Statistics Aggregator）──────────────────────
//
// 输入：周课表、全部历史 DayRecord、课程日期范围、用户级最低出勤
// 率默认值。输出：逐课程的四类计数 + 总课次 + 出勤率 + 资格判定 +
// 课次预测，以及全局汇总。计算过程中发现的数据质量问题以 Warning
// 列表返回，不中断。
// ─────────────────────────────────────────────────────────────

// Projection 课次预测：还需出勤多少次 / 还可缺勤多少次
type Projection struct {
	RequiredPresent int  `json:"requiredPresent"`
	AllowedAbsent   int  `json:"allowedAbsent"`
	Unlimited       bool `json:"unlimited,omitempty"` // 最低出勤率为 0 时可无限缺勤
}

// CourseStat 单课程出勤统计
type CourseStat struct {
	CourseID             string     `json:"courseId"`
	Pending              int        `json:"pending"`
	Absent               int        `json:"absent"`
	Present              int        `json:"present"`
	Ignore               int        `json:"ignore"`
	TotalClasses         int        `json:"totalClasses"`
	MinAttendance        int        `json:"minAttendance"`
	AttendancePercentage int        `json:"attendancePercentage"`
	IsEligible           bool       `json:"isEligible"`
	ClassCount           Projection `json:"classCount"`
}

// OverallStat 全部课程汇总
type OverallStat struct {
	Present           int `json:"present"`
	Absent            int `json:"absent"`
	Pending           int `json:"pending"`
	Ignore            int `json:"ignore"`
	TotalClasses      int `json:"totalClasses"`
	AttendancePercent int `json:"attendancePercent"`
}

// Report 统计结果
type Report struct {
	AttendanceState        []CourseStat `json:"attendanceState"`
	OverallAttendanceState OverallStat  `json:"overallAttendanceState"`
	Warnings               []Warning    `json:"warnings,omitempty"`
}

// ClassCount 课次预测。
//
// 给定最低出勤率 M（0-100）、已出勤 P、已缺勤 A，totalClassesHeld
// = P+A：
//   - 尚无已结课次：双零；
//   - 当前出勤率低于 M：requiredPresent 为满足
//     (P+x)/(held+x) ≥ M/100 的最小整数 x（M=100 时为 A+1）；
//   - 已达标：allowedAbsent 为满足 P/(held+x) ≥ M/100 的最大整数
//     x（M=0 时无约束，Unlimited=true）。
//
// M ∉ [0,100] 或计数为负时返回 ErrInvalidParameter。
func ClassCount(minAttendance, present, absent int) (Projection, error) {
	if minAttendance < 0 || minAttendance > 100 {
		return Projection{}, fmt.Errorf("最低出勤率 %d 不在 [0,100] 内: %w", minAttendance, ErrInvalidParameter)
	}
	if present < 0 || absent < 0 {
		return Projection{}, fmt.Errorf("出勤/缺勤计数不能为负: %w", ErrInvalidParameter)
	}

	held := present + absent
	if held == 0 {
		return Projection{}, nil
	}

	current := float64(present) / float64(held) * 100

	if current < float64(minAttendance) {
		if minAttendance == 100 {
			return Projection{RequiredPresent: absent + 1}, nil
		}
		required := int(math.Ceil(
			float64(minAttendance*held-100*present) / float64(100-minAttendance),
		))
		return Projection{RequiredPresent: required}, nil
	}

	if minAttendance == 0 {
		return Projection{Unlimited: true}, nil
	}
	allowed := int(math.Floor(float64(present*100)/float64(minAttendance) - float64(held)))
	return Projection{AllowedAbsent: allowed}, nil
}

// Aggregate 汇总全量考勤历史。
//
// defaultMinAttendance 为用户级最低出勤率；课程自身的 MinAttendance
// 大于 0 时覆盖默认值。
func Aggregate(tt *Timetable, records []DayRecord, start, end Date, defaultMinAttendance int) (*Report, error) {
	if defaultMinAttendance < 0 || defaultMinAttendance > 100 {
		return nil, fmt.Errorf("用户级最低出勤率 %d 不在 [0,100] 内: %w", defaultMinAttendance, ErrInvalidParameter)
	}

	histogram, err := CountByWeekday(start, end)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	stats := make(map[string]*CourseStat)
	var order []string

	ensure := func(courseID string) *CourseStat {
		if s, ok := stats[courseID]; ok {
			return s
		}
		s := &CourseStat{CourseID: courseID}
		stats[courseID] = s
		order = append(order, courseID)
		return s
	}

	// 1. 扫描历史记录，按标记累加四类计数
	for _, rec := range records {
		for _, occ := range rec.Occurrences {
			if occ.CourseID == "" {
				warnings = append(warnings, Warning{
					Kind:   WarnMissingCourseID,
					Date:   rec.Date.String(),
					SlotID: occ.SlotID,
					Detail: "条目缺少课程标识，已跳过",
				})
				continue
			}

			s := ensure(occ.CourseID)
			switch occ.Attendance {
			case MarkPending:
				s.Pending++
			case MarkPresent:
				s.Present++
			case MarkAbsent:
				s.Absent++
			case MarkIgnore:
				s.Ignore++
			default:
				warnings = append(warnings, Warning{
					Kind:     WarnUnknownMark,
					Date:     rec.Date.String(),
					CourseID: occ.CourseID,
					Detail:   fmt.Sprintf("未知出勤标记 %q，已跳过", occ.Attendance),
				})
			}
		}
	}

	// 2. 课表中出现但尚无任何记录的课程也要有全零统计项
	for _, e := range tt.Events {
		if e.CourseID == "" {
			warnings = append(warnings, Warning{
				Kind:   WarnMissingCourseID,
				SlotID: e.SlotID,
				Detail: "课表事件缺少课程标识，已跳过",
			})
			continue
		}
		ensure(e.CourseID)
	}

	// 3. 总课次 = 周循环次数 × 星期出现天数 + 手工条目
	//    工作日：每个星期几统计一次该星期的手工条目；
	//    周末：课表不含周末循环事件，只数手工条目。
	customByDay := make(map[Weekday]map[string]int)
	for _, rec := range records {
		day := rec.Date.Weekday()
		for _, occ := range rec.Occurrences {
			if !occ.Custom || occ.CourseID == "" {
				continue
			}
			if customByDay[day] == nil {
				customByDay[day] = make(map[string]int)
			}
			customByDay[day][occ.CourseID]++
		}
	}

	for _, day := range Weekdays {
		if day.IsWeekend() {
			for courseID, n := range customByDay[day] {
				if s, ok := stats[courseID]; ok {
					s.TotalClasses += n
				}
			}
			continue
		}

		count := histogram[day]
		for _, e := range tt.EventsOn(day) {
			if e.CourseID == "" {
				continue
			}
			if s, ok := stats[e.CourseID]; ok {
				s.TotalClasses += count
			}
		}
		for courseID, n := range customByDay[day] {
			if s, ok := stats[courseID]; ok {
				s.TotalClasses += n
			}
		}
	}

	// 4. 逐课程出勤率、资格与预测
	result := make([]CourseStat, 0, len(order))
	var overall OverallStat
	for _, courseID := range order {
		s := stats[courseID]

		minAttendance := defaultMinAttendance
		if course := tt.CourseByID(courseID); course != nil {
			if course.MinAttendance > 0 {
				minAttendance = course.MinAttendance
			}
		} else {
			warnings = append(warnings, Warning{
				Kind:     WarnDanglingCourse,
				CourseID: courseID,
				Detail:   "历史记录引用的课程不在课表中，按用户默认出勤率计算",
			})
		}
		s.MinAttendance = minAttendance

		held := s.Present + s.Absent
		if held > 0 {
			ratio := float64(s.Present) / float64(held) * 100
			s.AttendancePercentage = int(math.Round(ratio))
			s.IsEligible = ratio >= float64(minAttendance)
		}

		projection, err := ClassCount(minAttendance, s.Present, s.Absent)
		if err != nil {
			return nil, err
		}
		s.ClassCount = projection

		overall.Present += s.Present
		overall.Absent += s.Absent
		overall.Pending += s.Pending
		overall.Ignore += s.Ignore
		overall.TotalClasses += s.TotalClasses

		result = append(result, *s)
	}

	if held := overall.Present + overall.Absent; held > 0 {
		overall.AttendancePercent = int(math.Round(float64(overall.Present) / float64(held) * 100))
	}

	return &Report{
		AttendanceState:        result,
		OverallAttendanceState: overall,
		Warnings:               warnings,
	}, nil
}
