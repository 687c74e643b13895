package attendance

// ── 周课表与课程条目 ──────────────────────────────────────
//
// Timetable 是一次性上传、整体只读的周循环模板；Occurrence 是
// 某个具体日期上的一次课，要么由模板派生（custom=false），要么
// 由用户手工添加（custom=true）。所有结构都是封闭字段集，出勤
// 标记是四值枚举，不使用开放 map。
// ─────────────────────────────────────────────────────────────

// Mark 出勤标记，四值枚举
type Mark string

const (
	MarkPending Mark = "pending"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
	MarkIgnore  Mark = "ignore"
)

// Valid 是否为已知标记
func (m Mark) Valid() bool {
	switch m {
	case MarkPending, MarkPresent, MarkAbsent, MarkIgnore:
		return true
	}
	return false
}

// CourseKind 课程类型
type CourseKind string

const (
	KindTheory  CourseKind = "theory"
	KindLab     CourseKind = "lab"
	KindSession CourseKind = "session"
)

// TimeSlot 课表时间段定义
type TimeSlot struct {
	SlotID  string `json:"slotId"`
	Display string `json:"display"`
	Start   int    `json:"start"` // 自午夜起的分钟数
	End     int    `json:"end"`
}

// Course 课程定义
type Course struct {
	Name          string     `json:"name"` // 课程标识，事件以此引用
	FullName      string     `json:"fullName"`
	Kind          CourseKind `json:"type"`
	Instructor    string     `json:"instructor,omitempty"`
	ParentCourse  string     `json:"parentCourse,omitempty"`  // 实验课挂靠的理论课
	MinAttendance int        `json:"minAttendance,omitempty"` // 0 表示回退到用户级默认值
}

// Event 周循环事件，仅限工作日 MON..FRI
type Event struct {
	Day         Weekday `json:"day"`
	DayIndex    int     `json:"dayIndex"` // 0-4
	CourseID    string  `json:"courseId"`
	SlotID      string  `json:"slotId"`
	Duration    int     `json:"duration"` // 占用的时间段数，1-2
	Description string  `json:"description,omitempty"`
}

// Timetable 周循环课表模板
type Timetable struct {
	TimeSlots []TimeSlot `json:"timeSlots"`
	Courses   []Course   `json:"courses"`
	Events    []Event    `json:"events"`
}

// SlotByID 按 slotId 查找时间段，未找到返回 nil
func (t *Timetable) SlotByID(slotID string) *TimeSlot {
	for i := range t.TimeSlots {
		if t.TimeSlots[i].SlotID == slotID {
			return &t.TimeSlots[i]
		}
	}
	return nil
}

// CourseByID 按课程标识查找课程，未找到返回 nil
func (t *Timetable) CourseByID(courseID string) *Course {
	for i := range t.Courses {
		if t.Courses[i].Name == courseID {
			return &t.Courses[i]
		}
	}
	return nil
}

// EventsOn 返回指定星期的全部循环事件
func (t *Timetable) EventsOn(day Weekday) []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// Occurrence 某个日期上的一次课
//
// Display 在条目创建时从时间段解析并固化，此后课表变更不回写
// 历史记录。
type Occurrence struct {
	Day         Weekday `json:"day"`
	DayIndex    int     `json:"dayIndex"`
	CourseID    string  `json:"courseId"`
	SlotID      string  `json:"slotId"`
	Duration    int     `json:"duration"`
	Attendance  Mark    `json:"attendance"`
	Display     string  `json:"display"`
	Custom      bool    `json:"custom"`
	Description string  `json:"description,omitempty"`
}

// DayRecord 某个日期的全部课程条目
type DayRecord struct {
	Date        Date
	Occurrences []Occurrence
}
