package model

import (
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"
)

// Timetable 周课表 — 对应 timetables
//
// 上传时一次性创建，整体只读；重新上传时连同其全部子表与该用户的
// 考勤记录一起删除重建（delete-and-replace），事件不做原地修改。
type Timetable struct {
	TimetableID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	UserID      string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Class       string `gorm:"type:varchar(50)"                               json:"class,omitempty"` // 如 "5CSEB"
	BaseModel

	// 关联
	TimeSlots []TimeSlot       `gorm:"foreignKey:TimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"time_slots,omitempty"`
	Courses   []Course         `gorm:"foreignKey:TimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
	Events    []TimetableEvent `gorm:"foreignKey:TimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }

// TimeSlot 课表时间段 — 对应 time_slots
type TimeSlot struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"   json:"id"`
	TimetableID string `gorm:"type:uuid;not null;index"   json:"timetable_id"`
	SlotID      string `gorm:"type:varchar(20);not null"  json:"slot_id"`
	Display     string `gorm:"type:varchar(50);not null"  json:"display"`
	StartMinute int    `gorm:"not null"                   json:"start_minute"` // 自午夜起的分钟数
	EndMinute   int    `gorm:"not null"                   json:"end_minute"`
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }

// Course 课程 — 对应 courses
type Course struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"   json:"id"`
	TimetableID   string  `gorm:"type:uuid;not null;index"   json:"timetable_id"`
	Name          string  `gorm:"type:varchar(50);not null"  json:"name"` // 课程标识，事件以此引用
	FullName      string  `gorm:"type:varchar(200);not null" json:"full_name"`
	Kind          string  `gorm:"type:varchar(20);not null"  json:"kind"` // theory | lab | session
	Instructor    string  `gorm:"type:varchar(100)"          json:"instructor,omitempty"`
	ParentCourse  *string `gorm:"type:varchar(50)"           json:"parent_course,omitempty"` // 实验课挂靠的理论课
	MinAttendance int     `gorm:"not null;default:0"         json:"min_attendance"`          // 0 表示回退到用户级默认值
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// TimetableEvent 周循环事件 — 对应 timetable_events
type TimetableEvent struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	TimetableID string `gorm:"type:uuid;not null;index"  json:"timetable_id"`
	Day         string `gorm:"type:varchar(3);not null"  json:"day"`       // MON..FRI
	DayIndex    int    `gorm:"type:smallint;not null"    json:"day_index"` // 0-4
	CourseID    string `gorm:"type:varchar(50);not null" json:"course_id"`
	SlotID      string `gorm:"type:varchar(20);not null" json:"slot_id"`
	Duration    int    `gorm:"type:smallint;not null"    json:"duration"` // 1-2
	Description string `gorm:"type:text"                 json:"description,omitempty"`
}

// TableName 指定表名
func (TimetableEvent) TableName() string { return "timetable_events" }

// ToEngine 将持久化课表转换为考勤核心的只读课表值
func (t *Timetable) ToEngine() *attendance.Timetable {
	tt := &attendance.Timetable{
		TimeSlots: make([]attendance.TimeSlot, 0, len(t.TimeSlots)),
		Courses:   make([]attendance.Course, 0, len(t.Courses)),
		Events:    make([]attendance.Event, 0, len(t.Events)),
	}

	for _, s := range t.TimeSlots {
		tt.TimeSlots = append(tt.TimeSlots, attendance.TimeSlot{
			SlotID:  s.SlotID,
			Display: s.Display,
			Start:   s.StartMinute,
			End:     s.EndMinute,
		})
	}
	for _, c := range t.Courses {
		parent := ""
		if c.ParentCourse != nil {
			parent = *c.ParentCourse
		}
		tt.Courses = append(tt.Courses, attendance.Course{
			Name:          c.Name,
			FullName:      c.FullName,
			Kind:          attendance.CourseKind(c.Kind),
			Instructor:    c.Instructor,
			ParentCourse:  parent,
			MinAttendance: c.MinAttendance,
		})
	}
	for _, e := range t.Events {
		tt.Events = append(tt.Events, attendance.Event{
			Day:         attendance.Weekday(e.Day),
			DayIndex:    e.DayIndex,
			CourseID:    e.CourseID,
			SlotID:      e.SlotID,
			Duration:    e.Duration,
			Description: e.Description,
		})
	}

	return tt
}
