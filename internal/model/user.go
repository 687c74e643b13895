package model

import "time"

// 用户角色
const (
	RoleStudent = "student"
	RoleManager = "manager" // 资源贡献审核员
	RoleAdmin   = "admin"
)

// User 用户表 — 对应 users
//
// 每个用户持有至多一份有效课表引用和一组按日期排列的考勤记录
// （1:1 组合，无跨用户共享）。课程起止日期与用户级最低出勤率在
// 课表上传时写入。
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	ImageURL     string `gorm:"type:text"                                      json:"image_url,omitempty"`

	Branch   string `gorm:"type:varchar(50)" json:"branch,omitempty"`
	Section  string `gorm:"type:varchar(10)" json:"section,omitempty"`
	Semester string `gorm:"type:varchar(10)" json:"semester,omitempty"`

	CourseStart   *time.Time `gorm:"type:date" json:"course_start,omitempty"`
	CourseEnd     *time.Time `gorm:"type:date" json:"course_end,omitempty"`
	MinAttendance int        `gorm:"not null;default:75" json:"min_attendance"`

	TimetableID *string `gorm:"type:uuid" json:"timetable_id,omitempty"`
	BaseModel

	// 关联
	Timetable *Timetable `gorm:"foreignKey:TimetableID;references:TimetableID" json:"timetable,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
