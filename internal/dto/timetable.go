package dto

// ── 课表模块 DTO ──

// TimeSlotPayload 上传课表中的时间段
type TimeSlotPayload struct {
	SlotID  string `json:"slotId"  binding:"required"`
	Display string `json:"display" binding:"required"`
	Start   int    `json:"start"   binding:"min=0,max=1440"`
	End     int    `json:"end"     binding:"min=0,max=1440"`
}

// CoursePayload 上传课表中的课程
type CoursePayload struct {
	Name          string `json:"name"     binding:"required"`
	FullName      string `json:"fullName" binding:"required"`
	Kind          string `json:"type"     binding:"required,oneof=theory lab session"`
	Instructor    string `json:"instructor,omitempty"`
	ParentCourse  string `json:"parentCourse,omitempty"`
	MinAttendance int    `json:"minAttendance" binding:"min=0,max=100"`
}

// EventPayload 上传课表中的周循环事件
type EventPayload struct {
	Day         string `json:"day"      binding:"required,oneof=MON TUE WED THU FRI"`
	DayIndex    int    `json:"dayIndex" binding:"min=0,max=4"`
	CourseID    string `json:"courseId" binding:"required"`
	SlotID      string `json:"slotId"   binding:"required"`
	Duration    int    `json:"duration" binding:"required,min=1,max=2"`
	Description string `json:"description,omitempty"`
}

// UploadTimetableRequest 课表上传请求（整体替换）
type UploadTimetableRequest struct {
	Class       string            `json:"class,omitempty"`
	CourseStart string            `json:"courseStart" binding:"required"` // YYYY-MM-DD
	CourseEnd   string            `json:"courseEnd"   binding:"required"`
	TimeSlots   []TimeSlotPayload `json:"timeSlots"   binding:"required,min=1,dive"`
	Courses     []CoursePayload   `json:"courses"     binding:"required,min=1,dive"`
	Events      []EventPayload    `json:"events"      binding:"required,dive"`
}

// UploadTimetableResponse 课表上传结果
type UploadTimetableResponse struct {
	TimetableID string `json:"timetableId"`
	SeededDays  int    `json:"seededDays"` // 预生成的日记录数
}

// TimetableResponse 课表查询响应
type TimetableResponse struct {
	TimetableID string            `json:"timetableId"`
	Class       string            `json:"class,omitempty"`
	CourseStart string            `json:"courseStart"`
	CourseEnd   string            `json:"courseEnd"`
	TimeSlots   []TimeSlotPayload `json:"timeSlots"`
	Courses     []CoursePayload   `json:"courses"`
	Events      []EventPayload    `json:"events"`
}

// TimetableCheckResponse 课表持有状态
type TimetableCheckResponse struct {
	HasTimetable bool   `json:"hasTimetable"`
	TimetableID  string `json:"timetableId,omitempty"`
}

// SetMinAttendanceRequest 设定课程最低出勤率
type SetMinAttendanceRequest struct {
	MinAttendance int `json:"minAttendance" binding:"min=0,max=100"`
}
