package handler

import "github.com/RVCE-Utility/rvce-utility-bknd/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Timetable    *TimetableHandler
	Attendance   *AttendanceHandler
	Contribution *ContributionHandler
	Request      *RequestHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Timetable:    NewTimetableHandler(svc.Timetable),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Contribution: NewContributionHandler(svc.Contribution),
		Request:      NewRequestHandler(svc.Request),
		Export:       NewExportHandler(svc.Export),
	}
}
