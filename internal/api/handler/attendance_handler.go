package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/service"
	"github.com/RVCE-Utility/rvce-utility-bknd/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// GetOrCreateDay 取某日考勤记录，范围内缺失时按需物化
// POST /api/v1/attendance/day
func (h *AttendanceHandler) GetOrCreateDay(c *gin.Context) {
	var req dto.DayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.attendanceSvc.GetOrCreateDay(c.Request.Context(), userID, req.Date)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// AddOccurrence 追加自定义课次
// POST /api/v1/attendance/occurrences
func (h *AttendanceHandler) AddOccurrence(c *gin.Context) {
	var req dto.AddOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.attendanceSvc.AddCustom(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, resp)
}

// RemoveOccurrence 删除课次
// DELETE /api/v1/attendance/occurrences
func (h *AttendanceHandler) RemoveOccurrence(c *gin.Context) {
	var req dto.RemoveOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.attendanceSvc.Remove(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// UpdateDay 整日课次替换（批量标记出勤）
// PUT /api/v1/attendance/day
func (h *AttendanceHandler) UpdateDay(c *gin.Context) {
	var req dto.UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.attendanceSvc.ReplaceDay(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// Statistics 考勤统计报表
// GET /api/v1/attendance/statistics
func (h *AttendanceHandler) Statistics(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.attendanceSvc.Statistics(c.Request.Context(), userID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13001, "日期格式非法，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrNoTimetable):
		response.BadRequest(c, 13002, "尚未上传课表")
	case errors.Is(err, service.ErrDayNotFound):
		response.NotFound(c, 13003, "日记录不存在")
	case errors.Is(err, service.ErrSlotNotFound):
		response.BadRequest(c, 13004, "时间段不存在")
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 13005, "课次不存在")
	case errors.Is(err, service.ErrInvalidMark):
		response.BadRequest(c, 13006, "出勤标记非法")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, "用户不存在")
	default:
		response.InternalError(c)
	}
}
