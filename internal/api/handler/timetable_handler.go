package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/service"
	"github.com/RVCE-Utility/rvce-utility-bknd/pkg/response"
)

// TimetableHandler 课表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// Upload 上传课表（整体替换）
// POST /api/v1/timetable
func (h *TimetableHandler) Upload(c *gin.Context) {
	var req dto.UploadTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.timetableSvc.Upload(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.Created(c, resp)
}

// UploadXLSX 上传 Excel 课表
// POST /api/v1/timetable/import
func (h *TimetableHandler) UploadXLSX(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, 10001, "读取上传文件失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.timetableSvc.UploadXLSX(c.Request.Context(), userID, data)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.Created(c, resp)
}

// Get 获取当前用户课表
// GET /api/v1/timetable
func (h *TimetableHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.timetableSvc.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, resp)
}

// Check 课表持有状态
// GET /api/v1/timetable/check
func (h *TimetableHandler) Check(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.timetableSvc.Check(c.Request.Context(), userID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, resp)
}

// SetCourseMinAttendance 设定单课程最低出勤率
// PATCH /api/v1/timetable/courses/:name/min-attendance
func (h *TimetableHandler) SetCourseMinAttendance(c *gin.Context) {
	courseName := c.Param("name")
	if courseName == "" {
		response.BadRequest(c, 10001, "课程名不能为空")
		return
	}

	var req dto.SetMinAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.timetableSvc.SetCourseMinAttendance(c.Request.Context(), userID, courseName, req.MinAttendance); err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimetableError 统一处理课表模块业务错误
func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCourseDates):
		response.BadRequest(c, 12001, "课程起止日期非法")
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 12002, "课表不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12003, "课程不存在")
	case errors.Is(err, service.ErrBadWorkbook):
		response.BadRequest(c, 12004, "课表工作簿格式错误")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, "用户不存在")
	default:
		response.InternalError(c)
	}
}
