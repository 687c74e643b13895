package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/service"
	"github.com/RVCE-Utility/rvce-utility-bknd/pkg/response"
)

// RequestHandler 资料求助模块 HTTP 处理器
type RequestHandler struct {
	requestSvc service.RequestService
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// Create 发起求助
// POST /api/v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateResourceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, resp)
}

// ListMine 我的求助单
// GET /api/v1/requests
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.requestSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ListForReview 求助处理队列（manager/admin）
// GET /api/v1/requests/review
func (h *RequestHandler) ListForReview(c *gin.Context) {
	status := c.Query("status")
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.requestSvc.ListForReview(c.Request.Context(), status, offset, limit)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, resp)
}

// Fulfill 为求助单补交文件（manager/admin）
// POST /api/v1/requests/:id/files
func (h *RequestHandler) Fulfill(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "求助单ID不能为空")
		return
	}

	var req dto.FulfillDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.requestSvc.Fulfill(c.Request.Context(), id, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, resp)
}

// UpdateStatus 状态流转（manager/admin）
// PATCH /api/v1/requests/:id/status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "求助单ID不能为空")
		return
	}

	var req dto.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestSvc.UpdateStatus(c.Request.Context(), reviewerID, id, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleRequestError 统一处理资料求助模块业务错误
func (h *RequestHandler) handleRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 15001, "求助单不存在")
	case errors.Is(err, service.ErrDocumentNotFound):
		response.NotFound(c, 15002, "求助单中不存在该资料项")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 15003, "状态流转非法")
	default:
		response.InternalError(c)
	}
}
