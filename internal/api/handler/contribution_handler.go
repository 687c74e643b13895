package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/service"
	"github.com/RVCE-Utility/rvce-utility-bknd/pkg/response"
)

// ContributionHandler 资料贡献模块 HTTP 处理器
type ContributionHandler struct {
	contributionSvc service.ContributionService
}

// NewContributionHandler 创建 ContributionHandler
func NewContributionHandler(contributionSvc service.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionSvc: contributionSvc}
}

// Create 提交一次上传会话
// POST /api/v1/contributions
func (h *ContributionHandler) Create(c *gin.Context) {
	var req dto.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.contributionSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleContributionError(c, err)
		return
	}

	response.Created(c, gin.H{"list": items})
}

// ListMine 我的贡献
// GET /api/v1/contributions
func (h *ContributionHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.contributionSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleContributionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ListForReview 审核队列（manager/admin）
// GET /api/v1/contributions/review
func (h *ContributionHandler) ListForReview(c *gin.Context) {
	status := c.Query("status")
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.contributionSvc.ListForReview(c.Request.Context(), status, offset, limit)
	if err != nil {
		h.handleContributionError(c, err)
		return
	}

	response.OK(c, resp)
}

// Review 审核动作（manager/admin）
// PATCH /api/v1/contributions/:id/review
func (h *ContributionHandler) Review(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "贡献ID不能为空")
		return
	}

	var req dto.ReviewContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.contributionSvc.Review(c.Request.Context(), reviewerID, id, &req)
	if err != nil {
		h.handleContributionError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleContributionError 统一处理资料贡献模块业务错误
func (h *ContributionHandler) handleContributionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContributionNotFound):
		response.NotFound(c, 14001, "贡献记录不存在")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 14002, "状态流转非法")
	case errors.Is(err, service.ErrCommentRequired):
		response.BadRequest(c, 14003, "驳回时必须填写原因")
	default:
		response.InternalError(c)
	}
}
