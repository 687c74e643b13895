package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/repository"
)

// ── 资料贡献模块业务错误 ──

var (
	ErrContributionNotFound = errors.New("贡献记录不存在")
	ErrInvalidTransition    = errors.New("状态流转非法")
	ErrCommentRequired      = errors.New("驳回时必须填写原因")
)

// ContributionService 资料贡献业务接口
type ContributionService interface {
	Create(ctx context.Context, userID string, req *dto.CreateContributionRequest) ([]dto.ContributionResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.ContributionResponse, error)
	// ListForReview 审核队列，status 为空时列出全部
	ListForReview(ctx context.Context, status string, offset, limit int) (*dto.ContributionListResponse, error)
	Review(ctx context.Context, reviewerID, contributionID string, req *dto.ReviewContributionRequest) (*dto.ContributionResponse, error)
}

type contributionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewContributionService 创建 ContributionService 实例
func NewContributionService(repo *repository.Repository, logger *zap.Logger) ContributionService {
	return &contributionService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *contributionService) Create(ctx context.Context, userID string, req *dto.CreateContributionRequest) ([]dto.ContributionResponse, error) {
	sessionID := uuid.New().String()

	items := make([]model.Contribution, 0, len(req.Files))
	for _, f := range req.Files {
		items = append(items, model.Contribution{
			UserID:          userID,
			UploadSessionID: sessionID,
			FileName:        f.FileName,
			FileID:          f.FileID,
			FileSize:        f.FileSize,
			MimeType:        f.MimeType,
			Semester:        req.Semester,
			Branch:          req.Branch,
			SubjectCode:     req.SubjectCode,
			SubjectName:     req.SubjectName,
			DocType:         req.DocType,
			Status:          model.ContributionPending,
		})
	}

	if err := s.repo.Contribution.BatchCreate(ctx, items); err != nil {
		s.logger.Error("登记贡献失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("贡献已登记",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
		zap.Int("files", len(items)))

	result := make([]dto.ContributionResponse, 0, len(items))
	for i := range items {
		result = append(result, *toContributionResponse(&items[i]))
	}
	return result, nil
}

// ────────────────────── ListMine ──────────────────────

func (s *contributionService) ListMine(ctx context.Context, userID string) ([]dto.ContributionResponse, error) {
	items, err := s.repo.Contribution.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询贡献列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.ContributionResponse, 0, len(items))
	for i := range items {
		result = append(result, *toContributionResponse(&items[i]))
	}
	return result, nil
}

// ────────────────────── ListForReview ──────────────────────

func (s *contributionService) ListForReview(ctx context.Context, status string, offset, limit int) (*dto.ContributionListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.repo.Contribution.ListByStatus(ctx, status, offset, limit)
	if err != nil {
		s.logger.Error("查询审核队列失败", zap.Error(err))
		return nil, err
	}
	resp := &dto.ContributionListResponse{
		Items: make([]dto.ContributionResponse, 0, len(items)),
		Total: total,
	}
	for i := range items {
		resp.Items = append(resp.Items, *toContributionResponse(&items[i]))
	}
	return resp, nil
}

// ────────────────────── Review ──────────────────────

func (s *contributionService) Review(ctx context.Context, reviewerID, contributionID string, req *dto.ReviewContributionRequest) (*dto.ContributionResponse, error) {
	c, err := s.repo.Contribution.GetByID(ctx, contributionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContributionNotFound
		}
		return nil, err
	}

	if !contributionTransitionAllowed(c.Status, req.Status) {
		return nil, ErrInvalidTransition
	}
	if req.Status == model.ContributionRejected && req.Comment == "" {
		return nil, ErrCommentRequired
	}

	c.Status = req.Status
	c.ReviewerID = &reviewerID
	c.RejectionComment = req.Comment
	if err := s.repo.Contribution.Update(ctx, c); err != nil {
		s.logger.Error("更新贡献状态失败", zap.String("contribution_id", contributionID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("贡献审核完成",
		zap.String("contribution_id", contributionID),
		zap.String("status", req.Status),
		zap.String("reviewer_id", reviewerID))
	return toContributionResponse(c), nil
}

// pending → reviewing → approved | rejected，终态不可再变
func contributionTransitionAllowed(from, to string) bool {
	switch from {
	case model.ContributionPending:
		return to == model.ContributionReviewing || to == model.ContributionApproved || to == model.ContributionRejected
	case model.ContributionReviewing:
		return to == model.ContributionApproved || to == model.ContributionRejected
	default:
		return false
	}
}

func toContributionResponse(c *model.Contribution) *dto.ContributionResponse {
	return &dto.ContributionResponse{
		ContributionID:   c.ContributionID,
		UploadSessionID:  c.UploadSessionID,
		FileName:         c.FileName,
		FileID:           c.FileID,
		Semester:         c.Semester,
		Branch:           c.Branch,
		SubjectCode:      c.SubjectCode,
		SubjectName:      c.SubjectName,
		DocType:          c.DocType,
		Status:           c.Status,
		RejectionComment: c.RejectionComment,
		CreatedAt:        c.CreatedAt,
	}
}
