package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/repository"
)

// ── 资料求助模块业务错误 ──

var (
	ErrRequestNotFound  = errors.New("求助单不存在")
	ErrDocumentNotFound = errors.New("求助单中不存在该资料项")
)

// RequestService 资料求助业务接口
type RequestService interface {
	Create(ctx context.Context, userID string, req *dto.CreateResourceRequestRequest) (*dto.ResourceRequestResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.ResourceRequestResponse, error)
	ListForReview(ctx context.Context, status string, offset, limit int) (*dto.ResourceRequestListResponse, error)
	// Fulfill 为求助单中某项资料补交文件
	Fulfill(ctx context.Context, requestID string, req *dto.FulfillDocumentRequest) (*dto.ResourceRequestResponse, error)
	UpdateStatus(ctx context.Context, reviewerID, requestID string, req *dto.UpdateRequestStatusRequest) (*dto.ResourceRequestResponse, error)
}

type requestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRequestService 创建 RequestService 实例
func NewRequestService(repo *repository.Repository, logger *zap.Logger) RequestService {
	return &requestService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *requestService) Create(ctx context.Context, userID string, req *dto.CreateResourceRequestRequest) (*dto.ResourceRequestResponse, error) {
	docs := make(model.DocumentList, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, model.RequestDocument{
			Name:        d.Name,
			DocType:     d.DocType,
			Description: d.Description,
		})
	}

	r := &model.ResourceRequest{
		UserID:    userID,
		Semester:  req.Semester,
		Branch:    req.Branch,
		Subject:   req.Subject,
		Documents: docs,
		Status:    model.RequestPending,
	}
	if err := s.repo.ResourceRequest.Create(ctx, r); err != nil {
		s.logger.Error("创建求助单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("求助单已创建", zap.String("request_id", r.RequestID), zap.String("user_id", userID))
	return toRequestResponse(r), nil
}

// ────────────────────── ListMine ──────────────────────

func (s *requestService) ListMine(ctx context.Context, userID string) ([]dto.ResourceRequestResponse, error) {
	items, err := s.repo.ResourceRequest.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询求助列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.ResourceRequestResponse, 0, len(items))
	for i := range items {
		result = append(result, *toRequestResponse(&items[i]))
	}
	return result, nil
}

// ────────────────────── ListForReview ──────────────────────

func (s *requestService) ListForReview(ctx context.Context, status string, offset, limit int) (*dto.ResourceRequestListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, total, err := s.repo.ResourceRequest.ListByStatus(ctx, status, offset, limit)
	if err != nil {
		s.logger.Error("查询求助队列失败", zap.Error(err))
		return nil, err
	}
	resp := &dto.ResourceRequestListResponse{
		Items: make([]dto.ResourceRequestResponse, 0, len(items)),
		Total: total,
	}
	for i := range items {
		resp.Items = append(resp.Items, *toRequestResponse(&items[i]))
	}
	return resp, nil
}

// ────────────────────── Fulfill ──────────────────────

func (s *requestService) Fulfill(ctx context.Context, requestID string, req *dto.FulfillDocumentRequest) (*dto.ResourceRequestResponse, error) {
	r, err := s.repo.ResourceRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	found := false
	for i := range r.Documents {
		if r.Documents[i].Name == req.DocumentName {
			r.Documents[i].Files = append(r.Documents[i].Files, model.RequestFile{
				FileName: req.FileName,
				FileID:   req.FileID,
			})
			found = true
			break
		}
	}
	if !found {
		return nil, ErrDocumentNotFound
	}

	if err := s.repo.ResourceRequest.Update(ctx, r); err != nil {
		s.logger.Error("补交文件失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	return toRequestResponse(r), nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *requestService) UpdateStatus(ctx context.Context, reviewerID, requestID string, req *dto.UpdateRequestStatusRequest) (*dto.ResourceRequestResponse, error) {
	r, err := s.repo.ResourceRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !requestTransitionAllowed(r.Status, req.Status) {
		return nil, ErrInvalidTransition
	}

	r.Status = req.Status
	r.ReviewerID = &reviewerID
	if err := s.repo.ResourceRequest.Update(ctx, r); err != nil {
		s.logger.Error("更新求助状态失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("求助状态已更新",
		zap.String("request_id", requestID),
		zap.String("status", req.Status))
	return toRequestResponse(r), nil
}

// pending → reviewing → completed，completed 为终态
func requestTransitionAllowed(from, to string) bool {
	switch from {
	case model.RequestPending:
		return to == model.RequestReviewing || to == model.RequestCompleted
	case model.RequestReviewing:
		return to == model.RequestCompleted
	default:
		return false
	}
}

func toRequestResponse(r *model.ResourceRequest) *dto.ResourceRequestResponse {
	return &dto.ResourceRequestResponse{
		RequestID: r.RequestID,
		Semester:  r.Semester,
		Branch:    r.Branch,
		Subject:   r.Subject,
		Documents: r.Documents,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}
