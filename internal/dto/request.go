package dto

import (
	"time"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
)

// ── 资料求助模块 DTO ──

// RequestDocumentPayload 求助单中的单项资料诉求
type RequestDocumentPayload struct {
	Name        string `json:"name"    binding:"required"`
	DocType     string `json:"docType" binding:"required"`
	Description string `json:"description,omitempty"`
}

// CreateResourceRequestRequest 发起求助
type CreateResourceRequestRequest struct {
	Semester  string                   `json:"semester" binding:"required"`
	Branch    string                   `json:"branch"   binding:"required"`
	Subject   string                   `json:"subject"  binding:"required"`
	Documents []RequestDocumentPayload `json:"documents" binding:"required,min=1,dive"`
}

// FulfillDocumentRequest 为求助单中某项资料补交文件
type FulfillDocumentRequest struct {
	DocumentName string `json:"documentName" binding:"required"`
	FileName     string `json:"fileName"     binding:"required"`
	FileID       string `json:"fileId"       binding:"required"`
}

// UpdateRequestStatusRequest 状态流转
type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=reviewing completed"`
}

// ResourceRequestResponse 求助单
type ResourceRequestResponse struct {
	RequestID string                  `json:"requestId"`
	Semester  string                  `json:"semester"`
	Branch    string                  `json:"branch"`
	Subject   string                  `json:"subject"`
	Documents []model.RequestDocument `json:"documents"`
	Status    string                  `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}

// ResourceRequestListResponse 分页列表
type ResourceRequestListResponse struct {
	Items []ResourceRequestResponse `json:"items"`
	Total int64                     `json:"total"`
}
