package dto

import "time"

// ── 资料贡献模块 DTO ──

// ContributionFilePayload 单个待登记文件
type ContributionFilePayload struct {
	FileName string `json:"fileName" binding:"required"`
	FileID   string `json:"fileId"   binding:"required"`
	FileSize int64  `json:"fileSize" binding:"min=0"`
	MimeType string `json:"mimeType,omitempty"`
}

// CreateContributionRequest 提交一次上传会话
type CreateContributionRequest struct {
	Semester    string                    `json:"semester"    binding:"required"`
	Branch      string                    `json:"branch"      binding:"required"`
	SubjectCode string                    `json:"subjectCode" binding:"required"`
	SubjectName string                    `json:"subjectName,omitempty"`
	DocType     string                    `json:"docType,omitempty"`
	Files       []ContributionFilePayload `json:"files" binding:"required,min=1,dive"`
}

// ReviewContributionRequest 审核动作
type ReviewContributionRequest struct {
	Status  string `json:"status"  binding:"required,oneof=reviewing approved rejected"`
	Comment string `json:"comment,omitempty"` // 驳回时必填，服务层校验
}

// ContributionResponse 贡献记录
type ContributionResponse struct {
	ContributionID   string    `json:"contributionId"`
	UploadSessionID  string    `json:"uploadSessionId"`
	FileName         string    `json:"fileName"`
	FileID           string    `json:"fileId"`
	Semester         string    `json:"semester"`
	Branch           string    `json:"branch"`
	SubjectCode      string    `json:"subjectCode"`
	SubjectName      string    `json:"subjectName,omitempty"`
	DocType          string    `json:"docType,omitempty"`
	Status           string    `json:"status"`
	RejectionComment string    `json:"rejectionComment,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ContributionListResponse 分页列表
type ContributionListResponse struct {
	Items []ContributionResponse `json:"items"`
	Total int64                  `json:"total"`
}
