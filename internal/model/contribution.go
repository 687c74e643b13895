package model

// 资源贡献审核状态
const (
	ContributionPending   = "pending"
	ContributionReviewing = "reviewing"
	ContributionApproved  = "approved"
	ContributionRejected  = "rejected"
)

// Contribution 学习资料贡献 — 对应 contributions
//
// 同一次上传会话（UploadSessionID）内的多个文件共享审核状态，
// 状态流转: pending → reviewing → approved | rejected。
type Contribution struct {
	ContributionID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"contribution_id"`
	UserID          string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	UploadSessionID string `gorm:"type:uuid;not null;index"                       json:"upload_session_id"`

	FileName string `gorm:"type:varchar(255);not null" json:"file_name"`
	FileID   string `gorm:"type:varchar(128);not null" json:"file_id"` // 外部存储文件标识
	FileSize int64  `gorm:"not null"                   json:"file_size"`
	MimeType string `gorm:"type:varchar(100)"          json:"mime_type,omitempty"`

	Semester    string `gorm:"type:varchar(10);not null"  json:"semester"`
	Branch      string `gorm:"type:varchar(50);not null"  json:"branch"`
	SubjectCode string `gorm:"type:varchar(20);not null"  json:"subject_code"`
	SubjectName string `gorm:"type:varchar(200)"          json:"subject_name,omitempty"`
	DocType     string `gorm:"type:varchar(50)"           json:"doc_type,omitempty"` // notes | qp | lab | other

	Status           string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewerID       *string `gorm:"type:uuid"                                         json:"reviewer_id,omitempty"`
	RejectionComment string  `gorm:"type:text"                                         json:"rejection_comment,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Contribution) TableName() string { return "contributions" }
