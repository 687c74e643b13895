package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// 资源求助处理状态
const (
	RequestPending   = "pending"
	RequestReviewing = "reviewing"
	RequestCompleted = "completed"
)

// RequestFile 求助单下已补交的文件
type RequestFile struct {
	FileName string `json:"fileName"`
	FileID   string `json:"fileId"`
}

// RequestDocument 求助单中的单项资料诉求
type RequestDocument struct {
	Name        string        `json:"name"`
	DocType     string        `json:"docType"`
	Description string        `json:"description,omitempty"`
	Files       []RequestFile `json:"files,omitempty"`
}

// DocumentList 资料诉求列表，整体以 JSONB 存储
type DocumentList []RequestDocument

// Scan 实现 sql.Scanner 接口
func (d *DocumentList) Scan(value interface{}) error {
	if value == nil {
		*d = DocumentList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("无法将 %T 转换为 DocumentList", value)
		}
	}
	return json.Unmarshal(bytes, d)
}

// Value 实现 driver.Valuer 接口
func (d DocumentList) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// ResourceRequest 学习资料求助单 — 对应 resource_requests
//
// 状态流转: pending → reviewing → completed。
type ResourceRequest struct {
	RequestID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	UserID    string `gorm:"type:uuid;not null;index"                       json:"user_id"`

	Semester  string       `gorm:"type:varchar(10);not null" json:"semester"`
	Branch    string       `gorm:"type:varchar(50);not null" json:"branch"`
	Subject   string       `gorm:"type:varchar(200);not null" json:"subject"`
	Documents DocumentList `gorm:"type:jsonb;not null;default:'[]'" json:"documents"`

	Status     string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewerID *string `gorm:"type:uuid"                                         json:"reviewer_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ResourceRequest) TableName() string { return "resource_requests" }
