package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"
)

// OccurrenceList 当日课次列表，整体以 JSONB 存储
type OccurrenceList []attendance.Occurrence

// Scan 实现 sql.Scanner 接口
func (o *OccurrenceList) Scan(value interface{}) error {
	if value == nil {
		*o = OccurrenceList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("无法将 %T 转换为 OccurrenceList", value)
		}
	}
	return json.Unmarshal(bytes, o)
}

// Value 实现 driver.Valuer 接口
func (o OccurrenceList) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// DayRecord 单日考勤记录 — 对应 day_records
//
// 按需物化：每用户每自然日至多一条（UNIQUE(user_id, date)），
// 日期为 IST 自然日，存储为 YYYY-MM-DD。
type DayRecord struct {
	RecordID    string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"record_id"`
	UserID      string         `gorm:"type:uuid;not null;uniqueIndex:idx_user_date,priority:1" json:"user_id"`
	Date        string         `gorm:"type:date;not null;uniqueIndex:idx_user_date,priority:2" json:"date"`
	Occurrences OccurrenceList `gorm:"type:jsonb;not null;default:'[]'"                      json:"occurrences"`
	BaseModel
}

// TableName 指定表名
func (DayRecord) TableName() string { return "day_records" }

// ToEngine 转换为考勤核心的日记录值
func (r *DayRecord) ToEngine() (*attendance.DayRecord, error) {
	d, err := attendance.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("日期字段非法: %w", err)
	}
	occs := make([]attendance.Occurrence, len(r.Occurrences))
	copy(occs, r.Occurrences)
	return &attendance.DayRecord{Date: d, Occurrences: occs}, nil
}
