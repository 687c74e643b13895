package dto

import (
	"encoding/json"
	"testing"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"
)

// 日记录的课次列表线上键名是 dayTimeTable
func TestDayResponse_DayTimeTableKey(t *testing.T) {
	resp := DayResponse{
		Date: "2025-01-06",
		Occurrences: []attendance.Occurrence{
			{Day: attendance.Monday, CourseID: "CS101", SlotID: "S1", Attendance: attendance.MarkPending},
		},
	}

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("序列化日记录失败: %v", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(out, &keys); err != nil {
		t.Fatalf("回读序列化结果失败: %v", err)
	}
	if _, ok := keys["dayTimeTable"]; !ok {
		t.Errorf("序列化应输出 dayTimeTable 键: %s", out)
	}
	if _, ok := keys["occurrences"]; ok {
		t.Errorf("不应输出 occurrences 键: %s", out)
	}
}

func TestUpdateDayRequest_DayTimeTableKey(t *testing.T) {
	payload := []byte(`{"date":"2025-01-06","dayTimeTable":[{"day":"MON","courseId":"CS101","slotId":"S1","attendance":"present"}]}`)

	var req UpdateDayRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		t.Fatalf("解析整日替换请求失败: %v", err)
	}
	if len(req.Occurrences) != 1 || req.Occurrences[0].Attendance != attendance.MarkPresent {
		t.Errorf("dayTimeTable 键应填充课次列表，实际 %+v", req.Occurrences)
	}
}
