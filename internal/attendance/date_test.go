package attendance

import (
	"testing"
	"time"
)

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := ParseDate("2025-01-06")
	if err != nil {
		t.Fatalf("ParseDate 应成功: %v", err)
	}
	if d.Year != 2025 || d.Month != time.January || d.Day != 6 {
		t.Errorf("解析结果不正确: %+v", d)
	}
	if d.String() != "2025-01-06" {
		t.Errorf("期望 2025-01-06，实际 %s", d.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("06/01/2025"); err == nil {
		t.Error("非 ISO 格式应解析失败")
	}
	if _, err := ParseDate("2025-13-40"); err == nil {
		t.Error("非法日期应解析失败")
	}
}

func TestDate_Weekday(t *testing.T) {
	cases := []struct {
		date string
		want Weekday
	}{
		{"2025-01-06", Monday},
		{"2025-01-07", Tuesday},
		{"2025-01-10", Friday},
		{"2025-01-11", Saturday},
		{"2025-01-12", Sunday},
	}
	for _, c := range cases {
		d, _ := ParseDate(c.date)
		if got := d.Weekday(); got != c.want {
			t.Errorf("%s: 期望 %s，实际 %s", c.date, c.want, got)
		}
	}
}

func TestDate_NextAcrossMonth(t *testing.T) {
	d, _ := ParseDate("2025-01-31")
	if next := d.Next().String(); next != "2025-02-01" {
		t.Errorf("跨月递增错误: %s", next)
	}
}

func TestDateOf_ISTBoundary(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// UTC 2025-01-06 20:00 在 IST 已是 1 月 7 日凌晨
	instant := time.Date(2025, 1, 6, 20, 0, 0, 0, time.UTC)
	d := DateOf(instant, ist)
	if d.String() != "2025-01-07" {
		t.Errorf("IST 折算错误: %s", d)
	}
}

func TestWeekday_Index(t *testing.T) {
	if Monday.Index() != 0 || Sunday.Index() != 6 {
		t.Error("星期序号映射错误")
	}
	if Weekday("XXX").Index() != -1 {
		t.Error("未知星期名应返回 -1")
	}
}
