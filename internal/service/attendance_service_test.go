package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RVCE-Utility/rvce-utility-bknd/internal/attendance"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/dto"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/repository"
)

// 固定课程期 2025-01-06（周一）~ 2025-01-17（周五），课表:
//   MON S1 CS101 / MON S2 MATH / TUE S1 MATH
func seedAttendanceUser(t *testing.T, repo *repository.Repository) string {
	t.Helper()
	ctx := context.Background()

	user := &model.User{Name: "Asha", Email: "asha@rvce.edu.in", PasswordHash: "x", Role: model.RoleStudent, MinAttendance: 75}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	tt := &model.Timetable{
		UserID: user.UserID,
		TimeSlots: []model.TimeSlot{
			{SlotID: "S1", Display: "9:00-10:00", StartMinute: 540, EndMinute: 600},
			{SlotID: "S2", Display: "10:00-11:00", StartMinute: 600, EndMinute: 660},
		},
		Courses: []model.Course{
			{Name: "CS101", FullName: "Data Structures", Kind: "theory"},
			{Name: "MATH", FullName: "Mathematics", Kind: "theory", MinAttendance: 50},
		},
		Events: []model.TimetableEvent{
			{Day: "MON", DayIndex: 0, CourseID: "CS101", SlotID: "S1", Duration: 1},
			{Day: "MON", DayIndex: 0, CourseID: "MATH", SlotID: "S2", Duration: 1},
			{Day: "TUE", DayIndex: 1, CourseID: "MATH", SlotID: "S1", Duration: 1},
		},
	}
	if err := repo.Timetable.Create(ctx, tt); err != nil {
		t.Fatalf("创建课表失败: %v", err)
	}

	loc, _ := time.LoadLocation("Asia/Kolkata")
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, loc)
	end := time.Date(2025, 1, 17, 0, 0, 0, 0, loc)
	user.TimetableID = &tt.TimetableID
	user.CourseStart = &start
	user.CourseEnd = &end
	if err := repo.User.Update(ctx, user); err != nil {
		t.Fatalf("更新用户失败: %v", err)
	}
	return user.UserID
}

func newAttendanceFixture(t *testing.T) (AttendanceService, *repository.Repository, *mockCache, string) {
	t.Helper()
	repo := newTestRepo()
	cache := newMockCache()
	svc := NewAttendanceService(testConfig(), repo, cache, zap.NewNop())
	userID := seedAttendanceUser(t, repo)
	return svc, repo, cache, userID
}

func TestAttendanceService_GetOrCreateDay_Create(t *testing.T) {
	svc, repo, _, userID := newAttendanceFixture(t)

	resp, err := svc.GetOrCreateDay(context.Background(), userID, "2025-01-06")
	if err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}
	if !resp.Created {
		t.Error("首次访问应新建记录")
	}
	if len(resp.Occurrences) != 2 {
		t.Fatalf("周一应有 2 个课次，实际 %d", len(resp.Occurrences))
	}
	if resp.Occurrences[0].CourseID != "CS101" || resp.Occurrences[0].Display != "9:00-10:00" {
		t.Errorf("首个课次内容错误: %+v", resp.Occurrences[0])
	}

	if _, err := repo.DayRecord.GetByUserAndDate(context.Background(), userID, "2025-01-06"); err != nil {
		t.Errorf("记录应已落库: %v", err)
	}
}

func TestAttendanceService_GetOrCreateDay_Idempotent(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-06"); err != nil {
		t.Fatalf("首次物化应成功: %v", err)
	}
	resp, err := svc.GetOrCreateDay(ctx, userID, "2025-01-06")
	if err != nil {
		t.Fatalf("重复访问应成功: %v", err)
	}
	if resp.Created {
		t.Error("重复访问不应再新建")
	}
	if len(resp.Occurrences) != 2 {
		t.Errorf("重复访问应返回原记录，实际 %d 个课次", len(resp.Occurrences))
	}
}

func TestAttendanceService_GetOrCreateDay_BeforeStart(t *testing.T) {
	svc, repo, _, userID := newAttendanceFixture(t)

	resp, err := svc.GetOrCreateDay(context.Background(), userID, "2025-01-01")
	if err != nil {
		t.Fatalf("开课前访问应成功: %v", err)
	}
	if resp.Boundary != "before_start" {
		t.Errorf("期望 before_start，实际 %q", resp.Boundary)
	}
	if len(resp.Occurrences) != 0 || resp.Created {
		t.Error("开课前应返回空列表且不建记录")
	}
	if _, err := repo.DayRecord.GetByUserAndDate(context.Background(), userID, "2025-01-01"); err == nil {
		t.Error("开课前的日期不应落库")
	}
}

func TestAttendanceService_GetOrCreateDay_AfterEnd(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	// 先物化结课日
	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-17"); err != nil {
		t.Fatalf("物化结课日应成功: %v", err)
	}

	resp, err := svc.GetOrCreateDay(ctx, userID, "2025-02-01")
	if err != nil {
		t.Fatalf("结课后访问应成功: %v", err)
	}
	if resp.Boundary != "after_end" {
		t.Errorf("期望 after_end，实际 %q", resp.Boundary)
	}
	if resp.Date != "2025-01-17" {
		t.Errorf("结课后应返回结课日记录，实际 %s", resp.Date)
	}
}

func TestAttendanceService_GetOrCreateDay_InvalidDate(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)

	if _, err := svc.GetOrCreateDay(context.Background(), userID, "06/01/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际 %v", err)
	}
}

func TestAttendanceService_GetOrCreateDay_NoTimetable(t *testing.T) {
	repo := newTestRepo()
	svc := NewAttendanceService(testConfig(), repo, newMockCache(), zap.NewNop())

	user := &model.User{Name: "Ravi", Email: "ravi@rvce.edu.in", PasswordHash: "x"}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	if _, err := svc.GetOrCreateDay(context.Background(), user.UserID, "2025-01-06"); !errors.Is(err, ErrNoTimetable) {
		t.Errorf("期望 ErrNoTimetable，实际 %v", err)
	}
}

func TestAttendanceService_AddCustom(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-07"); err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}

	resp, err := svc.AddCustom(ctx, userID, &dto.AddOccurrenceRequest{
		Date: "2025-01-07", CourseID: "CS101", SlotID: "S2",
	})
	if err != nil {
		t.Fatalf("追加自定义课次应成功: %v", err)
	}
	if len(resp.Occurrences) != 2 {
		t.Fatalf("追加后应有 2 个课次，实际 %d", len(resp.Occurrences))
	}
	added := resp.Occurrences[1]
	if !added.Custom || added.Display != "10:00-11:00" || added.Attendance != attendance.MarkPending {
		t.Errorf("自定义课次内容错误: %+v", added)
	}
}

func TestAttendanceService_AddCustom_WithMark(t *testing.T) {
	svc, repo, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-07"); err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}

	// 补录已出勤的加课，创建时直接带标记
	resp, err := svc.AddCustom(ctx, userID, &dto.AddOccurrenceRequest{
		Date: "2025-01-07", CourseID: "CS101", SlotID: "S2",
		Attendance: attendance.MarkPresent,
	})
	if err != nil {
		t.Fatalf("追加自定义课次应成功: %v", err)
	}
	added := resp.Occurrences[len(resp.Occurrences)-1]
	if added.Attendance != attendance.MarkPresent {
		t.Errorf("创建时指定的标记应生效，实际 %s", added.Attendance)
	}

	stored, err := repo.DayRecord.GetByUserAndDate(ctx, userID, "2025-01-07")
	if err != nil {
		t.Fatalf("读取记录失败: %v", err)
	}
	if stored.Occurrences[len(stored.Occurrences)-1].Attendance != attendance.MarkPresent {
		t.Errorf("标记未落库: %+v", stored.Occurrences)
	}
}

func TestAttendanceService_AddCustom_InvalidMark(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-07"); err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}
	_, err := svc.AddCustom(ctx, userID, &dto.AddOccurrenceRequest{
		Date: "2025-01-07", CourseID: "CS101", SlotID: "S2", Attendance: "late",
	})
	if !errors.Is(err, ErrInvalidMark) {
		t.Errorf("期望 ErrInvalidMark，实际 %v", err)
	}
}

func TestAttendanceService_AddCustom_DayNotInitialized(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)

	_, err := svc.AddCustom(context.Background(), userID, &dto.AddOccurrenceRequest{
		Date: "2025-01-08", CourseID: "CS101", SlotID: "S1",
	})
	if !errors.Is(err, ErrDayNotFound) {
		t.Errorf("期望 ErrDayNotFound，实际 %v", err)
	}
}

func TestAttendanceService_AddCustom_UnknownSlot(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-07"); err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}
	_, err := svc.AddCustom(ctx, userID, &dto.AddOccurrenceRequest{
		Date: "2025-01-07", CourseID: "CS101", SlotID: "S99",
	})
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("期望 ErrSlotNotFound，实际 %v", err)
	}
}

func TestAttendanceService_Remove(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-06"); err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}

	req := &dto.RemoveOccurrenceRequest{Date: "2025-01-06", CourseID: "CS101", SlotID: "S1"}
	resp, err := svc.Remove(ctx, userID, req)
	if err != nil {
		t.Fatalf("删除课次应成功: %v", err)
	}
	if len(resp.Occurrences) != 1 {
		t.Errorf("删除后应剩 1 个课次，实际 %d", len(resp.Occurrences))
	}

	// 同一对再删一次应失败
	if _, err := svc.Remove(ctx, userID, req); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("期望 ErrEntryNotFound，实际 %v", err)
	}
}

func TestAttendanceService_ReplaceDay(t *testing.T) {
	svc, repo, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	day, err := svc.GetOrCreateDay(ctx, userID, "2025-01-06")
	if err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}

	occs := day.Occurrences
	occs[0].Attendance = attendance.MarkPresent
	occs[1].Attendance = attendance.MarkAbsent

	if _, err := svc.ReplaceDay(ctx, userID, &dto.UpdateDayRequest{Date: "2025-01-06", Occurrences: occs}); err != nil {
		t.Fatalf("整日替换应成功: %v", err)
	}

	stored, err := repo.DayRecord.GetByUserAndDate(ctx, userID, "2025-01-06")
	if err != nil {
		t.Fatalf("读取记录失败: %v", err)
	}
	if stored.Occurrences[0].Attendance != attendance.MarkPresent || stored.Occurrences[1].Attendance != attendance.MarkAbsent {
		t.Errorf("标记未落库: %+v", stored.Occurrences)
	}
}

func TestAttendanceService_ReplaceDay_InvalidMark(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-06"); err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}
	_, err := svc.ReplaceDay(ctx, userID, &dto.UpdateDayRequest{
		Date: "2025-01-06",
		Occurrences: []attendance.Occurrence{
			{CourseID: "CS101", SlotID: "S1", Attendance: "late"},
		},
	})
	if !errors.Is(err, ErrInvalidMark) {
		t.Errorf("期望 ErrInvalidMark，实际 %v", err)
	}
}

func TestAttendanceService_Statistics(t *testing.T) {
	svc, _, _, userID := newAttendanceFixture(t)
	ctx := context.Background()

	day, err := svc.GetOrCreateDay(ctx, userID, "2025-01-06")
	if err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}
	occs := day.Occurrences
	occs[0].Attendance = attendance.MarkPresent // CS101
	occs[1].Attendance = attendance.MarkAbsent  // MATH
	if _, err := svc.ReplaceDay(ctx, userID, &dto.UpdateDayRequest{Date: "2025-01-06", Occurrences: occs}); err != nil {
		t.Fatalf("标记出勤应成功: %v", err)
	}

	stats, err := svc.Statistics(ctx, userID)
	if err != nil {
		t.Fatalf("统计应成功: %v", err)
	}
	if stats.Cached {
		t.Error("首次统计不应命中缓存")
	}

	byCourse := make(map[string]attendance.CourseStat)
	for _, cs := range stats.AttendanceState {
		byCourse[cs.CourseID] = cs
	}

	cs := byCourse["CS101"]
	// 两周范围含 2 个周一，CS101 每周一 1 次
	if cs.Present != 1 || cs.TotalClasses != 2 || cs.AttendancePercentage != 100 || !cs.IsEligible {
		t.Errorf("CS101 统计错误: %+v", cs)
	}
	if cs.MinAttendance != 75 {
		t.Errorf("CS101 应回退用户默认出勤率 75，实际 %d", cs.MinAttendance)
	}

	math := byCourse["MATH"]
	// MON S2 + TUE S1，各 2 天
	if math.Absent != 1 || math.TotalClasses != 4 || math.AttendancePercentage != 0 || math.IsEligible {
		t.Errorf("MATH 统计错误: %+v", math)
	}
	if math.MinAttendance != 50 {
		t.Errorf("MATH 应使用课程级出勤率 50，实际 %d", math.MinAttendance)
	}

	overall := stats.OverallAttendanceState
	if overall.Present != 1 || overall.Absent != 1 || overall.TotalClasses != 6 || overall.AttendancePercent != 50 {
		t.Errorf("总体统计错误: %+v", overall)
	}
}

func TestAttendanceService_Statistics_Cached(t *testing.T) {
	svc, _, cache, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.Statistics(ctx, userID); err != nil {
		t.Fatalf("首次统计应成功: %v", err)
	}
	if cache.stats[userID] == "" {
		t.Fatal("统计结果应已写入缓存")
	}

	second, err := svc.Statistics(ctx, userID)
	if err != nil {
		t.Fatalf("二次统计应成功: %v", err)
	}
	if !second.Cached {
		t.Error("二次统计应命中缓存")
	}
}

func TestAttendanceService_Statistics_InvalidatedAfterWrite(t *testing.T) {
	svc, _, cache, userID := newAttendanceFixture(t)
	ctx := context.Background()

	if _, err := svc.Statistics(ctx, userID); err != nil {
		t.Fatalf("统计应成功: %v", err)
	}
	if _, err := svc.GetOrCreateDay(ctx, userID, "2025-01-06"); err != nil {
		t.Fatalf("物化日记录应成功: %v", err)
	}
	if cache.stats[userID] != "" {
		t.Error("写操作后统计缓存应已失效")
	}
}
