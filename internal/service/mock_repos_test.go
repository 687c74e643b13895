package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/RVCE-Utility/rvce-utility-bknd/config"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/model"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/repository"
)

func newTestRepo() *repository.Repository {
	return &repository.Repository{
		User:            newMockUserRepo(),
		Timetable:       newMockTimetableRepo(),
		DayRecord:       newMockDayRecordRepo(),
		Contribution:    newMockContributionRepo(),
		ResourceRequest: newMockResourceRequestRepo(),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-at-least-16-chars",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Attendance: config.AttendanceConfig{
			Timezone:             "Asia/Kolkata",
			DefaultMinAttendance: 75,
			StatsCacheTTL:        10 * time.Minute,
		},
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	tables map[string]*model.Timetable
	seq    int
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{tables: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Create(_ context.Context, tt *model.Timetable) error {
	if tt.TimetableID == "" {
		m.seq++
		tt.TimetableID = fmt.Sprintf("tt-%d", m.seq)
	}
	m.tables[tt.TimetableID] = tt
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id string) (*model.Timetable, error) {
	if t, ok := m.tables[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) GetByUser(_ context.Context, userID string) (*model.Timetable, error) {
	for _, t := range m.tables {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	var removed int64
	for id, t := range m.tables {
		if t.UserID == userID {
			delete(m.tables, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockTimetableRepo) UpdateCourseMinAttendance(_ context.Context, timetableID, courseName string, minAttendance int) (int64, error) {
	t, ok := m.tables[timetableID]
	if !ok {
		return 0, nil
	}
	var rows int64
	for i := range t.Courses {
		if t.Courses[i].Name == courseName {
			t.Courses[i].MinAttendance = minAttendance
			rows++
		}
	}
	return rows, nil
}

// ── Mock DayRecordRepository ──

type mockDayRecordRepo struct {
	recs map[string]*model.DayRecord
}

func newMockDayRecordRepo() *mockDayRecordRepo {
	return &mockDayRecordRepo{recs: make(map[string]*model.DayRecord)}
}

func dayKey(userID, date string) string { return userID + "|" + date }

func (m *mockDayRecordRepo) GetByUserAndDate(_ context.Context, userID, date string) (*model.DayRecord, error) {
	if r, ok := m.recs[dayKey(userID, date)]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDayRecordRepo) ListByUser(_ context.Context, userID string) ([]model.DayRecord, error) {
	var result []model.DayRecord
	for _, r := range m.recs {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockDayRecordRepo) CreateIfAbsent(_ context.Context, rec *model.DayRecord) (*model.DayRecord, error) {
	key := dayKey(rec.UserID, rec.Date)
	if existing, ok := m.recs[key]; ok {
		return existing, nil
	}
	m.recs[key] = rec
	return rec, nil
}

func (m *mockDayRecordRepo) UpdateOccurrences(_ context.Context, userID, date string, occs model.OccurrenceList) error {
	r, ok := m.recs[dayKey(userID, date)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Occurrences = occs
	return nil
}

func (m *mockDayRecordRepo) DeleteByUser(_ context.Context, userID string) error {
	for key, r := range m.recs {
		if r.UserID == userID {
			delete(m.recs, key)
		}
	}
	return nil
}

// ── Mock ContributionRepository ──

type mockContributionRepo struct {
	items map[string]*model.Contribution
	seq   int
}

func newMockContributionRepo() *mockContributionRepo {
	return &mockContributionRepo{items: make(map[string]*model.Contribution)}
}

func (m *mockContributionRepo) BatchCreate(_ context.Context, items []model.Contribution) error {
	for i := range items {
		if items[i].ContributionID == "" {
			m.seq++
			items[i].ContributionID = fmt.Sprintf("contrib-%d", m.seq)
		}
		stored := items[i]
		m.items[stored.ContributionID] = &stored
	}
	return nil
}

func (m *mockContributionRepo) GetByID(_ context.Context, id string) (*model.Contribution, error) {
	if c, ok := m.items[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContributionRepo) ListByUser(_ context.Context, userID string) ([]model.Contribution, error) {
	var result []model.Contribution
	for _, c := range m.items {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockContributionRepo) ListByStatus(_ context.Context, status string, _, _ int) ([]model.Contribution, int64, error) {
	var result []model.Contribution
	for _, c := range m.items {
		if status == "" || c.Status == status {
			result = append(result, *c)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockContributionRepo) Update(_ context.Context, c *model.Contribution) error {
	m.items[c.ContributionID] = c
	return nil
}

// ── Mock ResourceRequestRepository ──

type mockResourceRequestRepo struct {
	items map[string]*model.ResourceRequest
	seq   int
}

func newMockResourceRequestRepo() *mockResourceRequestRepo {
	return &mockResourceRequestRepo{items: make(map[string]*model.ResourceRequest)}
}

func (m *mockResourceRequestRepo) Create(_ context.Context, req *model.ResourceRequest) error {
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("req-%d", m.seq)
	}
	m.items[req.RequestID] = req
	return nil
}

func (m *mockResourceRequestRepo) GetByID(_ context.Context, id string) (*model.ResourceRequest, error) {
	if r, ok := m.items[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResourceRequestRepo) ListByUser(_ context.Context, userID string) ([]model.ResourceRequest, error) {
	var result []model.ResourceRequest
	for _, r := range m.items {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockResourceRequestRepo) ListByStatus(_ context.Context, status string, _, _ int) ([]model.ResourceRequest, int64, error) {
	var result []model.ResourceRequest
	for _, r := range m.items {
		if status == "" || r.Status == status {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockResourceRequestRepo) Update(_ context.Context, req *model.ResourceRequest) error {
	m.items[req.RequestID] = req
	return nil
}

// ── Mock Cache ──

type mockCache struct {
	blacklist     map[string]bool
	stats         map[string]string
	invalidations int
}

func newMockCache() *mockCache {
	return &mockCache{
		blacklist: make(map[string]bool),
		stats:     make(map[string]string),
	}
}

func (m *mockCache) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.blacklist[jti] = true
	return nil
}

func (m *mockCache) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.blacklist[jti], nil
}

func (m *mockCache) GetStatsCache(_ context.Context, userID string) (string, error) {
	return m.stats[userID], nil
}

func (m *mockCache) SetStatsCache(_ context.Context, userID, payload string, _ time.Duration) error {
	m.stats[userID] = payload
	return nil
}

func (m *mockCache) InvalidateStatsCache(_ context.Context, userID string) error {
	delete(m.stats, userID)
	m.invalidations++
	return nil
}
