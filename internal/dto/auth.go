package dto

import "time"

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=50"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token 有效期（秒）
}

// LoginResponse 登录响应
type LoginResponse struct {
	User  *UserInfo `json:"user"`
	Token TokenPair `json:"token"`
}

// UserInfo 用户信息
type UserInfo struct {
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	ImageURL      string     `json:"image_url,omitempty"`
	Branch        string     `json:"branch,omitempty"`
	Section       string     `json:"section,omitempty"`
	Semester      string     `json:"semester,omitempty"`
	CourseStart   *time.Time `json:"course_start,omitempty"`
	CourseEnd     *time.Time `json:"course_end,omitempty"`
	MinAttendance int        `json:"min_attendance"`
	TimetableID   *string    `json:"timetable_id,omitempty"`
}
