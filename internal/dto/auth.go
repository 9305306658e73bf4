package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	StudentNo string `json:"student_no" binding:"required"`
	Password  string `json:"password"   binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest 登出请求，携带 refresh token 时一并吊销
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
