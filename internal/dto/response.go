package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // Access Token 有效期（秒）
	Student      StudentResponse `json:"student"`
}

// StudentResponse 学生简要信息（脱敏）
type StudentResponse struct {
	ID        string   `json:"id"`
	StudentNo string   `json:"student_no"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Year      string   `json:"year"`
	Majors    []string `json:"majors"`
	Minors    []string `json:"minors"`
}

// ProfileResponse 学生档案（GET /auth/me）
type ProfileResponse struct {
	StudentResponse
	GPA             float64                   `json:"gpa"`
	TotalCredits    int                       `json:"total_credits"`
	RequiredCredits int                       `json:"required_credits"`
	CreditProgress  int                       `json:"credit_progress"` // 百分比，四舍五入
	Completed       []CompletedCourseResponse `json:"completed_courses"`
	Current         []CurrentCourseResponse   `json:"current_courses"`
}

// CompletedCourseResponse 已修课程
type CompletedCourseResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Grade   string `json:"grade"`
	Term    string `json:"term"`
	Credits int    `json:"credits"`
}

// CurrentCourseResponse 在修课程
type CurrentCourseResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// Offset 计算偏移量
func (p *PaginationRequest) Offset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
