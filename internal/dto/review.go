package dto

// ── 课程评价 DTO ──

// ReviewListQuery 评价列表查询参数
type ReviewListQuery struct {
	Course string `form:"course"`
	Sort   string `form:"sort"` // recent | rating | upvotes | difficulty
	PaginationRequest
}

// CreateReviewRequest 新增评价请求
// 评分使用指针，区分 0 分与未填写
type CreateReviewRequest struct {
	Rating        *float64 `json:"rating"         binding:"required"`
	Difficulty    *float64 `json:"difficulty"     binding:"required"`
	Workload      string   `json:"workload"       binding:"max=200"`
	TeachingStyle string   `json:"teaching_style" binding:"max=2000"`
	Comment       string   `json:"comment"        binding:"required,max=5000"`
	Grade         string   `json:"grade"          binding:"max=5"`
	Term          string   `json:"term"           binding:"max=20"`
	Anonymous     *bool    `json:"anonymous"`
}

// ReviewResponse 评价信息
type ReviewResponse struct {
	ID            string  `json:"id"`
	CourseCode    string  `json:"course_code"`
	Rating        float64 `json:"rating"`
	Difficulty    float64 `json:"difficulty"`
	Workload      string  `json:"workload"`
	TeachingStyle string  `json:"teaching_style"`
	Comment       string  `json:"comment"`
	Grade         string  `json:"grade"`
	Term          string  `json:"term"`
	Anonymous     bool    `json:"anonymous"`
	Upvotes       int     `json:"upvotes"`
	CreatedAt     string  `json:"created_at"`
}

// CourseReviewsResponse 单门课程的评价
type CourseReviewsResponse struct {
	CourseCode    string           `json:"course_code"`
	CourseName    string           `json:"course_name"`
	CourseExists  bool             `json:"course_exists"`
	Sort          string           `json:"sort"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int              `json:"review_count"`
	Reviews       []ReviewResponse `json:"reviews"`
}

// ReviewSummaryItem 单门课程的评价汇总
type ReviewSummaryItem struct {
	CourseCode    string  `json:"course_code"`
	CourseName    string  `json:"course_name"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// ReviewSummaryResponse 评价总览
type ReviewSummaryResponse struct {
	TotalReviews      int                 `json:"total_reviews"`
	AverageRating     float64             `json:"average_rating"`
	AverageDifficulty float64             `json:"average_difficulty"`
	Courses           []ReviewSummaryItem `json:"courses"`
}
