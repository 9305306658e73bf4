package model

import "gorm.io/gorm"

// CourseReview 课程评价表 — 对应 course_reviews
// course_code 不设外键：评价可以指向目录中已不存在的课程
type CourseReview struct {
	ReviewID      string  `gorm:"type:uuid;primaryKey"             json:"review_id"`
	ExternalID    string  `gorm:"type:varchar(40);uniqueIndex"     json:"external_id,omitempty"` // 种子数据中的 r-001 等
	CourseCode    string  `gorm:"type:varchar(20);not null;index"  json:"course_code"`
	StudentID     *string `gorm:"type:uuid"                        json:"student_id,omitempty"`
	Rating        float64 `gorm:"type:numeric(2,1);not null"       json:"rating"`
	Difficulty    float64 `gorm:"type:numeric(2,1);not null"       json:"difficulty"`
	Workload      string  `gorm:"type:varchar(200)"                json:"workload"`
	TeachingStyle string  `gorm:"type:text"                        json:"teaching_style"`
	Comment       string  `gorm:"type:text"                        json:"comment"`
	Grade         string  `gorm:"type:varchar(5)"                  json:"grade"`
	Term          string  `gorm:"type:varchar(20)"                 json:"term"`
	Anonymous     bool    `gorm:"not null"                         json:"anonymous"`
	Upvotes       int     `gorm:"not null;default:0"               json:"upvotes"`
	ReviewedOn    string  `gorm:"type:varchar(10);not null"        json:"reviewed_on"` // YYYY-MM-DD
	Position      int     `gorm:"not null;default:0;index"         json:"position"`
	BaseModel
}

// TableName 指定表名
func (CourseReview) TableName() string { return "course_reviews" }

// BeforeCreate 生成主键，外部编号缺省时与主键一致
func (r *CourseReview) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ReviewID)
	if r.ExternalID == "" {
		r.ExternalID = r.ReviewID
	}
	return nil
}
