package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Student 学生表 — 对应 students
type Student struct {
	StudentID       string                      `gorm:"type:uuid;primaryKey"                 json:"student_id"`
	StudentNo       string                      `gorm:"type:varchar(20);not null;uniqueIndex" json:"student_no"`
	Name            string                      `gorm:"type:varchar(100);not null"           json:"name"`
	Email           string                      `gorm:"type:varchar(255);not null"           json:"email"`
	PasswordHash    string                      `gorm:"type:varchar(255);not null"           json:"-"`
	Year            string                      `gorm:"type:varchar(20);not null"            json:"year"` // Freshman | Sophomore | Junior | Senior
	Majors          datatypes.JSONSlice[string] `gorm:"not null"                             json:"majors"`
	Minors          datatypes.JSONSlice[string] `gorm:"not null"                             json:"minors"`
	GPA             float64                     `gorm:"type:numeric(3,2);not null;default:0" json:"gpa"`
	TotalCredits    int                         `gorm:"not null;default:0"                   json:"total_credits"`
	RequiredCredits int                         `gorm:"not null;default:120"                 json:"required_credits"`
	SoftDeleteModel

	// 关联
	Courses []StudentCourse `gorm:"foreignKey:StudentID;references:StudentID" json:"courses,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// BeforeCreate 生成主键
func (s *Student) BeforeCreate(*gorm.DB) error {
	ensureID(&s.StudentID)
	return nil
}

// StudentCourse 学生修课记录表 — 对应 student_courses
type StudentCourse struct {
	StudentCourseID string `gorm:"type:uuid;primaryKey"                           json:"student_course_id"`
	StudentID       string `gorm:"type:uuid;not null;index"                       json:"student_id"`
	CourseCode      string `gorm:"type:varchar(20);not null"                      json:"course_code"`
	CourseName      string `gorm:"type:varchar(100);not null"                     json:"course_name"`
	Status          string `gorm:"type:varchar(20);not null;default:'completed'"  json:"status"` // completed | current
	Grade           string `gorm:"type:varchar(5)"                                json:"grade,omitempty"`
	Term            string `gorm:"type:varchar(20)"                               json:"term,omitempty"`
	Credits         int    `gorm:"not null;default:0"                             json:"credits"`
	Position        int    `gorm:"not null;default:0"                             json:"position"`
	BaseModel
}

const (
	CourseStatusCompleted = "completed"
	CourseStatusCurrent   = "current"
)

// TableName 指定表名
func (StudentCourse) TableName() string { return "student_courses" }

// BeforeCreate 生成主键
func (c *StudentCourse) BeforeCreate(*gorm.DB) error {
	ensureID(&c.StudentCourseID)
	return nil
}
