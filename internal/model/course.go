package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseMeeting 课程的一组上课时间（JSON 存储）
type CourseMeeting struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// Course 课程目录表 — 对应 courses
type Course struct {
	CourseID      string                             `gorm:"type:uuid;primaryKey"                  json:"course_id"`
	Code          string                             `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Name          string                             `gorm:"type:varchar(100);not null"            json:"name"`
	Department    string                             `gorm:"type:varchar(100);not null;index"      json:"department"`
	Credits       int                                `gorm:"not null"                              json:"credits"`
	Description   string                             `gorm:"type:text"                             json:"description"`
	Prerequisites datatypes.JSONSlice[string]        `gorm:"not null"                              json:"prerequisites"`
	Meetings      datatypes.JSONSlice[CourseMeeting] `gorm:"not null"                              json:"meetings"`
	Instructor    string                             `gorm:"type:varchar(100)"                     json:"instructor"`
	Capacity      int                                `gorm:"not null;default:0"                    json:"capacity"`
	Enrolled      int                                `gorm:"not null;default:0"                    json:"enrolled"`
	Term          string                             `gorm:"type:varchar(20)"                      json:"term"`
	Tags          datatypes.JSONSlice[string]        `gorm:"not null"                              json:"tags"`
	Position      int                                `gorm:"not null;default:0"                    json:"position"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// BeforeCreate 生成主键
func (c *Course) BeforeCreate(*gorm.DB) error {
	ensureID(&c.CourseID)
	return nil
}

// CourseSkill 课程技能映射表 — 对应 course_skills
type CourseSkill struct {
	CourseSkillID string `gorm:"type:uuid;primaryKey"                                   json:"course_skill_id"`
	CourseCode    string `gorm:"type:varchar(20);not null;uniqueIndex:uk_course_skill"  json:"course_code"`
	Skill         string `gorm:"type:varchar(100);not null;uniqueIndex:uk_course_skill" json:"skill"`
	Position      int    `gorm:"not null;default:0"                                     json:"position"`
	BaseModel
}

// TableName 指定表名
func (CourseSkill) TableName() string { return "course_skills" }

// BeforeCreate 生成主键
func (s *CourseSkill) BeforeCreate(*gorm.DB) error {
	ensureID(&s.CourseSkillID)
	return nil
}
