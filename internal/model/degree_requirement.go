package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequirementCourse 培养方案中的课程条目
type RequirementCourse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// GeneralEducationItem 通识类别与门数
type GeneralEducationItem struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DegreeRequirement 专业培养方案表 — 对应 degree_requirements
type DegreeRequirement struct {
	RequirementID    string                                    `gorm:"type:uuid;primaryKey"                   json:"requirement_id"`
	Major            string                                    `gorm:"type:varchar(100);not null;uniqueIndex" json:"major"`
	Core             datatypes.JSONSlice[RequirementCourse]    `gorm:"not null"                               json:"core"`
	Electives        datatypes.JSONSlice[RequirementCourse]    `gorm:"not null"                               json:"electives"`
	ElectiveRequired int                                       `gorm:"not null;default:0"                     json:"elective_required"`
	Math             datatypes.JSONSlice[RequirementCourse]    `gorm:"not null"                               json:"math"`
	GeneralEducation datatypes.JSONSlice[GeneralEducationItem] `gorm:"not null"                               json:"general_education"`
	BaseModel
}

// TableName 指定表名
func (DegreeRequirement) TableName() string { return "degree_requirements" }

// BeforeCreate 生成主键
func (d *DegreeRequirement) BeforeCreate(*gorm.DB) error {
	ensureID(&d.RequirementID)
	return nil
}
