package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// ensureID 主键为空时生成 UUID
// 主键不依赖数据库默认值（gen_random_uuid），PostgreSQL 与 SQLite 行为一致
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// AllModels 需要建表的全部模型，顺序即 SQLite AutoMigrate 顺序
func AllModels() []interface{} {
	return []interface{}{
		&Student{},
		&StudentCourse{},
		&Course{},
		&CourseReview{},
		&CalendarEvent{},
		&DegreeRequirement{},
		&CourseSkill{},
	}
}
