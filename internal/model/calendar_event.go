package model

import "gorm.io/gorm"

// CalendarEvent 学生日历事件表 — 对应 calendar_events
// 日历只追加：seq 记录插入顺序，event_id 在同一学生内唯一
type CalendarEvent struct {
	CalendarEventID string `gorm:"type:uuid;primaryKey"                                     json:"calendar_event_id"`
	StudentID       string `gorm:"type:uuid;not null;uniqueIndex:uk_student_event"          json:"student_id"`
	EventID         string `gorm:"type:varchar(64);not null;uniqueIndex:uk_student_event"   json:"event_id"`
	Seq             int64  `gorm:"not null;default:0"                                       json:"seq"`
	Title           string `gorm:"type:varchar(200);not null"                               json:"title"`
	DayOfWeek       int    `gorm:"type:smallint;not null"                                   json:"day_of_week"` // 1-7
	StartTime       string `gorm:"type:varchar(5);not null"                                 json:"start_time"`  // HH:MM
	EndTime         string `gorm:"type:varchar(5);not null"                                 json:"end_time"`
	Recurring       bool   `gorm:"not null"                                                 json:"recurring"`
	Category        string `gorm:"type:varchar(20);not null;default:'personal'"             json:"category"` // work | club | personal | study
	Source          string `gorm:"type:varchar(20);not null;default:'manual'"               json:"source"`   // seed | manual | ics
	BaseModel
}

const (
	EventSourceSeed   = "seed"
	EventSourceManual = "manual"
	EventSourceICS    = "ics"
)

// TableName 指定表名
func (CalendarEvent) TableName() string { return "calendar_events" }

// BeforeCreate 生成主键
func (e *CalendarEvent) BeforeCreate(*gorm.DB) error {
	ensureID(&e.CalendarEventID)
	return nil
}
