package dto

// ── 日历模块 DTO ──

// EventRequest 单条待追加的日历事件
type EventRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Day       string `json:"day"`        // Monday … Sunday
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`
	Recurring *bool  `json:"recurring"` // 缺省为 true
	Category  string `json:"category"`  // 为空时按标题推断
}

// AppendEventsRequest 手动追加日历事件
type AppendEventsRequest struct {
	Events []EventRequest `json:"events" binding:"required,min=1,max=200"`
}

// ImportURLRequest 通过订阅链接导入 ICS
type ImportURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// SlotCheckRequest 时间段冲突检查
type SlotCheckRequest struct {
	Days      []string `json:"days"       binding:"required,min=1"`
	StartTime string   `json:"start_time" binding:"required"`
	EndTime   string   `json:"end_time"   binding:"required"`
}

// EventResponse 日历事件
type EventResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Recurring bool   `json:"recurring"`
	Category  string `json:"category"`
}

// DayEventsResponse 某一天的事件
type DayEventsResponse struct {
	Day    string          `json:"day"`
	Events []EventResponse `json:"events"`
}

// CalendarResponse 按星期分组的日历
type CalendarResponse struct {
	Total int                 `json:"total"`
	Days  []DayEventsResponse `json:"days"`
}

// RejectionResponse 被拒绝的导入记录
type RejectionResponse struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// ImportResponse 追加或导入结果
type ImportResponse struct {
	Accepted   int                 `json:"accepted"`
	Rejected   int                 `json:"rejected"`
	Events     []EventResponse     `json:"events"`
	Rejections []RejectionResponse `json:"rejections"`
}

// SlotCheckResponse 时间段冲突检查结果
type SlotCheckResponse struct {
	HasConflicts bool            `json:"has_conflicts"`
	Conflicts    []EventResponse `json:"conflicts"`
}
