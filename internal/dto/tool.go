package dto

import "encoding/json"

// ── 对话工具层 DTO ──

// ToolParameter 工具参数说明（JSON Schema 子集）
type ToolParameter struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
	Items       string   `json:"items,omitempty"` // 数组元素类型
}

// ToolDefinition 工具定义
type ToolDefinition struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  map[string]ToolParameter `json:"parameters"`
	Required    []string                 `json:"required"`
}

// ToolInvokeRequest 调用工具时的原始参数
type ToolInvokeRequest struct {
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult 工具调用结果
type ToolResult struct {
	Tool   string      `json:"tool"`
	Result interface{} `json:"result"`
}

// ContextRequest 对话上下文检测请求
type ContextRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// ContextResponse 检测到的课程代码、意图与可直接拼入提示词的上下文
type ContextResponse struct {
	CourseCodes []string               `json:"course_codes"`
	Intents     []string               `json:"intents"`
	Facts       map[string]interface{} `json:"facts"`
	Lines       []string               `json:"lines"`
	Prompt      string                 `json:"prompt"`
}
