package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/aryamanr26/course-flow-hackathon/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{"json", config.LogConfig{Level: "info", Format: "json"}, false},
		{"console", config.LogConfig{Level: "debug", Format: "console"}, false},
		{"无效级别", config.LogConfig{Level: "loud", Format: "json"}, true},
		{"无效格式", config.LogConfig{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("期望返回错误")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger 失败: %v", err)
			}
			if tt.cfg.Level == "debug" && !l.Core().Enabled(zapcore.DebugLevel) {
				t.Error("debug 级别应启用")
			}
		})
	}
}
