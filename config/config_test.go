package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef-test"
db:
  driver: sqlite
  path: ":memory:"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port 默认值期望 8080, 实际 %d", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("db.path 期望 :memory:, 实际 %s", cfg.Database.Path)
	}
	if cfg.Planner.DefaultMajor != "Computer Science" {
		t.Errorf("planner.default_major 默认值不符: %s", cfg.Planner.DefaultMajor)
	}
	if cfg.RateLimit.LoginWindow.Seconds() != 60 {
		t.Errorf("rate_limit.login_window 期望 1m, 实际 %s", cfg.RateLimit.LoginWindow)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef-test"
`)
	t.Setenv("COURSEFLOW_SERVER_PORT", "9090")
	t.Setenv("COURSEFLOW_PLANNER_DEFAULT_MAJOR", "Mathematics")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("环境变量应覆盖 server.port, 实际 %d", cfg.Server.Port)
	}
	if cfg.Planner.DefaultMajor != "Mathematics" {
		t.Errorf("环境变量应覆盖 planner.default_major, 实际 %s", cfg.Planner.DefaultMajor)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("缺少 jwt_secret 应报错, 实际 %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080},
			Database:  DatabaseConfig{Driver: DriverSQLite},
			Auth:      AuthConfig{JWTSecret: "0123456789abcdef"},
			Planner:   PlannerConfig{Timezone: "UTC"},
			Import:    ImportConfig{MaxBytes: 1024},
			RateLimit: RateLimitConfig{LoginLimit: 1, LoginWindow: 1, ToolLimit: 1, ToolWindow: 1},
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"短密钥", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"未知驱动", func(c *Config) { c.Database.Driver = "mysql" }},
		{"无效时区", func(c *Config) { c.Planner.Timezone = "Mars/Olympus" }},
		{"限流次数为 0", func(c *Config) { c.RateLimit.ToolLimit = 0 }},
		{"导入上限为 0", func(c *Config) { c.Import.MaxBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}
