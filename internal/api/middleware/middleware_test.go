package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock 黑名单与限流 ──

type mockBlacklist struct {
	revoked map[string]bool
	err     error
	calls   int
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.calls++
	return m.revoked[jti], m.err
}

type mockLimiter struct {
	allowed   bool
	remaining int
	err       error
	gotKey    string
}

func (m *mockLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, int, error) {
	m.gotKey = key
	return m.allowed, m.remaining, m.err
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

// newAuthEngine 挂载 JWTAuth，受保护路由回显 student_id
func newAuthEngine(mgr *jwt.Manager, blacklist TokenBlacklist) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(mgr, blacklist, zap.NewNop()))
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("student_id"))
	})
	return r
}

func doGet(r *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

// ════════════════════════════════════════════════════════════
// JWTAuth
// ════════════════════════════════════════════════════════════

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("sid-1", "stu-001")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	w := doGet(newAuthEngine(mgr, nil), "/protected", map[string]string{"Authorization": "Bearer " + token})

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if w.Body.String() != "sid-1" {
		t.Errorf("期望注入 student_id sid-1，实际 %q", w.Body.String())
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newTestJWT()
	refresh, _ := mgr.GenerateRefreshToken("sid-1", "stu-001")
	other := jwt.NewManager(&config.AuthConfig{JWTSecret: "another-secret-key-0123456789", AccessTokenTTL: time.Minute})
	foreign, _ := other.GenerateAccessToken("sid-1", "stu-001")

	tests := []struct {
		name   string
		header string
	}{
		{"缺少认证头", ""},
		{"格式错误", "Token abc"},
		{"无效 Token", "Bearer not-a-jwt"},
		{"签名不符", "Bearer " + foreign},
		{"refresh token 不能访问接口", "Bearer " + refresh},
	}

	r := newAuthEngine(mgr, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := map[string]string{}
			if tt.header != "" {
				header["Authorization"] = tt.header
			}
			if w := doGet(r, "/protected", header); w.Code != http.StatusUnauthorized {
				t.Errorf("期望 401，实际 %d", w.Code)
			}
		})
	}
}

func TestJWTAuth_Blacklist(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("sid-1", "stu-001")
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	header := map[string]string{"Authorization": "Bearer " + token}

	bl := &mockBlacklist{revoked: map[string]bool{claims.ID: true}}
	if w := doGet(newAuthEngine(mgr, bl), "/protected", header); w.Code != http.StatusUnauthorized {
		t.Errorf("已吊销 Token 期望 401，实际 %d", w.Code)
	}
	if bl.calls != 1 {
		t.Errorf("期望查询黑名单 1 次，实际 %d", bl.calls)
	}

	// 黑名单不可用时降级放行
	down := &mockBlacklist{err: errors.New("redis down")}
	if w := doGet(newAuthEngine(mgr, down), "/protected", header); w.Code != http.StatusOK {
		t.Errorf("黑名单出错时应放行，实际 %d", w.Code)
	}
}

// ════════════════════════════════════════════════════════════
// RateLimit
// ════════════════════════════════════════════════════════════

func newLimitEngine(limiter RateLimiter, limit int) *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", RateLimit(limiter, limit, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doPost(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", path, nil))
	return w
}

func TestRateLimit(t *testing.T) {
	t.Run("未配置 Redis 放行", func(t *testing.T) {
		if w := doPost(newLimitEngine(nil, 10), "/auth/login"); w.Code != http.StatusOK {
			t.Errorf("期望 200，实际 %d", w.Code)
		}
	})

	t.Run("窗口内放行", func(t *testing.T) {
		lim := &mockLimiter{allowed: true, remaining: 7}
		w := doPost(newLimitEngine(lim, 10), "/auth/login")
		if w.Code != http.StatusOK {
			t.Fatalf("期望 200，实际 %d", w.Code)
		}
		if w.Header().Get("X-RateLimit-Remaining") != "7" || w.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("限流响应头不符: %v", w.Header())
		}
		if !strings.HasSuffix(lim.gotKey, ":/auth/login") {
			t.Errorf("限流键应按路由区分，实际 %s", lim.gotKey)
		}
	})

	t.Run("超限拒绝", func(t *testing.T) {
		w := doPost(newLimitEngine(&mockLimiter{allowed: false}, 10), "/auth/login")
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("期望 429，实际 %d", w.Code)
		}
		if w.Header().Get("Retry-After") != "60" {
			t.Errorf("期望 Retry-After 60，实际 %s", w.Header().Get("Retry-After"))
		}
	})

	t.Run("Redis 出错降级放行", func(t *testing.T) {
		w := doPost(newLimitEngine(&mockLimiter{err: errors.New("redis down")}, 10), "/auth/login")
		if w.Code != http.StatusOK {
			t.Errorf("期望 200，实际 %d", w.Code)
		}
	})
}

// ════════════════════════════════════════════════════════════
// BodyLimit / RequestID / CORS / SecurityHeaders
// ════════════════════════════════════════════════════════════

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限请求期望 413，实际 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader("small")))
	if w.Code != http.StatusOK {
		t.Errorf("小请求期望 200，实际 %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := doGet(r, "/", nil)
	generated := w.Header().Get("X-Request-ID")
	if len(generated) != 36 || w.Body.String() != generated {
		t.Errorf("应生成 UUID 并写入上下文，实际 %q / %q", generated, w.Body.String())
	}

	w = doGet(r, "/", map[string]string{"X-Request-ID": "trace-123"})
	if w.Header().Get("X-Request-ID") != "trace-123" {
		t.Errorf("应沿用请求头中的 ID，实际 %s", w.Header().Get("X-Request-ID"))
	}

	w = doGet(r, "/", map[string]string{"X-Request-ID": strings.Repeat("a", 100)})
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("过长的 ID 应被替换，实际 %q", got)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/", map[string]string{"Origin": "http://localhost:3000"})
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("允许的来源应回写，实际 %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	w = doGet(r, "/", map[string]string{"Origin": "http://evil.example"})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("未允许的来源不应回写 CORS 头")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求期望 204，实际 %d", w.Code)
	}

	wild := gin.New()
	wild.Use(CORS([]string{"*"}))
	wild.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = doGet(wild, "/", map[string]string{"Origin": "http://any.example"})
	if w.Header().Get("Access-Control-Allow-Origin") != "*" || w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Errorf("通配来源应返回 * 且不带凭证，实际 %v", w.Header())
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/", nil)
	for _, h := range []string{"X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy", "Referrer-Policy"} {
		if w.Header().Get(h) == "" {
			t.Errorf("缺少响应头 %s", h)
		}
	}
}
