package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/config"
	"github.com/Maddrobots/hangar13demo/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	revoked bool
	err     error
}

func (s stubChecker) IsBlacklisted(_ context.Context, _ string) (bool, error) {
	return s.revoked, s.err
}

func newManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "middleware-test-secret-0123456789",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})
}

func protected(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, checker), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id")+"|"+c.GetString("email"))
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_AccessToken(t *testing.T) {
	mgr := newManager()
	token, err := mgr.GenerateAccessToken("user-1", "user-1@hangar13.test", "apprentice")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	w := get(protected(mgr, nil), token)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if w.Body.String() != "user-1|user-1@hangar13.test" {
		t.Errorf("上下文身份不正确: %q", w.Body.String())
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := get(protected(newManager(), nil), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	mgr := newManager()
	token, _ := mgr.GenerateRefreshToken("user-1", "user-1@hangar13.test", "apprentice", false)

	w := get(protected(mgr, nil), token)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Refresh Token 不应通过认证，实际 %d", w.Code)
	}
}

func TestJWTAuth_Blacklisted(t *testing.T) {
	mgr := newManager()
	token, _ := mgr.GenerateAccessToken("user-1", "user-1@hangar13.test", "apprentice")

	w := get(protected(mgr, stubChecker{revoked: true}), token)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("已吊销的 Token 应返回 401，实际 %d", w.Code)
	}
}

func TestJWTAuth_BlacklistErrorFailsOpen(t *testing.T) {
	mgr := newManager()
	token, _ := mgr.GenerateAccessToken("user-1", "user-1@hangar13.test", "apprentice")

	w := get(protected(mgr, stubChecker{err: errors.New("redis down")}), token)

	if w.Code != http.StatusOK {
		t.Errorf("Redis 故障时应降级放行，实际 %d", w.Code)
	}
}

func TestRoleAuth(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set("role", c.GetHeader("X-Role"))
		c.Next()
	}, RoleAuth("manager", "god"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		"manager":    http.StatusNoContent,
		"god":        http.StatusNoContent,
		"mentor":     http.StatusForbidden,
		"apprentice": http.StatusForbidden,
		"":           http.StatusUnauthorized,
	}
	for role, want := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-Role", role)
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("role=%q 期望 %d，实际 %d", role, want, w.Code)
		}
	}
}

type countingLimiter struct{ calls int }

func (l *countingLimiter) CheckRateLimit(_ context.Context, _ string, limit int, _ time.Duration) (bool, error) {
	l.calls++
	return l.calls <= limit, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{}
	r := gin.New()
	r.POST("/login", RateLimit(limiter, 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("期望 [200 200 429]，实际 %v", codes)
	}
}

func TestBodyLimit_DeclaredLength(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(8), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.ContentLength = 1024
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}
}
