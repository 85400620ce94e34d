package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokenService struct {
	userID uuid.UUID
	err    error
}

func (s *stubTokenService) GenerateAccessToken(context.Context, uuid.UUID) (string, error) {
	return "token", nil
}

func (s *stubTokenService) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &adapter.TokenClaims{UserID: s.userID, ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var body dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		tokenErr   error
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, string(domainerror.ErrCodeMissingToken)},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized, string(domainerror.ErrCodeInvalidToken)},
		{"empty bearer", "Bearer ", nil, http.StatusUnauthorized, string(domainerror.ErrCodeMissingToken)},
		{"expired", "Bearer abc", domainerror.ErrExpiredToken, http.StatusUnauthorized, string(domainerror.ErrCodeExpiredToken)},
		{"invalid", "Bearer abc", domainerror.ErrInvalidToken, http.StatusUnauthorized, string(domainerror.ErrCodeInvalidToken)},
		{"valid", "Bearer abc", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuthMiddleware(&stubTokenService{userID: userID, err: tt.tokenErr})

			engine := gin.New()
			engine.GET("/me", auth.Authenticate(), func(c *gin.Context) {
				id, ok := GetUserIDFromContext(c)
				if !ok || id != userID {
					t.Errorf("expected user %s in context, got %s", userID, id)
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantCode == "" {
				return
			}
			body := decode(t, w)
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
			if body.Kind != string(domainerror.KindUnauthorized) {
				t.Errorf("expected kind %s, got %s", domainerror.KindUnauthorized, body.Kind)
			}
		})
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	limiter := NewRateLimiter()

	engine := gin.New()
	engine.POST("/upload", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < defaultUploadsPerWindow; i++ {
		if w := send("10.0.0.1"); w.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, http.StatusCreated, w.Code)
		}
	}

	w := send("10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected %d after limit, got %d", http.StatusTooManyRequests, w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("expected no remaining requests, got %q", got)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}
	if body := decode(t, w); body.Code != string(domainerror.ErrCodeRateLimited) {
		t.Errorf("expected code %s, got %s", domainerror.ErrCodeRateLimited, body.Code)
	}

	if w := send("10.0.0.2"); w.Code != http.StatusCreated {
		t.Errorf("other client: expected %d, got %d", http.StatusCreated, w.Code)
	}

	limiter.Reset()
	if w := send("10.0.0.1"); w.Code != http.StatusCreated {
		t.Errorf("after reset: expected %d, got %d", http.StatusCreated, w.Code)
	}
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	limiter := NewRateLimiterWithConfig(1, time.Minute)
	alice, bob := uuid.New(), uuid.New()

	engine := gin.New()
	engine.POST("/upload", func(c *gin.Context) {
		c.Set(string(UserIDKey), uuid.MustParse(c.GetHeader("X-User")))
	}, limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(user uuid.UUID) int {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.Header.Set("X-User", user.String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(alice); code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, code)
	}
	if code := send(alice); code != http.StatusTooManyRequests {
		t.Errorf("expected alice to be limited, got %d", code)
	}
	if code := send(bob); code != http.StatusCreated {
		t.Errorf("expected bob to pass from the same address, got %d", code)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiterWithConfig(0, time.Minute)

	engine := gin.New()
	engine.POST("/upload", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, http.StatusCreated, w.Code)
		}
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiterWithConfig(2, time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if _, _, ok := limiter.take("ip:10.0.0.1"); !ok {
			t.Fatalf("attempt %d: expected to be allowed", i+1)
		}
	}
	remaining, retryAfter, ok := limiter.take("ip:10.0.0.1")
	if ok || remaining != 0 {
		t.Fatalf("expected quota to be spent, got ok=%v remaining=%d", ok, remaining)
	}
	if retryAfter != time.Minute {
		t.Errorf("expected retry after %s, got %s", time.Minute, retryAfter)
	}

	now = now.Add(time.Minute)
	if remaining, _, ok := limiter.take("ip:10.0.0.1"); !ok || remaining != 1 {
		t.Errorf("expected a fresh window, got ok=%v remaining=%d", ok, remaining)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiterWithConfig(1, time.Minute)
	limiter.now = func() time.Time { return now }

	limiter.take("ip:10.0.0.1")
	now = now.Add(30 * time.Second)
	limiter.take("ip:10.0.0.2")

	now = now.Add(45 * time.Second)
	limiter.Cleanup()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.windows["ip:10.0.0.1"]; ok {
		t.Error("expected the expired window to be removed")
	}
	if _, ok := limiter.windows["ip:10.0.0.2"]; !ok {
		t.Error("expected the live window to be kept")
	}
}
