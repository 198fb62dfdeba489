package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signTestToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "user_1",
		"tenant_id": "tenant_1",
		"email":     "vet@vets.ao",
		"role":      "veterinarian",
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	signed := signTestToken(t, "secret", time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "user_1" {
			t.Fatalf("user_id not set")
		}
		if c.Get(CtxTenantID) != "tenant_1" {
			t.Fatalf("tenant_id not set")
		}
		if c.Get(CtxEmail) != "vet@vets.ao" {
			t.Fatalf("email not set")
		}
		if c.Get(CtxRole) != "veterinarian" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func rejectWith401(t *testing.T, mutate func(*http.Request)) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rejectWith401(t, func(*http.Request) {})
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	rejectWith401(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Token abc")
	})
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rejectWith401(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not-a-token")
	})
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	signed := signTestToken(t, "secret", -time.Minute)
	rejectWith401(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signed)
	})
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	signed := signTestToken(t, "other-secret", time.Minute)
	rejectWith401(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+signed)
	})
}
