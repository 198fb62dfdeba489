package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vetcore/clinic-api/internal/api/middleware"
	"github.com/vetcore/clinic-api/internal/core/domain"
	"github.com/vetcore/clinic-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (*ports.TokenPair, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.TokenPair, error)
	refreshFn        func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
	profileFn        func(ctx context.Context, userID string) (*ports.Profile, error)
	updateProfileFn  func(ctx context.Context, userID string, update ports.ProfileUpdate) (*ports.Profile, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.TokenPair, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*ports.Profile, error) {
	return s.updateProfileFn(ctx, userID, update)
}

func newAuthContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.TokenPair, error) {
			if input.ClinicName != "Vets Inc" || input.Email != "admin@vets.ao" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.TokenPair{AccessToken: "acc", RefreshToken: "ref", ExpiresIn: 900}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"clinic_name":"Vets Inc","email":"admin@vets.ao","password":"correct-horse","first_name":"Ana","last_name":"Silva"}`
	c, rec := newAuthContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var pair ports.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if pair.AccessToken != "acc" || pair.RefreshToken != "ref" || pair.ExpiresIn != 900 {
		t.Fatalf("unexpected pair: %+v", pair)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.TokenPair, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub)

	body := `{"clinic_name":"Vets Inc","email":"admin@vets.ao","password":"correct-horse","first_name":"Ana","last_name":"Silva"}`
	c, _ := newAuthContext(t, http.MethodPost, "/auth/register", body)

	err := h.Register(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken to propagate, got %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.TokenPair, error) {
			t.Fatalf("service should not be called on invalid input")
			return nil, nil
		},
	})

	// Password below minimum length and missing clinic name.
	body := `{"email":"admin@vets.ao","password":"short","first_name":"Ana","last_name":"Silva"}`
	c, _ := newAuthContext(t, http.MethodPost, "/auth/register", body)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenPair, error) {
			if password != "correct-horse" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.TokenPair{AccessToken: "acc", RefreshToken: "ref", ExpiresIn: 900}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"admin@vets.ao","password":"correct-horse"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"admin@vets.ao","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			if refreshToken != "live-token" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.TokenPair{AccessToken: "acc2", RefreshToken: "ref2", ExpiresIn: 900}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"live-token"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newAuthContext(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"stale-token"}`)
	if err := h.Refresh(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Profile_RequiresIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		profileFn: func(ctx context.Context, userID string) (*ports.Profile, error) {
			t.Fatalf("service should not be called without identity")
			return nil, nil
		},
	})

	c, _ := newAuthContext(t, http.MethodGet, "/auth/profile", "")

	err := h.Profile(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, userID string) (*ports.Profile, error) {
			if userID != "user_1" {
				t.Fatalf("unexpected user id %s", userID)
			}
			return &ports.Profile{ID: userID, Email: "admin@vets.ao", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodGet, "/auth/profile", "")
	c.Set(middleware.CtxUserID, "user_1")
	c.Set(middleware.CtxTenantID, "tenant_1")

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// The serialized profile must never carry credential material.
	body := rec.Body.String()
	for _, forbidden := range []string{"password", "refresh_token", "mfa_secret"} {
		if strings.Contains(body, forbidden) {
			t.Fatalf("profile response leaks %q: %s", forbidden, body)
		}
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, userID, oldPassword, newPassword string) error {
			if oldPassword != "correct-horse" {
				return domain.ErrInvalidCredentials
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/change-password", `{"old_password":"correct-horse","new_password":"brand-new-pass"}`)
	c.Set(middleware.CtxUserID, "user_1")
	c.Set(middleware.CtxTenantID, "tenant_1")

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}

	c, _ = newAuthContext(t, http.MethodPost, "/auth/change-password", `{"old_password":"wrong","new_password":"brand-new-pass"}`)
	c.Set(middleware.CtxUserID, "user_1")
	c.Set(middleware.CtxTenantID, "tenant_1")
	if err := h.ChangePassword(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	stub := &stubAuthService{
		updateProfileFn: func(ctx context.Context, userID string, update ports.ProfileUpdate) (*ports.Profile, error) {
			if update.Phone == nil || *update.Phone != "+244 923 000 000" {
				t.Fatalf("expected phone patch, got %+v", update)
			}
			if update.FirstName != nil {
				t.Fatalf("first_name should be untouched")
			}
			return &ports.Profile{ID: userID, Phone: *update.Phone}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPatch, "/auth/profile", `{"phone":"+244 923 000 000"}`)
	c.Set(middleware.CtxUserID, "user_1")
	c.Set(middleware.CtxTenantID, "tenant_1")

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
