package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetcore/clinic-api/internal/core/domain"
	"github.com/vetcore/clinic-api/internal/core/ports"
)

// passwordCost is the fixed bcrypt work factor for every stored hash.
const passwordCost = 12

// AuthService implements registration, login, refresh-token rotation,
// password change and profile access for clinic staff.
//
// The stored refresh token is a single slot: issuing a new pair overwrites
// it, which silently invalidates every previously issued refresh token for
// that user. One active session per user is a deliberate policy.
type AuthService struct {
	users      ports.UserRepository
	tenants    ports.TenantRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tenants ports.TenantRepository, jwtSecret string, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		tenants:    tenants,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Register opens a new clinic: creates the tenant, creates its first user
// with the admin role, and returns a freshly issued token pair.
//
// Email uniqueness is global. The lookup here is only a fast path; the
// unique index on the users collection is the arbiter, so a concurrent
// duplicate registration still resolves to domain.ErrEmailTaken at Create.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.TokenPair, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tenant, err := s.tenants.Create(ctx, &domain.Tenant{
		Name:      input.ClinicName,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		TenantID:     tenant.ID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The tenant insert already landed; without this compensation a
		// lost duplicate-email race leaves an orphaned clinic behind.
		if derr := s.tenants.Delete(ctx, tenant.ID); derr != nil {
			s.logger.Error().Err(derr).Str("tenant_id", tenant.ID).Msg("failed to remove tenant after aborted registration")
		}
		return nil, err
	}

	s.logger.Info().Str("tenant_id", tenant.ID).Str("user_id", user.ID).Msg("clinic registered")

	return s.issueTokens(ctx, user)
}

// Login verifies the credentials and issues a new token pair. Unknown email,
// wrong password and inactive account all collapse to
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user.LastLoginAt = time.Now().UTC()

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("tenant_id", user.TenantID).Msg("login")
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// verify against the signing secret and must exactly equal the token
// currently stored on the user record; issuing the new pair overwrites that
// slot, so each refresh token is usable at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.verifyToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	user, err := s.users.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || user.RefreshToken != refreshToken {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// ChangePassword re-hashes the credential after verifying the old one.
// Existing access tokens stay valid until natural expiry.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return toProfile(updated), nil
}

// issueTokens signs an access/refresh pair over the same claim payload,
// persists the refresh token on the user record (superseding any previous
// one) and returns the pair. ExpiresIn is derived from the same duration
// used to sign the access token's exp claim.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.signToken(user, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	user.RefreshToken = refresh
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return &ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *AuthService) signToken(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"tenant_id": user.TenantID,
		"email":     user.Email,
		"role":      user.Role,
		"jti":       newTokenID(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// newTokenID returns a unique jti claim. iat and exp only have second
// resolution; without a per-issuance id, two signings over the same user in
// the same second would produce the identical JWT and refresh rotation would
// be a no-op.
func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func (s *AuthService) verifyToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	return claims, nil
}

func toProfile(user *domain.User) *ports.Profile {
	return &ports.Profile{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
