package ports

import (
	"context"
	"time"
)

// TokenPair is the result of every credential flow. ExpiresIn is the access
// token lifetime in seconds and always matches the signed exp claim.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterInput carries everything needed to open a new clinic with its
// first (admin) user.
type RegisterInput struct {
	ClinicName string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
}

// ProfileUpdate patches the non-sensitive profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// Profile is the externally visible shape of a user. It deliberately has no
// place for the password hash or the stored refresh token.
type Profile struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthService owns credential issuance and the refresh-token lifecycle.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*TokenPair, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	Profile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error)
}
