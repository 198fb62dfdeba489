package domain

import (
	"errors"
	"time"
)

// Clinic staff roles. Role drives every authorization decision.
const (
	RoleAdmin        = "admin"
	RoleVeterinarian = "veterinarian"
	RoleTechnician   = "technician"
	RoleReceptionist = "receptionist"
)

// RoleHierarchy maps each role to the set of roles whose access it subsumes.
// The map is already the transitive closure, so authorization is a single
// lookup: admin acts as a veterinarian, which in turn acts as technician and
// receptionist, so admin's entry lists all three. Every role has an entry,
// even if empty.
var RoleHierarchy = map[string][]string{
	RoleAdmin:        {RoleVeterinarian, RoleTechnician, RoleReceptionist},
	RoleVeterinarian: {RoleTechnician, RoleReceptionist},
	RoleTechnician:   {},
	RoleReceptionist: {},
}

var (
	// ErrInvalidCredentials covers every authentication failure: unknown
	// email, wrong password, inactive account, invalid or superseded token.
	// Collapsing them into one sentinel keeps responses free of
	// account-enumeration hints.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
)

// User models a staff member of one clinic. PasswordHash, RefreshToken and
// MFASecret never leave the process through any serialized shape.
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"-"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty"`
	IsActive     bool      `json:"is_active"`
	MFAEnabled   bool      `json:"mfa_enabled"`
	MFASecret    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
