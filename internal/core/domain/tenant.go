package domain

import (
	"errors"
	"time"
)

var ErrTenantNotFound = errors.New("tenant not found")

// Tenant is an isolated clinic. Every user and every business record belongs
// to exactly one tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
