package ports

import (
	"context"

	"github.com/vetcore/clinic-api/internal/core/domain"
)

// UserRepository is the credential store consumed by the auth service.
// Implementations must treat each operation as atomic per record; Create
// must surface domain.ErrEmailTaken when the email is already registered.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
