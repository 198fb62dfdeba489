package ports

import (
	"context"

	"github.com/vetcore/clinic-api/internal/core/domain"
)

// TenantRepository persists clinics. Registration is the only writer; Delete
// exists solely to compensate a registration whose user insert failed after
// the tenant insert succeeded.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
	Delete(ctx context.Context, id string) error
}
