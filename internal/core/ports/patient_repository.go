package ports

import (
	"context"

	"github.com/vetcore/clinic-api/internal/core/domain"
)

// PatientRepository persists patients. Every query is tenant-scoped; there
// is no cross-tenant lookup.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	FindByRecordNumber(ctx context.Context, tenantID, recordNumber string) (*domain.Patient, error)
	List(ctx context.Context, tenantID string, limit, offset int64) ([]*domain.Patient, int64, error)
}
