package ports

import (
	"context"
	"time"

	"github.com/vetcore/clinic-api/internal/core/domain"
)

// CreatePatientInput carries the fields a clinic staff member supplies when
// admitting a new patient. TenantID always comes from the caller's token.
type CreatePatientInput struct {
	TenantID   string
	Name       string
	Species    string
	Breed      string
	BirthDate  time.Time
	TutorName  string
	TutorPhone string
}

// PatientList is one page of a tenant's patient registry.
type PatientList struct {
	Items  []*domain.Patient `json:"items"`
	Total  int64             `json:"total"`
	Limit  int64             `json:"limit"`
	Offset int64             `json:"offset"`
}

type PatientService interface {
	Create(ctx context.Context, input CreatePatientInput) (*domain.Patient, error)
	GetByRecordNumber(ctx context.Context, tenantID, recordNumber string) (*domain.Patient, error)
	List(ctx context.Context, tenantID string, limit, offset int64) (*PatientList, error)
}
