package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetcore/clinic-api/internal/core/domain"
	"github.com/vetcore/clinic-api/internal/core/ports"
)

const defaultPageSize = 50

// PatientService manages a clinic's patient registry. Tenant scoping is the
// caller's responsibility: the tenant id always comes from the authenticated
// token, never from the request body.
type PatientService struct {
	repo   ports.PatientRepository
	logger zerolog.Logger
}

func NewPatientService(repo ports.PatientRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{repo: repo, logger: logger}
}

func (s *PatientService) Create(ctx context.Context, input ports.CreatePatientInput) (*domain.Patient, error) {
	now := time.Now().UTC()
	patient := &domain.Patient{
		TenantID:     input.TenantID,
		RecordNumber: generateRecordNumber(),
		Name:         input.Name,
		Species:      input.Species,
		Breed:        input.Breed,
		BirthDate:    input.BirthDate,
		TutorName:    input.TutorName,
		TutorPhone:   input.TutorPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		s.logger.Error().Err(err).Str("tenant_id", input.TenantID).Msg("failed to create patient")
		return nil, err
	}

	s.logger.Info().Str("record_number", patient.RecordNumber).Str("tenant_id", patient.TenantID).Msg("patient admitted")
	return patient, nil
}

func (s *PatientService) GetByRecordNumber(ctx context.Context, tenantID, recordNumber string) (*domain.Patient, error) {
	return s.repo.FindByRecordNumber(ctx, tenantID, recordNumber)
}

func (s *PatientService) List(ctx context.Context, tenantID string, limit, offset int64) (*ports.PatientList, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ports.PatientList{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// generateRecordNumber returns a clinic record number in the format
// PAT-XXXXXXXX.
func generateRecordNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("PAT-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("PAT-%08X", b)
}
