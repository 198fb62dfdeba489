package domain

import (
	"errors"
	"time"
)

var ErrPatientNotFound = errors.New("patient not found")
var ErrDuplicatePatient = errors.New("patient already exists")

// Patient is an animal under the care of one clinic. Tutor fields identify
// the owner; clinical history lives outside this subsystem.
type Patient struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	RecordNumber string    `json:"record_number"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	Breed        string    `json:"breed,omitempty"`
	BirthDate    time.Time `json:"birth_date,omitempty"`
	TutorName    string    `json:"tutor_name"`
	TutorPhone   string    `json:"tutor_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
