package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

// PatientService manages patient records
type PatientService struct {
	patients repositories.PatientRepository
	logger   *zap.Logger
}

// NewPatientService creates a new patient service
func NewPatientService(patients repositories.PatientRepository, logger *zap.Logger) *PatientService {
	return &PatientService{
		patients: patients,
		logger:   logger,
	}
}

// CheckExists reports whether the patient is present in the store
func (s *PatientService) CheckExists(ctx context.Context, patient *entities.Patient) (bool, error) {
	if patient == nil || patient.ID == "" {
		return false, nil
	}
	return s.patients.ExistsByID(ctx, patient.ID)
}

func (s *PatientService) CreatePatient(ctx context.Context, patient *entities.Patient) (*entities.Patient, error) {
	if patient == nil {
		return nil, domain.InvalidArgument("Invalid patient")
	}
	if err := patient.Validate(); err != nil {
		return nil, domain.InvalidArgument(err.Error())
	}

	saved, err := s.patients.Save(ctx, patient)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info("Patient created", zap.String("patient_id", saved.ID))
	return saved, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id string) (*entities.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *PatientService) ListPatients(ctx context.Context) ([]*entities.Patient, error) {
	return s.patients.FindAll(ctx)
}

// DeletePatient removes the patient with the given id
func (s *PatientService) DeletePatient(ctx context.Context, id string) error {
	err := s.patients.DeleteByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.InvalidArgument("Patient not found")
	}
	return err
}
