package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

// ProgressReportService records and queries caregiver progress reports
type ProgressReportService struct {
	reports  repositories.ProgressReportRepository
	patients repositories.PatientRepository
	users    repositories.UserRepository
	logger   *zap.Logger
}

// NewProgressReportService creates a new progress report service
func NewProgressReportService(
	reports repositories.ProgressReportRepository,
	patients repositories.PatientRepository,
	users repositories.UserRepository,
	logger *zap.Logger,
) *ProgressReportService {
	return &ProgressReportService{
		reports:  reports,
		patients: patients,
		users:    users,
		logger:   logger,
	}
}

// CreateProgressReport saves the report as given. The patient and caregiver
// references are not checked here.
func (s *ProgressReportService) CreateProgressReport(ctx context.Context, report *entities.ProgressReport) (*entities.ProgressReport, error) {
	saved, err := s.reports.Save(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress report: %w", err)
	}

	s.logger.Info("Progress report created",
		zap.String("report_id", saved.ID),
		zap.String("patient_id", saved.PatientID))
	return saved, nil
}

// DeleteProgressReport removes the report; deleting an absent report is a no-op
func (s *ProgressReportService) DeleteProgressReport(ctx context.Context, report *entities.ProgressReport) error {
	return s.reports.Delete(ctx, report)
}

func (s *ProgressReportService) GetAllProgressReports(ctx context.Context) ([]*entities.ProgressReport, error) {
	return s.reports.FindAll(ctx)
}

func (s *ProgressReportService) GetPRbyPatient(ctx context.Context, patient *entities.Patient) ([]*entities.ProgressReport, error) {
	if patient == nil {
		return nil, domain.InvalidArgument("Patient not found")
	}

	ok, err := s.patients.ExistsByID(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check patient: %w", err)
	}
	if !ok {
		return nil, domain.InvalidArgument("Patient not found")
	}
	return s.reports.FindByPatientID(ctx, patient.ID)
}

func (s *ProgressReportService) GetPRbyCaregiver(ctx context.Context, caregiver *entities.User) ([]*entities.ProgressReport, error) {
	if caregiver == nil {
		return nil, domain.InvalidArgument("Nurse not found")
	}

	ok, err := s.users.ExistsByID(ctx, caregiver.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check caregiver: %w", err)
	}
	if !ok {
		return nil, domain.InvalidArgument("Nurse not found")
	}
	return s.reports.FindByCaregiverID(ctx, caregiver.ID)
}

// FindPRbyRange returns reports dated within [start, end]
func (s *ProgressReportService) FindPRbyRange(ctx context.Context, start, end time.Time) ([]*entities.ProgressReport, error) {
	return s.reports.FindByDateBetween(ctx, start, end)
}

// KeywordSearch returns reports whose summary or recommendations contain term,
// ignoring case. An empty term matches every report.
func (s *ProgressReportService) KeywordSearch(ctx context.Context, term string) ([]*entities.ProgressReport, error) {
	return s.reports.SearchReports(ctx, term)
}
