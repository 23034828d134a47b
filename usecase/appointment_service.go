package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

// PatientChecker reports whether a patient is known to the store
type PatientChecker interface {
	CheckExists(ctx context.Context, patient *entities.Patient) (bool, error)
}

// AppointmentOption customises an appointment before it is saved
type AppointmentOption func(*entities.Appointment)

// WithLocation sets where the appointment takes place
func WithLocation(location string) AppointmentOption {
	return func(a *entities.Appointment) {
		a.Location = location
	}
}

// AppointmentService books, cancels and looks up appointments
type AppointmentService struct {
	appointments repositories.AppointmentRepository
	patients     PatientChecker
	logger       *zap.Logger
	now          func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	appointments repositories.AppointmentRepository,
	patients PatientChecker,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		logger:       logger,
		now:          time.Now,
	}
}

// CheckDocExists succeeds only for users whose role is doctor
func (s *AppointmentService) CheckDocExists(doctor *entities.User) (bool, error) {
	if doctor == nil || doctor.Role != entities.RoleDoctor {
		return false, domain.InvalidArgument("Invalid doctor")
	}
	return true, nil
}

// CheckPatientExists succeeds only for patients present in the store
func (s *AppointmentService) CheckPatientExists(ctx context.Context, patient *entities.Patient) (bool, error) {
	ok, err := s.patients.CheckExists(ctx, patient)
	if err != nil {
		return false, fmt.Errorf("failed to check patient: %w", err)
	}
	if !ok {
		return false, domain.InvalidArgument("Invalid patient")
	}
	return true, nil
}

// CreateAppointment books an active appointment of patient with doctor at date.
// Nothing is written unless every check passes.
func (s *AppointmentService) CreateAppointment(
	ctx context.Context,
	doctor *entities.User,
	patient *entities.Patient,
	date time.Time,
	opts ...AppointmentOption,
) (*entities.Appointment, error) {
	if _, err := s.CheckDocExists(doctor); err != nil {
		return nil, err
	}
	if _, err := s.CheckPatientExists(ctx, patient); err != nil {
		return nil, err
	}

	now := s.now()
	if date.Before(now) {
		return nil, domain.InvalidArgument("Invalid date")
	}

	appointment := entities.NewAppointment(doctor.ID, patient.ID, date, now)
	for _, opt := range opts {
		opt(appointment)
	}

	saved, err := s.appointments.Save(ctx, appointment)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.String("appointment_id", saved.ID),
		zap.Time("appointment_date", saved.AppointmentDate))
	return saved, nil
}

// DeleteAppointment removes an existing appointment
func (s *AppointmentService) DeleteAppointment(ctx context.Context, appointment *entities.Appointment) error {
	if appointment == nil || appointment.ID == "" {
		return domain.InvalidArgument("Invalid Appointment")
	}

	ok, err := s.appointments.ExistsByID(ctx, appointment.ID)
	if err != nil {
		return fmt.Errorf("failed to check appointment: %w", err)
	}
	if !ok {
		return domain.InvalidArgument("Invalid Appointment")
	}

	if err := s.appointments.DeleteByID(ctx, appointment.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InvalidArgument("Invalid Appointment")
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.logger.Info("Appointment deleted", zap.String("appointment_id", appointment.ID))
	return nil
}

func (s *AppointmentService) GetAppointmentByDoc(ctx context.Context, doctor *entities.User) ([]*entities.Appointment, error) {
	if _, err := s.CheckDocExists(doctor); err != nil {
		return nil, err
	}
	return s.appointments.FindByDoctorID(ctx, doctor.ID)
}

func (s *AppointmentService) GetAppointmentByPatient(ctx context.Context, patient *entities.Patient) ([]*entities.Appointment, error) {
	if _, err := s.CheckPatientExists(ctx, patient); err != nil {
		return nil, err
	}
	return s.appointments.FindByPatientID(ctx, patient.ID)
}

func (s *AppointmentService) GetAppointmentByLocation(ctx context.Context, location string) ([]*entities.Appointment, error) {
	return s.appointments.FindByLocation(ctx, location)
}

func (s *AppointmentService) GetAppointmentByStatus(ctx context.Context, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	return s.appointments.FindByStatus(ctx, status)
}

func (s *AppointmentService) GetAppointmentByPatientAndStatus(ctx context.Context, patient *entities.Patient, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	if patient == nil {
		return nil, domain.InvalidArgument("Invalid patient")
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	return s.appointments.FindByPatientIDAndStatus(ctx, patient.ID, status)
}

func (s *AppointmentService) GetAppointmentByDoctorAndStatus(ctx context.Context, doctor *entities.User, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	if doctor == nil {
		return nil, domain.InvalidArgument("Invalid doctor")
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	return s.appointments.FindByDoctorIDAndStatus(ctx, doctor.ID, status)
}

func (s *AppointmentService) GetAppointmentByPatientAndDoctor(ctx context.Context, patient *entities.Patient, doctor *entities.User) ([]*entities.Appointment, error) {
	if patient == nil {
		return nil, domain.InvalidArgument("Invalid patient")
	}
	if doctor == nil {
		return nil, domain.InvalidArgument("Invalid doctor")
	}
	return s.appointments.FindByPatientIDAndDoctorID(ctx, patient.ID, doctor.ID)
}

func (s *AppointmentService) GetAppointmentByLocationAndDoctor(ctx context.Context, location string, doctor *entities.User) ([]*entities.Appointment, error) {
	if doctor == nil {
		return nil, domain.InvalidArgument("Invalid doctor")
	}
	return s.appointments.FindByLocationAndDoctorID(ctx, location, doctor.ID)
}

// GetAppointmentByDateRange returns appointments dated within [start, end]
func (s *AppointmentService) GetAppointmentByDateRange(ctx context.Context, start, end time.Time) ([]*entities.Appointment, error) {
	return s.appointments.FindByAppointmentDateBetween(ctx, start, end)
}

func checkStatus(status entities.AppointmentStatus) error {
	if !status.Valid() {
		return domain.InvalidArgument("Invalid status")
	}
	return nil
}
