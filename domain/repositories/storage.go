package repositories

import (
	"context"
	"time"

	"github.com/app4080/eldercareserver/domain/entities"
)

// UserRepository defines data access methods for staff users
type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (*entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindByRole(ctx context.Context, role entities.Role) ([]*entities.User, error)
	DeleteByID(ctx context.Context, id string) error
}

// PatientRepository defines data access methods for patients
type PatientRepository interface {
	Save(ctx context.Context, patient *entities.Patient) (*entities.Patient, error)
	GetByID(ctx context.Context, id string) (*entities.Patient, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]*entities.Patient, error)
	DeleteByID(ctx context.Context, id string) error
}

// AppointmentRepository defines data access methods for appointments.
// Finders return appointments ordered by appointment date.
type AppointmentRepository interface {
	Save(ctx context.Context, appointment *entities.Appointment) (*entities.Appointment, error)
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error

	FindByDoctorID(ctx context.Context, doctorID string) ([]*entities.Appointment, error)
	FindByPatientID(ctx context.Context, patientID string) ([]*entities.Appointment, error)
	FindByLocation(ctx context.Context, location string) ([]*entities.Appointment, error)
	FindByStatus(ctx context.Context, status entities.AppointmentStatus) ([]*entities.Appointment, error)
	FindByPatientIDAndStatus(ctx context.Context, patientID string, status entities.AppointmentStatus) ([]*entities.Appointment, error)
	FindByDoctorIDAndStatus(ctx context.Context, doctorID string, status entities.AppointmentStatus) ([]*entities.Appointment, error)
	FindByPatientIDAndDoctorID(ctx context.Context, patientID, doctorID string) ([]*entities.Appointment, error)
	FindByLocationAndDoctorID(ctx context.Context, location, doctorID string) ([]*entities.Appointment, error)
	// FindByAppointmentDateBetween is inclusive on both bounds
	FindByAppointmentDateBetween(ctx context.Context, start, end time.Time) ([]*entities.Appointment, error)
}

// ProgressReportRepository defines data access methods for progress reports.
// Finders return reports ordered by report date.
type ProgressReportRepository interface {
	Save(ctx context.Context, report *entities.ProgressReport) (*entities.ProgressReport, error)
	// Delete removes the report; deleting a report that does not exist is not an error
	Delete(ctx context.Context, report *entities.ProgressReport) error
	FindAll(ctx context.Context) ([]*entities.ProgressReport, error)
	FindByPatientID(ctx context.Context, patientID string) ([]*entities.ProgressReport, error)
	FindByCaregiverID(ctx context.Context, caregiverID string) ([]*entities.ProgressReport, error)
	// FindByDateBetween is inclusive on both bounds
	FindByDateBetween(ctx context.Context, start, end time.Time) ([]*entities.ProgressReport, error)
	// SearchReports matches term case-insensitively against summary or recommendations
	SearchReports(ctx context.Context, term string) ([]*entities.ProgressReport, error)
}
