package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

const appointmentColumns = `id, appointment_date, status, created_at, patient_id, doctor_id, location`

// AppointmentRepository implements repositories.AppointmentRepository on PostgreSQL
type AppointmentRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAppointmentRepository creates a PostgreSQL backed appointment repository
func NewAppointmentRepository(pool *pgxpool.Pool, logger *zap.Logger) repositories.AppointmentRepository {
	return &AppointmentRepository{pool: pool, logger: logger}
}

// Save inserts the appointment or replaces the row with the same id
func (r *AppointmentRepository) Save(ctx context.Context, a *entities.Appointment) (*entities.Appointment, error) {
	if a == nil {
		return nil, errors.New("appointment cannot be nil")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE
		 SET appointment_date=EXCLUDED.appointment_date, status=EXCLUDED.status,
		     created_at=EXCLUDED.created_at, patient_id=EXCLUDED.patient_id,
		     doctor_id=EXCLUDED.doctor_id, location=EXCLUDED.location`,
		a.ID, a.AppointmentDate, a.Status, a.CreatedAt, a.PatientID, a.DoctorID, a.Location,
	)
	if err != nil {
		r.logger.Error("Failed to save appointment", zap.Error(err), zap.String("appointment_id", a.ID))
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}

	r.logger.Info("Appointment saved",
		zap.String("appointment_id", a.ID),
		zap.String("doctor_id", a.DoctorID),
		zap.String("patient_id", a.PatientID))

	saved := *a
	return &saved, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		r.logger.Error("Failed to get appointment by ID", zap.Error(err), zap.String("appointment_id", id))
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := exists(ctx, r.pool, "appointments", id)
	if err != nil {
		r.logger.Error("Failed to check appointment existence", zap.Error(err), zap.String("appointment_id", id))
		return false, fmt.Errorf("failed to check appointment %s: %w", id, err)
	}
	return ok, nil
}

func (r *AppointmentRepository) DeleteByID(ctx context.Context, id string) error {
	n, err := deleteByID(ctx, r.pool, "appointments", id)
	if err != nil {
		r.logger.Error("Failed to delete appointment", zap.Error(err), zap.String("appointment_id", id))
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	r.logger.Info("Appointment deleted", zap.String("appointment_id", id))
	return nil
}

func (r *AppointmentRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]*entities.Appointment, error) {
	return r.find(ctx, `doctor_id = $1`, doctorID)
}

func (r *AppointmentRepository) FindByPatientID(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	return r.find(ctx, `patient_id = $1`, patientID)
}

func (r *AppointmentRepository) FindByLocation(ctx context.Context, location string) ([]*entities.Appointment, error) {
	return r.find(ctx, `location = $1`, location)
}

func (r *AppointmentRepository) FindByStatus(ctx context.Context, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return r.find(ctx, `status = $1`, status)
}

func (r *AppointmentRepository) FindByPatientIDAndStatus(ctx context.Context, patientID string, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return r.find(ctx, `patient_id = $1 AND status = $2`, patientID, status)
}

func (r *AppointmentRepository) FindByDoctorIDAndStatus(ctx context.Context, doctorID string, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return r.find(ctx, `doctor_id = $1 AND status = $2`, doctorID, status)
}

func (r *AppointmentRepository) FindByPatientIDAndDoctorID(ctx context.Context, patientID, doctorID string) ([]*entities.Appointment, error) {
	return r.find(ctx, `patient_id = $1 AND doctor_id = $2`, patientID, doctorID)
}

func (r *AppointmentRepository) FindByLocationAndDoctorID(ctx context.Context, location, doctorID string) ([]*entities.Appointment, error) {
	return r.find(ctx, `location = $1 AND doctor_id = $2`, location, doctorID)
}

func (r *AppointmentRepository) FindByAppointmentDateBetween(ctx context.Context, start, end time.Time) ([]*entities.Appointment, error) {
	return r.find(ctx, `appointment_date >= $1 AND appointment_date <= $2`, start, end)
}

func (r *AppointmentRepository) find(ctx context.Context, where string, args ...any) ([]*entities.Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE `+where+`
		 ORDER BY appointment_date, id`, args...)
	if err != nil {
		r.logger.Error("Failed to find appointments", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	defer rows.Close()

	out := []*entities.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*entities.Appointment, error) {
	a := &entities.Appointment{}
	if err := row.Scan(&a.ID, &a.AppointmentDate, &a.Status, &a.CreatedAt,
		&a.PatientID, &a.DoctorID, &a.Location); err != nil {
		return nil, err
	}
	return a, nil
}
