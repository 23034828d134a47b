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

const patientColumns = `id, first_name, last_name, date_of_birth, created_at`

type PatientRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPatientRepository(pool *pgxpool.Pool, logger *zap.Logger) repositories.PatientRepository {
	return &PatientRepository{pool: pool, logger: logger}
}

func (r *PatientRepository) Save(ctx context.Context, patient *entities.Patient) (*entities.Patient, error) {
	if patient == nil {
		return nil, errors.New("patient cannot be nil")
	}
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO patients (`+patientColumns+`) VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE
		 SET first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name,
		     date_of_birth=EXCLUDED.date_of_birth`,
		patient.ID, patient.FirstName, patient.LastName, patient.DateOfBirth, patient.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save patient", zap.Error(err), zap.String("patient_id", patient.ID))
		return nil, fmt.Errorf("failed to save patient: %w", err)
	}

	saved := *patient
	return &saved, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if err = notFound(err); errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		r.logger.Error("Failed to get patient by ID", zap.Error(err), zap.String("patient_id", id))
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (r *PatientRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := exists(ctx, r.pool, "patients", id)
	if err != nil {
		r.logger.Error("Failed to check patient existence", zap.Error(err), zap.String("patient_id", id))
		return false, fmt.Errorf("failed to check patient %s: %w", id, err)
	}
	return ok, nil
}

func (r *PatientRepository) FindAll(ctx context.Context) ([]*entities.Patient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY last_name, first_name`)
	if err != nil {
		r.logger.Error("Failed to list patients", zap.Error(err))
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	out := []*entities.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PatientRepository) DeleteByID(ctx context.Context, id string) error {
	n, err := deleteByID(ctx, r.pool, "patients", id)
	if err != nil {
		r.logger.Error("Failed to delete patient", zap.Error(err), zap.String("patient_id", id))
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("Patient deleted", zap.String("patient_id", id))
	return nil
}

func scanPatient(row pgx.Row) (*entities.Patient, error) {
	p := &entities.Patient{}
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}
