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

	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

const reportColumns = `id, date, summary, recommendations, patient_id, caregiver_id`

// ProgressReportRepository implements repositories.ProgressReportRepository on PostgreSQL
type ProgressReportRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewProgressReportRepository(pool *pgxpool.Pool, logger *zap.Logger) repositories.ProgressReportRepository {
	return &ProgressReportRepository{pool: pool, logger: logger}
}

func (r *ProgressReportRepository) Save(ctx context.Context, report *entities.ProgressReport) (*entities.ProgressReport, error) {
	if report == nil {
		return nil, errors.New("progress report cannot be nil")
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO progress_reports (`+reportColumns+`) VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE
		 SET date=EXCLUDED.date, summary=EXCLUDED.summary,
		     recommendations=EXCLUDED.recommendations, patient_id=EXCLUDED.patient_id,
		     caregiver_id=EXCLUDED.caregiver_id`,
		report.ID, report.Date, report.Summary, report.Recommendations, report.PatientID, report.CaregiverID,
	)
	if err != nil {
		r.logger.Error("Failed to save progress report", zap.Error(err), zap.String("report_id", report.ID))
		return nil, fmt.Errorf("failed to save progress report: %w", err)
	}

	saved := *report
	return &saved, nil
}

// Delete removes the report; a report that is already gone is not an error
func (r *ProgressReportRepository) Delete(ctx context.Context, report *entities.ProgressReport) error {
	if report == nil {
		return errors.New("progress report cannot be nil")
	}
	if _, err := deleteByID(ctx, r.pool, "progress_reports", report.ID); err != nil {
		r.logger.Error("Failed to delete progress report", zap.Error(err), zap.String("report_id", report.ID))
		return fmt.Errorf("failed to delete progress report: %w", err)
	}
	return nil
}

func (r *ProgressReportRepository) FindAll(ctx context.Context) ([]*entities.ProgressReport, error) {
	return r.find(ctx, `TRUE`)
}

func (r *ProgressReportRepository) FindByPatientID(ctx context.Context, patientID string) ([]*entities.ProgressReport, error) {
	return r.find(ctx, `patient_id = $1`, patientID)
}

func (r *ProgressReportRepository) FindByCaregiverID(ctx context.Context, caregiverID string) ([]*entities.ProgressReport, error) {
	return r.find(ctx, `caregiver_id = $1`, caregiverID)
}

func (r *ProgressReportRepository) FindByDateBetween(ctx context.Context, start, end time.Time) ([]*entities.ProgressReport, error) {
	return r.find(ctx, `date >= $1 AND date <= $2`, start, end)
}

// SearchReports matches term as a literal, case-insensitive substring
func (r *ProgressReportRepository) SearchReports(ctx context.Context, term string) ([]*entities.ProgressReport, error) {
	return r.find(ctx,
		`strpos(lower(summary), lower($1)) > 0 OR strpos(lower(recommendations), lower($1)) > 0`, term)
}

func (r *ProgressReportRepository) find(ctx context.Context, where string, args ...any) ([]*entities.ProgressReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reportColumns+` FROM progress_reports
		 WHERE `+where+`
		 ORDER BY date, id`, args...)
	if err != nil {
		r.logger.Error("Failed to find progress reports", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("failed to find progress reports: %w", err)
	}
	defer rows.Close()

	out := []*entities.ProgressReport{}
	for rows.Next() {
		p, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress report: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanReport(row pgx.Row) (*entities.ProgressReport, error) {
	p := &entities.ProgressReport{}
	if err := row.Scan(&p.ID, &p.Date, &p.Summary, &p.Recommendations, &p.PatientID, &p.CaregiverID); err != nil {
		return nil, err
	}
	return p, nil
}
