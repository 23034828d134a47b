package adapters

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/app4080/eldercareserver/domain/entities"
)

// MemoryProgressReportRepository is an in-memory implementation of ProgressReportRepository
type MemoryProgressReportRepository struct {
	mu      sync.RWMutex
	reports map[string]*entities.ProgressReport
}

// NewMemoryProgressReportRepository creates an empty in-memory report repository
func NewMemoryProgressReportRepository() *MemoryProgressReportRepository {
	return &MemoryProgressReportRepository{
		reports: make(map[string]*entities.ProgressReport),
	}
}

// Save implements ProgressReportRepository interface
func (m *MemoryProgressReportRepository) Save(ctx context.Context, report *entities.ProgressReport) (*entities.ProgressReport, error) {
	if report == nil {
		return nil, errors.New("progress report cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	reportCopy := *report
	m.reports[report.ID] = &reportCopy

	saved := reportCopy
	return &saved, nil
}

// Delete implements ProgressReportRepository interface
func (m *MemoryProgressReportRepository) Delete(ctx context.Context, report *entities.ProgressReport) error {
	if report == nil {
		return errors.New("progress report cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.reports, report.ID)
	return nil
}

func (m *MemoryProgressReportRepository) FindAll(ctx context.Context) ([]*entities.ProgressReport, error) {
	return m.filter(func(*entities.ProgressReport) bool { return true }), nil
}

func (m *MemoryProgressReportRepository) FindByPatientID(ctx context.Context, patientID string) ([]*entities.ProgressReport, error) {
	return m.filter(func(r *entities.ProgressReport) bool { return r.PatientID == patientID }), nil
}

func (m *MemoryProgressReportRepository) FindByCaregiverID(ctx context.Context, caregiverID string) ([]*entities.ProgressReport, error) {
	return m.filter(func(r *entities.ProgressReport) bool { return r.CaregiverID == caregiverID }), nil
}

func (m *MemoryProgressReportRepository) FindByDateBetween(ctx context.Context, start, end time.Time) ([]*entities.ProgressReport, error) {
	return m.filter(func(r *entities.ProgressReport) bool {
		return !r.Date.Before(start) && !r.Date.After(end)
	}), nil
}

func (m *MemoryProgressReportRepository) SearchReports(ctx context.Context, term string) ([]*entities.ProgressReport, error) {
	return m.filter(func(r *entities.ProgressReport) bool { return r.Mentions(term) }), nil
}

// filter returns copies of the matching reports ordered by date
func (m *MemoryProgressReportRepository) filter(match func(*entities.ProgressReport) bool) []*entities.ProgressReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*entities.ProgressReport{}
	for _, report := range m.reports {
		if match(report) {
			reportCopy := *report
			result = append(result, &reportCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result
}
