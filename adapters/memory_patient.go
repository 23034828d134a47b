package adapters

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
)

// MemoryPatientRepository is an in-memory implementation of PatientRepository
type MemoryPatientRepository struct {
	mu       sync.RWMutex
	patients map[string]*entities.Patient
}

// NewMemoryPatientRepository creates an empty in-memory patient repository
func NewMemoryPatientRepository() *MemoryPatientRepository {
	return &MemoryPatientRepository{
		patients: make(map[string]*entities.Patient),
	}
}

// Save implements PatientRepository interface
func (m *MemoryPatientRepository) Save(ctx context.Context, patient *entities.Patient) (*entities.Patient, error) {
	if patient == nil {
		return nil, errors.New("patient cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = time.Now().UTC()
	}

	patientCopy := *patient
	m.patients[patient.ID] = &patientCopy

	saved := patientCopy
	return &saved, nil
}

// GetByID implements PatientRepository interface
func (m *MemoryPatientRepository) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	patient, exists := m.patients[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	patientCopy := *patient
	return &patientCopy, nil
}

// ExistsByID implements PatientRepository interface
func (m *MemoryPatientRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.patients[id]
	return exists, nil
}

// FindAll implements PatientRepository interface
func (m *MemoryPatientRepository) FindAll(ctx context.Context) ([]*entities.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*entities.Patient, 0, len(m.patients))
	for _, patient := range m.patients {
		patientCopy := *patient
		result = append(result, &patientCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return result, nil
}

// DeleteByID implements PatientRepository interface
func (m *MemoryPatientRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.patients[id]; !exists {
		return domain.ErrNotFound
	}
	delete(m.patients, id)
	return nil
}
