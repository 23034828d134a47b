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

// MemoryAppointmentRepository is an in-memory implementation of AppointmentRepository
type MemoryAppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[string]*entities.Appointment
}

// NewMemoryAppointmentRepository creates an empty in-memory appointment repository
func NewMemoryAppointmentRepository() *MemoryAppointmentRepository {
	return &MemoryAppointmentRepository{
		appointments: make(map[string]*entities.Appointment),
	}
}

// Save implements AppointmentRepository interface
func (m *MemoryAppointmentRepository) Save(ctx context.Context, appointment *entities.Appointment) (*entities.Appointment, error) {
	if appointment == nil {
		return nil, errors.New("appointment cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}

	appointmentCopy := *appointment
	m.appointments[appointment.ID] = &appointmentCopy

	saved := appointmentCopy
	return &saved, nil
}

// GetByID implements AppointmentRepository interface
func (m *MemoryAppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	appointment, exists := m.appointments[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	appointmentCopy := *appointment
	return &appointmentCopy, nil
}

// ExistsByID implements AppointmentRepository interface
func (m *MemoryAppointmentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.appointments[id]
	return exists, nil
}

// DeleteByID implements AppointmentRepository interface
func (m *MemoryAppointmentRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.appointments[id]; !exists {
		return domain.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *MemoryAppointmentRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (m *MemoryAppointmentRepository) FindByPatientID(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool { return a.PatientID == patientID }), nil
}

func (m *MemoryAppointmentRepository) FindByLocation(ctx context.Context, location string) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool { return a.Location == location }), nil
}

func (m *MemoryAppointmentRepository) FindByStatus(ctx context.Context, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool { return a.Status == status }), nil
}

func (m *MemoryAppointmentRepository) FindByPatientIDAndStatus(ctx context.Context, patientID string, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool {
		return a.PatientID == patientID && a.Status == status
	}), nil
}

func (m *MemoryAppointmentRepository) FindByDoctorIDAndStatus(ctx context.Context, doctorID string, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool {
		return a.DoctorID == doctorID && a.Status == status
	}), nil
}

func (m *MemoryAppointmentRepository) FindByPatientIDAndDoctorID(ctx context.Context, patientID, doctorID string) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool {
		return a.PatientID == patientID && a.DoctorID == doctorID
	}), nil
}

func (m *MemoryAppointmentRepository) FindByLocationAndDoctorID(ctx context.Context, location, doctorID string) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool {
		return a.Location == location && a.DoctorID == doctorID
	}), nil
}

func (m *MemoryAppointmentRepository) FindByAppointmentDateBetween(ctx context.Context, start, end time.Time) ([]*entities.Appointment, error) {
	return m.filter(func(a *entities.Appointment) bool {
		return !a.AppointmentDate.Before(start) && !a.AppointmentDate.After(end)
	}), nil
}

// filter returns copies of the matching appointments ordered by date
func (m *MemoryAppointmentRepository) filter(match func(*entities.Appointment) bool) []*entities.Appointment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*entities.Appointment{}
	for _, appointment := range m.appointments {
		if match(appointment) {
			appointmentCopy := *appointment
			result = append(result, &appointmentCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AppointmentDate.Equal(result[j].AppointmentDate) {
			return result[i].AppointmentDate.Before(result[j].AppointmentDate)
		}
		return result[i].ID < result[j].ID
	})
	return result
}
