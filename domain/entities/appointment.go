package entities

import (
	"fmt"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusActive    AppointmentStatus = "active"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusActive, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// ParseAppointmentStatus converts raw input into an AppointmentStatus
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown appointment status %q", raw)
	}
	return s, nil
}

// Appointment is a visit of a patient with a doctor
type Appointment struct {
	ID              string            `json:"id" db:"id" bson:"_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date" bson:"appointment_date"`
	Status          AppointmentStatus `json:"status" db:"status" bson:"status"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at" bson:"created_at"`
	PatientID       string            `json:"patient_id" db:"patient_id" bson:"patient_id"`
	DoctorID        string            `json:"doctor_id" db:"doctor_id" bson:"doctor_id"`
	Location        string            `json:"location" db:"location" bson:"location"`
}

// NewAppointment creates an active appointment booked at createdAt
func NewAppointment(doctorID, patientID string, date, createdAt time.Time) *Appointment {
	return &Appointment{
		AppointmentDate: date,
		Status:          AppointmentStatusActive,
		CreatedAt:       createdAt,
		PatientID:       patientID,
		DoctorID:        doctorID,
	}
}
