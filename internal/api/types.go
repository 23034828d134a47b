package api

import (
	"time"

	"github.com/app4080/eldercareserver/domain/entities"
)

// RegisterRequest represents the request payload for staff registration
type RegisterRequest struct {
	Username string        `json:"username"`
	FullName string        `json:"full_name"`
	Role     entities.Role `json:"role"`
	Password string        `json:"password"`
}

// LoginRequest represents the request payload for staff login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the response payload for a successful login
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *entities.User `json:"user"`
}

// CreatePatientRequest represents the request payload for patient admission
type CreatePatientRequest struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
}

// CreateAppointmentRequest represents the request payload for booking
type CreateAppointmentRequest struct {
	DoctorID        string    `json:"doctor_id"`
	PatientID       string    `json:"patient_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Location        string    `json:"location"`
}

// CreateReportRequest represents the request payload for a progress report
type CreateReportRequest struct {
	Date            time.Time `json:"date"`
	Summary         string    `json:"summary"`
	Recommendations string    `json:"recommendations"`
	PatientID       string    `json:"patient_id"`
	CaregiverID     string    `json:"caregiver_id"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
