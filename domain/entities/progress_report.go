package entities

import (
	"strings"
	"time"
)

// ProgressReport is a caregiver's note on a patient's condition
type ProgressReport struct {
	ID              string    `json:"id" db:"id" bson:"_id"`
	Date            time.Time `json:"date" db:"date" bson:"date"`
	Summary         string    `json:"summary" db:"summary" bson:"summary"`
	Recommendations string    `json:"recommendations" db:"recommendations" bson:"recommendations"`
	PatientID       string    `json:"patient_id" db:"patient_id" bson:"patient_id"`
	CaregiverID     string    `json:"caregiver_id" db:"caregiver_id" bson:"caregiver_id"`
}

// Mentions reports whether term occurs in the summary or the recommendations,
// ignoring case. An empty term is contained in every report.
func (r *ProgressReport) Mentions(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.Summary), term) ||
		strings.Contains(strings.ToLower(r.Recommendations), term)
}
