package entities

import (
	"errors"
	"time"
)

// Role is the staff role of a user
type Role string

const (
	RoleDoctor    Role = "doctor"
	RoleNurse     Role = "nurse"
	RoleCaregiver Role = "caregiver"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleNurse, RoleCaregiver, RoleAdmin:
		return true
	}
	return false
}

// User represents a staff account: doctor, nurse, caregiver or administrator
type User struct {
	ID           string    `json:"id" db:"id" bson:"_id"`
	Username     string    `json:"username" db:"username" bson:"username"`
	FullName     string    `json:"full_name" db:"full_name" bson:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash" bson:"password_hash"`
	Role         Role      `json:"role" db:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// Patient represents an elder under care
type Patient struct {
	ID          string    `json:"id" db:"id" bson:"_id"`
	FirstName   string    `json:"first_name" db:"first_name" bson:"first_name"`
	LastName    string    `json:"last_name" db:"last_name" bson:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth" bson:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// Domain validation methods
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if !u.Role.Valid() {
		return errors.New("invalid role")
	}
	return nil
}

func (p *Patient) Validate() error {
	if p.FirstName == "" {
		return errors.New("first name is required")
	}
	if p.LastName == "" {
		return errors.New("last name is required")
	}
	return nil
}
