package student

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// Domain errors
var (
	ErrAlreadyArchived = errors.New("student is already archived")
	ErrAlreadyActive   = errors.New("student is already active")
)

// Student is an enrolled academy member.
type Student struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	OrganizationID string
	BillingPlanID  string
	Status         string
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("student name cannot be empty")
	}
	if len(s.Name) > MaxNameLength {
		return errors.New("student name cannot exceed 100 characters")
	}
	if !strings.Contains(s.Email, "@") {
		return errors.New("student email must be valid")
	}
	if s.Status != StatusActive && s.Status != StatusInactive && s.Status != StatusArchived {
		return errors.New("status must be 'active', 'inactive', or 'archived'")
	}
	return nil
}

// IsActive returns true if the student is currently active.
// INVARIANT: Status field is not mutated
func (s *Student) IsActive() bool {
	return s.Status == StatusActive
}

// IsArchived returns true if the student is archived.
// INVARIANT: Status field is not mutated
func (s *Student) IsArchived() bool {
	return s.Status == StatusArchived
}

// Archive sets the student status to archived.
// PRE: Student is not already archived
// POST: Status is set to archived
func (s *Student) Archive() error {
	if s.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	s.Status = StatusArchived
	return nil
}

// Reactivate sets the student status back to active.
// PRE: Student is not already active
// POST: Status is set to active
func (s *Student) Reactivate() error {
	if s.Status == StatusActive {
		return ErrAlreadyActive
	}
	s.Status = StatusActive
	return nil
}
