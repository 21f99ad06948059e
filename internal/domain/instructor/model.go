package instructor

import (
	"errors"
	"strings"
)

// Instructor teaches turmas and personal sessions.
type Instructor struct {
	ID             string
	Name           string
	Email          string
	Specialty      string
	OrganizationID string
	Active         bool
}

// Validate checks if the Instructor has valid data.
// PRE: Instructor struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (i *Instructor) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("instructor name cannot be empty")
	}
	if i.Email != "" && !strings.Contains(i.Email, "@") {
		return errors.New("instructor email must be valid")
	}
	return nil
}
