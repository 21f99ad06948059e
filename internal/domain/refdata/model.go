// Package refdata holds the small reference entities the scheduling and
// billing forms select from: units, training areas, courses, and billing
// plans.
package refdata

import (
	"errors"
	"strings"
)

// Unit is a physical location (branch) of the organization.
type Unit struct {
	ID             string
	Name           string
	Address        string
	OrganizationID string
}

// TrainingArea is a bookable space inside a unit (mat, ring, studio).
type TrainingArea struct {
	ID     string
	Name   string
	UnitID string
}

// Course is the curriculum a turma teaches.
type Course struct {
	ID           string
	Name         string
	Description  string // markdown
	TotalLessons int
}

// BillingPlan is a subscription plan a student can hold.
type BillingPlan struct {
	ID           string
	Name         string
	PriceCents   int64
	IntervalDays int
	Active       bool
}

// Validate checks if the Unit has valid data.
func (u *Unit) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("unit name cannot be empty")
	}
	return nil
}

// Validate checks if the TrainingArea has valid data.
func (a *TrainingArea) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("training area name cannot be empty")
	}
	return nil
}

// Validate checks if the Course has valid data.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("course name cannot be empty")
	}
	if c.TotalLessons < 0 {
		return errors.New("course lesson count cannot be negative")
	}
	return nil
}

// Validate checks if the BillingPlan has valid data.
func (p *BillingPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("billing plan name cannot be empty")
	}
	if p.PriceCents < 0 {
		return errors.New("billing plan price cannot be negative")
	}
	if p.IntervalDays <= 0 {
		return errors.New("billing plan interval must be positive")
	}
	return nil
}
