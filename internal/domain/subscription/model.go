package subscription

import (
	"errors"
	"time"
)

// Subscription statuses
const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusCancelled = "CANCELLED"
)

// Payment statuses
const (
	PaymentPending   = "PENDING"
	PaymentConfirmed = "CONFIRMED"
	PaymentOverdue   = "OVERDUE"
	PaymentFailed    = "FAILED"
)

// Domain errors
var (
	ErrEmptyStudent     = errors.New("subscription must reference a student")
	ErrEmptyPlan        = errors.New("subscription must reference a billing plan")
	ErrAlreadyActive    = errors.New("subscription is already active")
	ErrPaymentSettled   = errors.New("payment is already settled")
	ErrNegativeAmount   = errors.New("payment amount cannot be negative")
	ErrUnknownPayStatus = errors.New("unknown payment status")
)

// Subscription links a student to a billing plan.
type Subscription struct {
	ID            string
	StudentID     string
	BillingPlanID string
	Status        string
	StartedAt     time.Time
	SuspendedAt   time.Time
}

// Validate checks if the Subscription has valid data.
// PRE: Subscription struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Subscription) Validate() error {
	if s.StudentID == "" {
		return ErrEmptyStudent
	}
	if s.BillingPlanID == "" {
		return ErrEmptyPlan
	}
	if s.Status != StatusActive && s.Status != StatusSuspended && s.Status != StatusCancelled {
		return errors.New("status must be ACTIVE, SUSPENDED, or CANCELLED")
	}
	return nil
}

// Reactivate moves a suspended or cancelled subscription back to active.
// PRE: Subscription is not already active
// POST: Status is ACTIVE, SuspendedAt cleared
func (s *Subscription) Reactivate() error {
	if s.Status == StatusActive {
		return ErrAlreadyActive
	}
	s.Status = StatusActive
	s.SuspendedAt = time.Time{}
	return nil
}

// Payment is a charge generated for a subscription, with the gateway's
// invoice link and PIX copy-and-paste code attached for the pay-here
// call to action.
type Payment struct {
	ID             string
	SubscriptionID string
	AmountCents    int64
	Status         string
	InvoiceURL     string
	PixCode        string
	CreatedAt      time.Time
	ConfirmedAt    time.Time
}

// Validate checks if the Payment has valid data.
func (p *Payment) Validate() error {
	if p.SubscriptionID == "" {
		return errors.New("payment must reference a subscription")
	}
	if p.AmountCents < 0 {
		return ErrNegativeAmount
	}
	switch p.Status {
	case PaymentPending, PaymentConfirmed, PaymentOverdue, PaymentFailed:
		return nil
	default:
		return ErrUnknownPayStatus
	}
}

// IsSettled reports whether the payment reached a terminal state.
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentConfirmed || p.Status == PaymentFailed
}

// Confirm marks a pending or overdue payment as confirmed.
// PRE: Payment is not settled
// POST: Status is CONFIRMED, ConfirmedAt set
func (p *Payment) Confirm(now time.Time) error {
	if p.IsSettled() {
		return ErrPaymentSettled
	}
	p.Status = PaymentConfirmed
	p.ConfirmedAt = now
	return nil
}
