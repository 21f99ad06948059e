package subscription

import (
	"context"

	"academia/internal/domain/subscription"
)

// Store defines the interface for subscription and payment persistence.
type Store interface {
	GetByID(ctx context.Context, id string) (subscription.Subscription, error)
	GetByStudentID(ctx context.Context, studentID string) (subscription.Subscription, error)
	Save(ctx context.Context, s subscription.Subscription) error

	GetPayment(ctx context.Context, id string) (subscription.Payment, error)
	SavePayment(ctx context.Context, p subscription.Payment) error
	ListPayments(ctx context.Context, subscriptionID string) ([]subscription.Payment, error)
	ListPaymentsByStatus(ctx context.Context, status string) ([]subscription.Payment, error)

	GetEmailBySubscriptionID(ctx context.Context, subscriptionID string) (name string, email string, err error)
}
