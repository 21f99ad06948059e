// Package billing talks to the external payment provider that issues
// invoices and PIX charges for subscription reactivation.
package billing

import (
	"context"

	"academia/internal/domain/subscription"
)

// Gateway is the interface for creating and tracking charges at the
// payment provider.
type Gateway interface {
	CreateCharge(ctx context.Context, subscriptionID string, amountCents int64) (subscription.Payment, error)
	ChargeStatus(ctx context.Context, paymentID string) (string, error)
}
