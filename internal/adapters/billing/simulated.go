package billing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"academia/internal/domain/subscription"
)

// SimulatedGateway is an in-memory gateway for development and testing.
// Charges confirm themselves a fixed delay after creation, so the full
// reactivate-then-poll flow can be exercised without a provider account.
type SimulatedGateway struct {
	mu           sync.Mutex
	createdAt    map[string]time.Time
	ConfirmAfter time.Duration // zero means 15s
}

// NewSimulatedGateway creates a new SimulatedGateway.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{createdAt: make(map[string]time.Time)}
}

// CreateCharge records a fake charge and returns a pending payment with
// a placeholder invoice URL and PIX code.
func (g *SimulatedGateway) CreateCharge(_ context.Context, subscriptionID string, amountCents int64) (subscription.Payment, error) {
	id := uuid.New().String()
	now := time.Now()

	g.mu.Lock()
	g.createdAt[id] = now
	g.mu.Unlock()

	slog.Info("billing_event", "event", "simulated_charge_created", "charge_id", id, "subscription_id", subscriptionID, "amount_cents", amountCents)
	return subscription.Payment{
		ID:             id,
		SubscriptionID: subscriptionID,
		AmountCents:    amountCents,
		Status:         subscription.PaymentPending,
		InvoiceURL:     "https://pagamento.exemplo.com.br/fatura/" + id,
		PixCode:        "00020126580014br.gov.bcb.pix0136" + id,
		CreatedAt:      now,
	}, nil
}

// ChargeStatus reports PENDING until the confirmation delay elapses,
// then CONFIRMED. Unknown charges report FAILED.
func (g *SimulatedGateway) ChargeStatus(_ context.Context, paymentID string) (string, error) {
	confirmAfter := g.ConfirmAfter
	if confirmAfter == 0 {
		confirmAfter = 15 * time.Second
	}

	g.mu.Lock()
	created, ok := g.createdAt[paymentID]
	g.mu.Unlock()

	if !ok {
		return subscription.PaymentFailed, nil
	}
	if time.Since(created) >= confirmAfter {
		return subscription.PaymentConfirmed, nil
	}
	return subscription.PaymentPending, nil
}
