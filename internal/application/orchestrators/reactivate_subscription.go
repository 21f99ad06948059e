package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"academia/internal/domain/refdata"
	"academia/internal/domain/subscription"
)

// SubscriptionStore defines the subscription persistence interface used
// by billing orchestrators.
type SubscriptionStore interface {
	GetByID(ctx context.Context, id string) (subscription.Subscription, error)
	GetByStudentID(ctx context.Context, studentID string) (subscription.Subscription, error)
	Save(ctx context.Context, s subscription.Subscription) error
	SavePayment(ctx context.Context, p subscription.Payment) error
	GetPayment(ctx context.Context, id string) (subscription.Payment, error)
}

// BillingPlanLookup resolves the plan a subscription charges against.
type BillingPlanLookup interface {
	GetBillingPlanByID(ctx context.Context, id string) (refdata.BillingPlan, error)
}

// PaymentGateway creates charges at the external payment provider. The
// provider returns a hosted invoice page and a PIX copy-and-paste code.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, subscriptionID string, amountCents int64) (subscription.Payment, error)
}

// ErrPaymentRequired signals that reactivation produced a pending charge
// the student must settle before the subscription becomes active. The
// HTTP layer maps it to 402 with the payment attached.
var ErrPaymentRequired = errors.New("subscription reactivation requires payment")

// ReactivateSubscriptionInput carries input for subscription reactivation.
type ReactivateSubscriptionInput struct {
	SubscriptionID string
	StudentID      string // used when SubscriptionID is empty
}

// ReactivateSubscriptionResult reports the outcome. When PaymentRequired
// is set, Payment carries the invoice link and PIX code to display.
type ReactivateSubscriptionResult struct {
	Subscription    subscription.Subscription
	PaymentRequired bool
	Payment         subscription.Payment
}

// ReactivateSubscriptionDeps holds dependencies for ReactivateSubscription.
type ReactivateSubscriptionDeps struct {
	SubscriptionStore SubscriptionStore
	PlanLookup        BillingPlanLookup
	Gateway           PaymentGateway
	Now               func() time.Time // nil means time.Now
}

// ExecuteReactivateSubscription reactivates a suspended subscription.
// When the plan charges, a pending payment is created at the gateway
// first and the subscription stays suspended until it is confirmed.
// PRE: input identifies an existing subscription
// POST: either the subscription is ACTIVE, or a PENDING payment exists
// and ErrPaymentRequired is returned alongside the result
func ExecuteReactivateSubscription(ctx context.Context, input ReactivateSubscriptionInput, deps ReactivateSubscriptionDeps) (ReactivateSubscriptionResult, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	var sub subscription.Subscription
	var err error
	switch {
	case input.SubscriptionID != "":
		sub, err = deps.SubscriptionStore.GetByID(ctx, input.SubscriptionID)
	case input.StudentID != "":
		sub, err = deps.SubscriptionStore.GetByStudentID(ctx, input.StudentID)
	default:
		return ReactivateSubscriptionResult{}, errors.New("subscription or student must be identified")
	}
	if err != nil {
		return ReactivateSubscriptionResult{}, fmt.Errorf("subscription not found: %w", err)
	}

	if sub.Status == subscription.StatusActive {
		return ReactivateSubscriptionResult{Subscription: sub}, subscription.ErrAlreadyActive
	}

	plan, err := deps.PlanLookup.GetBillingPlanByID(ctx, sub.BillingPlanID)
	if err != nil {
		return ReactivateSubscriptionResult{}, fmt.Errorf("billing plan not found: %w", err)
	}

	// Free plans reactivate immediately.
	if plan.PriceCents == 0 {
		if err := sub.Reactivate(); err != nil {
			return ReactivateSubscriptionResult{}, err
		}
		if err := deps.SubscriptionStore.Save(ctx, sub); err != nil {
			return ReactivateSubscriptionResult{}, err
		}
		slog.Info("billing_event", "event", "subscription_reactivated", "subscription_id", sub.ID)
		return ReactivateSubscriptionResult{Subscription: sub}, nil
	}

	payment, err := deps.Gateway.CreateCharge(ctx, sub.ID, plan.PriceCents)
	if err != nil {
		return ReactivateSubscriptionResult{}, fmt.Errorf("creating charge: %w", err)
	}
	payment.SubscriptionID = sub.ID
	payment.Status = subscription.PaymentPending
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	if err := payment.Validate(); err != nil {
		return ReactivateSubscriptionResult{}, err
	}
	if err := deps.SubscriptionStore.SavePayment(ctx, payment); err != nil {
		return ReactivateSubscriptionResult{}, err
	}

	slog.Info("billing_event", "event", "reactivation_payment_created", "subscription_id", sub.ID, "payment_id", payment.ID, "amount_cents", payment.AmountCents)
	return ReactivateSubscriptionResult{
		Subscription:    sub,
		PaymentRequired: true,
		Payment:         payment,
	}, ErrPaymentRequired
}

// ConfirmPaymentInput carries input for payment confirmation.
type ConfirmPaymentInput struct {
	PaymentID string
}

// ConfirmPaymentDeps holds dependencies for ConfirmPayment.
type ConfirmPaymentDeps struct {
	SubscriptionStore SubscriptionStore
	Now               func() time.Time
}

// ExecuteConfirmPayment settles a pending payment and activates its
// subscription.
// PRE: PaymentID references a pending or overdue payment
// POST: payment is CONFIRMED and the subscription is ACTIVE
func ExecuteConfirmPayment(ctx context.Context, input ConfirmPaymentInput, deps ConfirmPaymentDeps) (subscription.Payment, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	payment, err := deps.SubscriptionStore.GetPayment(ctx, input.PaymentID)
	if err != nil {
		return subscription.Payment{}, fmt.Errorf("payment not found: %w", err)
	}
	if err := payment.Confirm(now); err != nil {
		return subscription.Payment{}, err
	}
	if err := deps.SubscriptionStore.SavePayment(ctx, payment); err != nil {
		return subscription.Payment{}, err
	}

	sub, err := deps.SubscriptionStore.GetByID(ctx, payment.SubscriptionID)
	if err != nil {
		return subscription.Payment{}, fmt.Errorf("subscription not found: %w", err)
	}
	if sub.Status != subscription.StatusActive {
		if err := sub.Reactivate(); err != nil {
			return subscription.Payment{}, err
		}
		if err := deps.SubscriptionStore.Save(ctx, sub); err != nil {
			return subscription.Payment{}, err
		}
	}

	slog.Info("billing_event", "event", "payment_confirmed", "payment_id", payment.ID, "subscription_id", sub.ID)
	return payment, nil
}
