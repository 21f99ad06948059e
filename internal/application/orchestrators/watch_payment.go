package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	emailAdapter "academia/internal/adapters/email"
	"academia/internal/application/tasks"
	"academia/internal/domain/subscription"
)

// PaymentStatusChecker asks the gateway for a payment's current status.
type PaymentStatusChecker interface {
	ChargeStatus(ctx context.Context, paymentID string) (string, error)
}

// StudentEmailLookup resolves the notification address for a subscription.
type StudentEmailLookup interface {
	GetEmailBySubscriptionID(ctx context.Context, subscriptionID string) (name string, email string, err error)
}

// PaymentWatcherDeps holds dependencies for the payment watcher.
type PaymentWatcherDeps struct {
	SubscriptionStore SubscriptionStore
	StatusChecker     PaymentStatusChecker
	EmailSender       emailAdapter.Sender // optional: nil skips confirmation email
	EmailLookup       StudentEmailLookup  // optional, used with EmailSender
	FromAddress       string
	ReplyToAddress    string

	// Poll cadence; zero values fall back to the task defaults.
	Interval time.Duration
	Timeout  time.Duration
}

// PaymentWatcher polls the gateway for a pending payment until it
// settles. At most one payment is watched at a time: starting a watch
// for a new payment stops the previous one first, so an abandoned
// checkout never leaves a timer behind.
type PaymentWatcher struct {
	deps PaymentWatcherDeps

	mu        sync.Mutex
	poller    *tasks.Poller
	paymentID string
}

// NewPaymentWatcher creates a payment watcher.
func NewPaymentWatcher(deps PaymentWatcherDeps) *PaymentWatcher {
	return &PaymentWatcher{deps: deps}
}

// Watch begins polling the given payment every 5 seconds, giving up
// after 5 minutes. A watch already in progress for another payment is
// cancelled.
// POST: at most one poller is active for this watcher
func (w *PaymentWatcher) Watch(ctx context.Context, paymentID string) error {
	w.mu.Lock()
	if w.poller != nil {
		old := w.poller
		w.mu.Unlock()
		old.Stop()
		w.mu.Lock()
	}
	poller := &tasks.Poller{
		Interval: w.deps.Interval,
		Timeout:  w.deps.Timeout,
	}
	w.poller = poller
	w.paymentID = paymentID
	w.mu.Unlock()

	slog.Info("billing_event", "event", "payment_watch_started", "payment_id", paymentID)
	return poller.Start(ctx, func(ctx context.Context) (bool, error) {
		return w.checkOnce(ctx, paymentID)
	})
}

// Stop cancels the active watch, if any.
func (w *PaymentWatcher) Stop() {
	w.mu.Lock()
	poller := w.poller
	w.mu.Unlock()
	if poller != nil {
		poller.Stop()
	}
}

// Watching reports whether a poll loop is currently active.
func (w *PaymentWatcher) Watching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.poller != nil && w.poller.Running()
}

func (w *PaymentWatcher) checkOnce(ctx context.Context, paymentID string) (bool, error) {
	status, err := w.deps.StatusChecker.ChargeStatus(ctx, paymentID)
	if err != nil {
		return false, fmt.Errorf("checking charge %s: %w", paymentID, err)
	}

	switch status {
	case subscription.PaymentConfirmed:
		if _, err := ExecuteConfirmPayment(ctx, ConfirmPaymentInput{PaymentID: paymentID}, ConfirmPaymentDeps{
			SubscriptionStore: w.deps.SubscriptionStore,
		}); err != nil {
			return false, err
		}
		w.sendConfirmationEmail(ctx, paymentID)
		return true, nil
	case subscription.PaymentFailed:
		payment, err := w.deps.SubscriptionStore.GetPayment(ctx, paymentID)
		if err != nil {
			return false, err
		}
		payment.Status = subscription.PaymentFailed
		if err := w.deps.SubscriptionStore.SavePayment(ctx, payment); err != nil {
			return false, err
		}
		slog.Warn("billing_event", "event", "payment_failed", "payment_id", paymentID)
		return true, nil
	default:
		return false, nil
	}
}

func (w *PaymentWatcher) sendConfirmationEmail(ctx context.Context, paymentID string) {
	if w.deps.EmailSender == nil || w.deps.EmailLookup == nil {
		return
	}
	payment, err := w.deps.SubscriptionStore.GetPayment(ctx, paymentID)
	if err != nil {
		slog.Warn("billing_event", "event", "confirmation_email_skipped", "payment_id", paymentID, "error", err.Error())
		return
	}
	name, addr, err := w.deps.EmailLookup.GetEmailBySubscriptionID(ctx, payment.SubscriptionID)
	if err != nil || addr == "" {
		slog.Warn("billing_event", "event", "confirmation_email_skipped", "payment_id", paymentID, "error", "no address")
		return
	}

	msg := emailAdapter.PaymentConfirmation(addr, w.deps.FromAddress, w.deps.ReplyToAddress, name, payment.AmountCents)
	if _, err := w.deps.EmailSender.Send(ctx, msg); err != nil {
		slog.Warn("billing_event", "event", "confirmation_email_failed", "payment_id", paymentID, "error", err.Error())
	}
}
