package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"academia/internal/application/orchestrators"
	"academia/internal/domain/subscription"
)

// handleReactivateSubscription handles POST /api/subscriptions/reactivate.
// When the plan charges, the response is 402 with the pending payment's
// invoice URL and PIX code, and a background watcher polls the gateway
// until the payment settles.
func handleReactivateSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SubscriptionID string `json:"subscriptionId"`
		StudentID      string `json:"studentId"`
	}
	if !decodeValid(w, r, &req) {
		return
	}
	if req.SubscriptionID == "" && req.StudentID == "" {
		http.Error(w, "subscriptionId or studentId is required", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteReactivateSubscription(ctx, orchestrators.ReactivateSubscriptionInput{
		SubscriptionID: req.SubscriptionID,
		StudentID:      req.StudentID,
	}, orchestrators.ReactivateSubscriptionDeps{
		SubscriptionStore: stores.SubscriptionStore,
		PlanLookup:        stores.RefDataStore,
		Gateway:           paymentGateway,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, orchestrators.ErrPaymentRequired):
		startPaymentWatch(result.Payment.ID)
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"paymentRequired": true,
			"paymentId":       result.Payment.ID,
			"invoiceUrl":      result.Payment.InvoiceURL,
			"pixCode":         result.Payment.PixCode,
			"amountCents":     result.Payment.AmountCents,
		})
	case errors.Is(err, subscription.ErrAlreadyActive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, err)
	}
}

// startPaymentWatch begins background polling for a pending payment.
// The watcher is shared: a new watch replaces any previous one.
func startPaymentWatch(paymentID string) {
	if paymentGateway == nil {
		return
	}
	watcherMu.Lock()
	if paymentWatcher == nil {
		paymentWatcher = orchestrators.NewPaymentWatcher(orchestrators.PaymentWatcherDeps{
			SubscriptionStore: stores.SubscriptionStore,
			StatusChecker:     paymentGateway,
			EmailSender:       emailSender,
			EmailLookup:       stores.SubscriptionStore,
			FromAddress:       emailFromAddress,
			ReplyToAddress:    emailReplyTo,
		})
	}
	watcher := paymentWatcher
	watcherMu.Unlock()
	// Detached from the request: polling outlives the HTTP exchange.
	if err := watcher.Watch(context.Background(), paymentID); err != nil {
		slog.Error("billing_event", "event", "payment_watch_failed", "payment_id", paymentID, "error", err)
	}
}

// handleSubscriptionByID handles GET /api/subscriptions/{id}: the
// payment status poll target for the reactivation screen.
func handleSubscriptionByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/subscriptions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	sub, err := stores.SubscriptionStore.GetByID(ctx, id)
	if err != nil {
		http.Error(w, "subscription not found", http.StatusNotFound)
		return
	}
	payments, err := stores.SubscriptionStore.ListPayments(ctx, id)
	if err != nil {
		internalError(w, err)
		return
	}
	if payments == nil {
		payments = []subscription.Payment{}
	}
	watcherMu.Lock()
	watcher := paymentWatcher
	watcherMu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"subscription": sub,
		"payments":     payments,
		"watching":     watcher != nil && watcher.Watching(),
	})
}

// handlePaymentConfirm handles POST /api/payments/{id}/confirm: settles
// a payment (gateway webhook or manual confirmation at the front desk).
func handlePaymentConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/payments/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || sub != "confirm" {
		http.NotFound(w, r)
		return
	}

	payment, err := orchestrators.ExecuteConfirmPayment(ctx, orchestrators.ConfirmPaymentInput{
		PaymentID: id,
	}, orchestrators.ConfirmPaymentDeps{SubscriptionStore: stores.SubscriptionStore})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, payment)
	case errors.Is(err, subscription.ErrPaymentSettled):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, err)
	}
}
