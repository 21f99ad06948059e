package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"academia/internal/domain/subscription"
)

// HTTPGateway talks to the payment provider's REST API.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway creates a gateway client for the given provider.
// PRE: baseURL and apiKey are non-empty
// POST: Returns a ready-to-use gateway
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chargeRequest struct {
	SubscriptionID string `json:"subscription_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
}

type chargeResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	InvoiceURL string `json:"invoice_url"`
	PixCode    string `json:"pix_code"`
}

// CreateCharge creates a charge at the provider.
// PRE: amountCents > 0
// POST: Returns a pending Payment carrying the provider's charge ID,
// invoice URL and PIX code
func (g *HTTPGateway) CreateCharge(ctx context.Context, subscriptionID string, amountCents int64) (subscription.Payment, error) {
	body, err := json.Marshal(chargeRequest{
		SubscriptionID: subscriptionID,
		AmountCents:    amountCents,
		Currency:       "BRL",
	})
	if err != nil {
		return subscription.Payment{}, err
	}

	var resp chargeResponse
	if err := g.do(ctx, http.MethodPost, "/v1/charges", bytes.NewReader(body), &resp); err != nil {
		slog.Error("billing_event", "event", "create_charge_failed", "subscription_id", subscriptionID, "error", err)
		return subscription.Payment{}, fmt.Errorf("creating charge: %w", err)
	}

	slog.Info("billing_event", "event", "charge_created", "charge_id", resp.ID, "subscription_id", subscriptionID, "amount_cents", amountCents)
	return subscription.Payment{
		ID:             resp.ID,
		SubscriptionID: subscriptionID,
		AmountCents:    amountCents,
		Status:         mapProviderStatus(resp.Status),
		InvoiceURL:     resp.InvoiceURL,
		PixCode:        resp.PixCode,
		CreatedAt:      time.Now(),
	}, nil
}

// ChargeStatus fetches the current status of a charge.
// PRE: paymentID is a charge ID previously returned by CreateCharge
// POST: Returns one of the payment status constants
func (g *HTTPGateway) ChargeStatus(ctx context.Context, paymentID string) (string, error) {
	var resp chargeResponse
	if err := g.do(ctx, http.MethodGet, "/v1/charges/"+paymentID, nil, &resp); err != nil {
		return "", fmt.Errorf("fetching charge %s: %w", paymentID, err)
	}
	return mapProviderStatus(resp.Status), nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, snippet)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// mapProviderStatus translates provider charge states into the payment
// status vocabulary used by subscriptions.
func mapProviderStatus(providerStatus string) string {
	switch providerStatus {
	case "paid", "confirmed":
		return subscription.PaymentConfirmed
	case "failed", "refused", "expired":
		return subscription.PaymentFailed
	case "overdue":
		return subscription.PaymentOverdue
	default:
		return subscription.PaymentPending
	}
}
