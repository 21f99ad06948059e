package billing

import (
	"context"
	"testing"
	"time"

	"academia/internal/domain/subscription"
)

func TestSimulatedGatewayConfirmsAfterDelay(t *testing.T) {
	g := NewSimulatedGateway()
	g.ConfirmAfter = 20 * time.Millisecond

	p, err := g.CreateCharge(context.Background(), "sub-1", 15000)
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if p.Status != subscription.PaymentPending {
		t.Errorf("expected pending charge, got %s", p.Status)
	}
	if p.InvoiceURL == "" || p.PixCode == "" {
		t.Error("expected invoice URL and PIX code on the charge")
	}

	status, err := g.ChargeStatus(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("ChargeStatus: %v", err)
	}
	if status != subscription.PaymentPending {
		t.Errorf("expected PENDING before delay, got %s", status)
	}

	time.Sleep(30 * time.Millisecond)
	status, err = g.ChargeStatus(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("ChargeStatus: %v", err)
	}
	if status != subscription.PaymentConfirmed {
		t.Errorf("expected CONFIRMED after delay, got %s", status)
	}
}

func TestSimulatedGatewayUnknownCharge(t *testing.T) {
	g := NewSimulatedGateway()
	status, err := g.ChargeStatus(context.Background(), "missing")
	if err != nil {
		t.Fatalf("ChargeStatus: %v", err)
	}
	if status != subscription.PaymentFailed {
		t.Errorf("expected FAILED for unknown charge, got %s", status)
	}
}
