// Package email delivers the billing notifications the gym sends to
// students. The only message today is the payment confirmation that
// closes the subscription reactivation flow.
package email

import (
	"context"
	"fmt"
	"html"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "Academia <noreply@academia.local>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // Reply-to address
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// PaymentConfirmedSubject is the subject line of the confirmation email.
const PaymentConfirmedSubject = "Pagamento confirmado"

// PaymentConfirmation builds the email telling a student their payment
// settled and the subscription is active again. Amounts are in cents.
// PRE: to is a deliverable address
// POST: Returns a ready-to-send request; the student name is HTML-escaped
func PaymentConfirmation(to, from, replyTo, studentName string, amountCents int64) SendRequest {
	body := fmt.Sprintf(
		"<p>Olá %s,</p><p>Seu pagamento de R$ %.2f foi confirmado e sua assinatura está ativa novamente.</p><p>Bons treinos!</p>",
		html.EscapeString(studentName), float64(amountCents)/100)
	return SendRequest{
		To:      []string{to},
		From:    from,
		ReplyTo: replyTo,
		Subject: PaymentConfirmedSubject,
		HTML:    body,
	}
}
