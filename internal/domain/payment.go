package domain

import (
	"fmt"
	"strings"
	"time"
)

// TransactionStatus represents the state of a payment transaction.
// Success and Failed are terminal; a transaction is never reopened.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)

// PaymentMethod represents a normalized payment method
type PaymentMethod string

const (
	MethodBanking PaymentMethod = "banking"
	MethodCard    PaymentMethod = "card"
)

// NormalizePaymentMethod converts a raw method string to the canonical form.
// The storage layer only ever sees canonical values.
func NormalizePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case MethodBanking:
		return MethodBanking, nil
	case MethodCard:
		return MethodCard, nil
	default:
		return "", fmt.Errorf("unknown payment method: %q", raw)
	}
}

// PaymentTransaction represents one attempt to settle an invoice
// through the payment gateway
type PaymentTransaction struct {
	ID        int64
	InvoiceID int64
	// Amount in whole currency units; the gateway receives minor units (x100)
	Amount      int64
	Method      PaymentMethod
	Status      TransactionStatus
	BankCode    *string
	GatewayMeta *string
	CheckoutURL *string
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsTerminal returns true once the transaction reached a final state
func (t *PaymentTransaction) IsTerminal() bool {
	return t.Status == TransactionSuccess || t.Status == TransactionFailed
}

// TxnRef builds the gateway order reference "<invoiceID>-<transactionID>"
func (t *PaymentTransaction) TxnRef() string {
	return fmt.Sprintf("%d-%d", t.InvoiceID, t.ID)
}
