package update_invoice_payment

// UpdatePaymentRequest HTTP request model
type UpdatePaymentRequest struct {
	Paid bool `json:"paid"`
}
