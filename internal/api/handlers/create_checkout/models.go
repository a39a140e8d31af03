package create_checkout

import (
	"time"

	createCheckout "github.com/m04kA/SMC-MaintenanceService/internal/usecase/create_checkout"
)

// CreateCheckoutRequest HTTP request model
type CreateCheckoutRequest struct {
	Method   string  `json:"method"`
	BankCode *string `json:"bankCode,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateCheckoutRequest) ToUseCaseRequest(invoiceID, callerID int64, clientIP string) *createCheckout.Request {
	return &createCheckout.Request{
		InvoiceID: invoiceID,
		CallerID:  callerID,
		Method:    r.Method,
		BankCode:  r.BankCode,
		ClientIP:  clientIP,
	}
}

// CreateCheckoutResponse HTTP response model
type CreateCheckoutResponse struct {
	TransactionID int64  `json:"transactionId"`
	InvoiceID     int64  `json:"invoiceId"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	CheckoutURL   string `json:"checkoutUrl"`
	ExpiresAt     string `json:"expiresAt"`
	Reused        bool   `json:"reused"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createCheckout.Response) *CreateCheckoutResponse {
	return &CreateCheckoutResponse{
		TransactionID: resp.TransactionID,
		InvoiceID:     resp.InvoiceID,
		Amount:        resp.Amount,
		Method:        resp.Method,
		CheckoutURL:   resp.CheckoutURL,
		ExpiresAt:     resp.ExpiresAt.Format(time.RFC3339),
		Reused:        resp.Reused,
	}
}
