package domain

import "time"

// InvoicePaymentStatus represents the settlement state of an invoice
type InvoicePaymentStatus string

const (
	InvoiceUnpaid InvoicePaymentStatus = "unpaid"
	InvoicePaid   InvoicePaymentStatus = "paid"
)

// Invoice represents the single billing record for an appointment.
// PaymentStatus is authoritative: a customer's own confirmation only
// stamps CustomerPaidAt and never flips the status.
type Invoice struct {
	ID            int64
	AppointmentID int64
	WorkOrderID   *int64
	// TotalAmount in whole currency units (VND)
	TotalAmount      int64
	PaymentStatus    InvoicePaymentStatus
	SentToCustomerAt *time.Time
	SentByStaffID    *int64
	CustomerPaidAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPaid returns true if the invoice has been settled
func (i *Invoice) IsPaid() bool {
	return i.PaymentStatus == InvoicePaid
}
