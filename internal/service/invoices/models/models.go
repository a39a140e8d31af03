package models

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
)

// Request модели

// EnsureInvoiceRequest запрос выставления счета по записи.
// Явно указанная услуга имеет приоритет над услугой записи.
type EnsureInvoiceRequest struct {
	StaffID       int64  `json:"staffId"`
	AppointmentID int64  `json:"appointmentId"`
	ServiceID     *int64 `json:"serviceId,omitempty"`
}

// Response модели

// InvoiceResponse ответ с данными счета
type InvoiceResponse struct {
	ID               int64      `json:"id"`
	AppointmentID    int64      `json:"appointmentId"`
	WorkOrderID      *int64     `json:"workOrderId,omitempty"`
	TotalAmount      int64      `json:"totalAmount"`
	PaymentStatus    string     `json:"paymentStatus"`
	SentToCustomerAt *time.Time `json:"sentToCustomerAt,omitempty"`
	SentByStaffID    *int64     `json:"sentByStaffId,omitempty"`
	CustomerPaidAt   *time.Time `json:"customerPaidAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FromDomainInvoice конвертирует domain модель в DTO
func FromDomainInvoice(inv *domain.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}

	return &InvoiceResponse{
		ID:               inv.ID,
		AppointmentID:    inv.AppointmentID,
		WorkOrderID:      inv.WorkOrderID,
		TotalAmount:      inv.TotalAmount,
		PaymentStatus:    string(inv.PaymentStatus),
		SentToCustomerAt: inv.SentToCustomerAt,
		SentByStaffID:    inv.SentByStaffID,
		CustomerPaidAt:   inv.CustomerPaidAt,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}
