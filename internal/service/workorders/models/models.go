package models

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
)

// Request модели

// UpdateWorkOrderRequest частичное обновление заказ-наряда
type UpdateWorkOrderRequest struct {
	Status                *string    `json:"status,omitempty"`
	TechnicianID          *int64     `json:"technicianId,omitempty"`
	Diagnosis             *string    `json:"diagnosis,omitempty"`
	EstimatedCompletionAt *time.Time `json:"estimatedCompletionAt,omitempty"`
	// TotalAmount задает явное переопределение производной стоимости
	TotalAmount *int64 `json:"totalAmount,omitempty"`
}

// IsEmpty возвращает true, если запрос не меняет ни одного поля
func (r *UpdateWorkOrderRequest) IsEmpty() bool {
	return r.Status == nil &&
		r.TechnicianID == nil &&
		r.Diagnosis == nil &&
		r.EstimatedCompletionAt == nil &&
		r.TotalAmount == nil
}

// AddPartRequest списание запчасти в заказ-наряд
type AddPartRequest struct {
	PartID   int64 `json:"partId"`
	Quantity int   `json:"quantity"`
}

// Response модели

// WorkOrderResponse ответ с данными заказ-наряда
type WorkOrderResponse struct {
	ID                    int64      `json:"id"`
	AppointmentID         int64      `json:"appointmentId"`
	TechnicianID          int64      `json:"technicianId"`
	Status                string     `json:"status"`
	Diagnosis             *string    `json:"diagnosis,omitempty"`
	EstimatedCompletionAt *time.Time `json:"estimatedCompletionAt,omitempty"`
	TotalAmount           int64      `json:"totalAmount"`
	TotalOverridden       bool       `json:"totalOverridden"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// PartUsageResponse ответ с данными списания запчасти
type PartUsageResponse struct {
	ID          int64     `json:"id"`
	WorkOrderID int64     `json:"workOrderId"`
	PartID      int64     `json:"partId"`
	Quantity    int       `json:"quantity"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromDomainWorkOrder конвертирует domain модель в DTO
func FromDomainWorkOrder(wo *domain.WorkOrder) *WorkOrderResponse {
	if wo == nil {
		return nil
	}

	return &WorkOrderResponse{
		ID:                    wo.ID,
		AppointmentID:         wo.AppointmentID,
		TechnicianID:          wo.TechnicianID,
		Status:                string(wo.Status),
		Diagnosis:             wo.Diagnosis,
		EstimatedCompletionAt: wo.EstimatedCompletionAt,
		TotalAmount:           wo.TotalAmount,
		TotalOverridden:       wo.TotalOverridden,
		CreatedAt:             wo.CreatedAt,
		UpdatedAt:             wo.UpdatedAt,
	}
}

// FromDomainPartUsage конвертирует domain модель в DTO
func FromDomainPartUsage(u *domain.PartUsage) *PartUsageResponse {
	if u == nil {
		return nil
	}

	return &PartUsageResponse{
		ID:          u.ID,
		WorkOrderID: u.WorkOrderID,
		PartID:      u.PartID,
		Quantity:    u.Quantity,
		Amount:      u.Amount,
		CreatedAt:   u.CreatedAt,
	}
}

// ToDomainWorkOrderStatus конвертирует строку в domain.WorkOrderStatus с валидацией
func ToDomainWorkOrderStatus(status string) (domain.WorkOrderStatus, bool) {
	s := domain.WorkOrderStatus(status)

	switch s {
	case domain.WorkOrderPending, domain.WorkOrderInProgress, domain.WorkOrderOnHold, domain.WorkOrderDone:
		return s, true
	}

	return "", false
}
