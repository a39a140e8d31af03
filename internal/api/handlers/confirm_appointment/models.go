package confirm_appointment

import (
	"time"

	confirmAppointment "github.com/m04kA/SMC-MaintenanceService/internal/usecase/confirm_appointment"
)

// ConfirmAppointmentRequest HTTP request model.
// technicianId != null означает подтверждение с созданием заказ-наряда.
type ConfirmAppointmentRequest struct {
	TechnicianID *int64 `json:"technicianId,omitempty"`
}

// ConfirmAppointmentResponse HTTP response model
type ConfirmAppointmentResponse struct {
	ID                 int64              `json:"id"`
	AccountID          int64              `json:"accountId"`
	SlotID             int64              `json:"slotId"`
	ServiceID          int64              `json:"serviceId"`
	ScheduledAt        string             `json:"scheduledAt"`
	Status             string             `json:"status"`
	ConfirmedByStaffID int64              `json:"confirmedByStaffId"`
	WorkOrder          *WorkOrderResponse `json:"workOrder,omitempty"`
}

// WorkOrderResponse созданный заказ-наряд
type WorkOrderResponse struct {
	ID           int64  `json:"id"`
	TechnicianID int64  `json:"technicianId"`
	Status       string `json:"status"`
	TotalAmount  int64  `json:"totalAmount"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmAppointment.Response) *ConfirmAppointmentResponse {
	out := &ConfirmAppointmentResponse{
		ID:                 resp.ID,
		AccountID:          resp.AccountID,
		SlotID:             resp.SlotID,
		ServiceID:          resp.ServiceID,
		ScheduledAt:        resp.ScheduledAt.Format(time.RFC3339),
		Status:             resp.Status,
		ConfirmedByStaffID: resp.ConfirmedByStaffID,
	}

	if resp.WorkOrder != nil {
		out.WorkOrder = &WorkOrderResponse{
			ID:           resp.WorkOrder.ID,
			TechnicianID: resp.WorkOrder.TechnicianID,
			Status:       resp.WorkOrder.Status,
			TotalAmount:  resp.WorkOrder.TotalAmount,
		}
	}

	return out
}
