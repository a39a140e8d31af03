package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/SMC-MaintenanceService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	VehicleID   int64   `json:"vehicleId"`
	ServiceID   int64   `json:"serviceId"`
	ScheduledAt string  `json:"scheduledAt"` // RFC3339, например "2026-09-15T10:00:00+07:00"
	Notes       *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	AccountID    int64   `json:"accountId"`
	VehicleID    int64   `json:"vehicleId"`
	SlotID       int64   `json:"slotId"`
	ServiceID    int64   `json:"serviceId"`
	ScheduledAt  string  `json:"scheduledAt"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
	SlotStaffID  int64   `json:"slotStaffId"`
	SlotEndTime  string  `json:"slotEndTime"`
	SlotCapacity int     `json:"slotCapacity"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(accountID int64) (*createAppointment.Request, error) {
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		AccountID:   accountID,
		VehicleID:   r.VehicleID,
		ServiceID:   r.ServiceID,
		ScheduledAt: scheduledAt,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           resp.ID,
		AccountID:    resp.AccountID,
		VehicleID:    resp.VehicleID,
		SlotID:       resp.SlotID,
		ServiceID:    resp.ServiceID,
		ScheduledAt:  resp.ScheduledAt.Format(time.RFC3339),
		Status:       resp.Status,
		Notes:        resp.Notes,
		SlotStaffID:  resp.SlotStaffID,
		SlotEndTime:  resp.SlotEndTime.Format(time.RFC3339),
		SlotCapacity: resp.SlotCapacity,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
