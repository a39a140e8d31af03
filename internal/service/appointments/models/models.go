package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// GetAccountAppointmentsRequest запрос истории записей клиента
type GetAccountAppointmentsRequest struct {
	CallerID  int64   `json:"callerId"`
	AccountID int64   `json:"accountId"`
	Status    *string `json:"status,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64     `json:"id"`
	AccountID          int64     `json:"accountId"`
	VehicleID          int64     `json:"vehicleId"`
	SlotID             int64     `json:"slotId"`
	ServiceID          int64     `json:"serviceId"`
	ScheduledAt        time.Time `json:"scheduledAt"`
	Status             string    `json:"status"`
	ConfirmedByStaffID *int64    `json:"confirmedByStaffId,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:                 a.ID,
		AccountID:          a.AccountID,
		VehicleID:          a.VehicleID,
		SlotID:             a.SlotID,
		ServiceID:          a.ServiceID,
		ScheduledAt:        a.ScheduledAt,
		Status:             string(a.Status),
		ConfirmedByStaffID: a.ConfirmedByStaffID,
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	validStatuses := []domain.AppointmentStatus{
		domain.AppointmentPending,
		domain.AppointmentConfirmed,
		domain.AppointmentCompleted,
		domain.AppointmentCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
