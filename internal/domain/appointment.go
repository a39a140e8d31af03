package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a customer's request to receive a service at a given time
type Appointment struct {
	ID                 int64
	AccountID          int64
	VehicleID          int64
	SlotID             int64
	ServiceID          int64
	ScheduledAt        time.Time
	Status             AppointmentStatus
	ConfirmedByStaffID *int64
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive returns true if the appointment counts against slot capacity
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentCancelled
}

// CanBeConfirmed returns true if the appointment can be confirmed by staff
func (a *Appointment) CanBeConfirmed() bool {
	return a.Status == AppointmentPending
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed
}

// CanBeCompleted returns true if the appointment can be marked completed
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == AppointmentConfirmed
}
