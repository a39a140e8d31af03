package domain

import "time"

// WorkOrderStatus represents the progress status of a work order
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "pending"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderOnHold     WorkOrderStatus = "on_hold"
	WorkOrderDone       WorkOrderStatus = "done"
)

// WorkOrder represents the technician-facing repair record created
// once an appointment is confirmed with a technician
type WorkOrder struct {
	ID                    int64
	AppointmentID         int64
	TechnicianID          int64
	Status                WorkOrderStatus
	Diagnosis             *string
	EstimatedCompletionAt *time.Time
	// TotalAmount in whole currency units; derived from service and part
	// lines unless TotalOverridden is set
	TotalAmount     int64
	TotalOverridden bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive returns true if the work order counts against the technician workload
func (w *WorkOrder) IsActive() bool {
	return w.Status != WorkOrderDone
}

// CanReassignTechnician returns true while technician reassignment is allowed.
// Assignment is locked once work is on hold or done.
func (w *WorkOrder) CanReassignTechnician() bool {
	return w.Status == WorkOrderPending || w.Status == WorkOrderInProgress
}

// CanTransitionTo validates a progress status transition
func (w *WorkOrder) CanTransitionTo(next WorkOrderStatus) bool {
	switch w.Status {
	case WorkOrderPending:
		return next == WorkOrderInProgress
	case WorkOrderInProgress:
		return next == WorkOrderOnHold || next == WorkOrderDone
	case WorkOrderOnHold:
		return next == WorkOrderInProgress
	default:
		return false
	}
}

// ServiceDetail represents one service line attached to a work order
type ServiceDetail struct {
	ID          int64
	WorkOrderID int64
	ServiceID   int64
	Description *string
	Amount      int64
}

// PartUsage represents one spare part deducted from inventory for a work order
type PartUsage struct {
	ID          int64
	WorkOrderID int64
	PartID      int64
	Quantity    int
	// Amount = unit price * quantity at the moment of deduction
	Amount    int64
	CreatedAt time.Time
}

// Part represents a spare part in inventory
type Part struct {
	ID    int64
	Name  string
	Price int64
	Stock int
}
