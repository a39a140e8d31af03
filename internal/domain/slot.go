package domain

import "time"

// SlotStatus represents the status of a time slot
type SlotStatus string

const (
	SlotActive   SlotStatus = "active"
	SlotDisabled SlotStatus = "disabled"
)

// Slot represents a bookable time window tied to one staff member
type Slot struct {
	ID        int64
	StaffID   int64
	StartTime time.Time
	EndTime   time.Time
	Capacity  int
	Status    SlotStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasFreeCapacity returns true if one more appointment fits into the slot
// given the current number of non-cancelled appointments
func (s *Slot) HasFreeCapacity(bookedCount int) bool {
	return bookedCount < s.Capacity
}

// IsActive returns true if the slot accepts new appointments
func (s *Slot) IsActive() bool {
	return s.Status == SlotActive
}
