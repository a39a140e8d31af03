package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from WorkOrderStatus
		to   WorkOrderStatus
		want bool
	}{
		{"pending to in_progress", WorkOrderPending, WorkOrderInProgress, true},
		{"pending to done is forbidden", WorkOrderPending, WorkOrderDone, false},
		{"pending to on_hold is forbidden", WorkOrderPending, WorkOrderOnHold, false},
		{"in_progress to on_hold", WorkOrderInProgress, WorkOrderOnHold, true},
		{"in_progress to done", WorkOrderInProgress, WorkOrderDone, true},
		{"in_progress to pending is forbidden", WorkOrderInProgress, WorkOrderPending, false},
		{"on_hold back to in_progress", WorkOrderOnHold, WorkOrderInProgress, true},
		{"on_hold to done is forbidden", WorkOrderOnHold, WorkOrderDone, false},
		{"done is terminal", WorkOrderDone, WorkOrderInProgress, false},
		{"no self transition", WorkOrderInProgress, WorkOrderInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &WorkOrder{Status: tt.from}
			assert.Equal(t, tt.want, w.CanTransitionTo(tt.to))
		})
	}
}

func TestWorkOrder_CanReassignTechnician(t *testing.T) {
	tests := []struct {
		name   string
		status WorkOrderStatus
		want   bool
	}{
		{"pending allows reassignment", WorkOrderPending, true},
		{"in_progress allows reassignment", WorkOrderInProgress, true},
		{"on_hold locks assignment", WorkOrderOnHold, false},
		{"done locks assignment", WorkOrderDone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &WorkOrder{Status: tt.status}
			assert.Equal(t, tt.want, w.CanReassignTechnician())
		})
	}
}

func TestWorkOrder_IsActive(t *testing.T) {
	assert.True(t, (&WorkOrder{Status: WorkOrderPending}).IsActive())
	assert.True(t, (&WorkOrder{Status: WorkOrderInProgress}).IsActive())
	assert.True(t, (&WorkOrder{Status: WorkOrderOnHold}).IsActive())
	assert.False(t, (&WorkOrder{Status: WorkOrderDone}).IsActive())
}
