package workorders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	partRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/parts"
	woRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/workorder"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/workorders/models"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type mockWorkOrderRepo struct {
	workOrders  map[int64]*domain.WorkOrder
	usages      []*domain.PartUsage
	activeCount map[int64]int
	nextUsageID int64
}

func (m *mockWorkOrderRepo) GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	wo, ok := m.workOrders[id]
	if !ok {
		return nil, woRepo.ErrWorkOrderNotFound
	}
	copied := *wo
	return &copied, nil
}

func (m *mockWorkOrderRepo) CountActiveByTechnician(ctx context.Context, technicianID int64) (int, error) {
	return m.activeCount[technicianID], nil
}

func (m *mockWorkOrderRepo) Update(ctx context.Context, id int64, fields woRepo.UpdateFields) error {
	wo, ok := m.workOrders[id]
	if !ok {
		return woRepo.ErrWorkOrderNotFound
	}
	if fields.Status != nil {
		wo.Status = *fields.Status
	}
	if fields.TechnicianID != nil {
		wo.TechnicianID = *fields.TechnicianID
	}
	if fields.Diagnosis != nil {
		wo.Diagnosis = fields.Diagnosis
	}
	if fields.EstimatedCompletionAt != nil {
		wo.EstimatedCompletionAt = fields.EstimatedCompletionAt
	}
	if fields.TotalAmount != nil {
		wo.TotalAmount = *fields.TotalAmount
	}
	if fields.TotalOverridden != nil {
		wo.TotalOverridden = *fields.TotalOverridden
	}
	return nil
}

func (m *mockWorkOrderRepo) AddPartUsage(ctx context.Context, usage *domain.PartUsage) (*domain.PartUsage, error) {
	m.nextUsageID++
	created := *usage
	created.ID = m.nextUsageID
	m.usages = append(m.usages, &created)
	return &created, nil
}

func (m *mockWorkOrderRepo) GetPartUsage(ctx context.Context, workOrderID, usageID int64) (*domain.PartUsage, error) {
	for _, u := range m.usages {
		if u.WorkOrderID == workOrderID && u.ID == usageID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, woRepo.ErrPartUsageNotFound
}

func (m *mockWorkOrderRepo) DeletePartUsage(ctx context.Context, workOrderID, usageID int64) error {
	for i, u := range m.usages {
		if u.WorkOrderID == workOrderID && u.ID == usageID {
			m.usages = append(m.usages[:i], m.usages[i+1:]...)
			return nil
		}
	}
	return woRepo.ErrPartUsageNotFound
}

func (m *mockWorkOrderRepo) SumLines(ctx context.Context, workOrderID int64) (int64, error) {
	var total int64
	for _, u := range m.usages {
		if u.WorkOrderID == workOrderID {
			total += u.Amount
		}
	}
	return total, nil
}

type mockPartRepo struct {
	parts map[int64]*domain.Part
}

func (m *mockPartRepo) GetByID(ctx context.Context, id int64) (*domain.Part, error) {
	part, ok := m.parts[id]
	if !ok {
		return nil, partRepo.ErrPartNotFound
	}
	copied := *part
	return &copied, nil
}

func (m *mockPartRepo) DecrementStock(ctx context.Context, id int64, quantity int) error {
	part, ok := m.parts[id]
	if !ok {
		return partRepo.ErrPartNotFound
	}
	if part.Stock < quantity {
		return partRepo.ErrInsufficientStock
	}
	part.Stock -= quantity
	return nil
}

func (m *mockPartRepo) RestoreStock(ctx context.Context, id int64, quantity int) error {
	part, ok := m.parts[id]
	if !ok {
		return partRepo.ErrPartNotFound
	}
	part.Stock += quantity
	return nil
}

type mockAccountClient struct {
	accounts map[int64]*accountservice.Account
}

func (m *mockAccountClient) GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error) {
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, accountservice.ErrAccountNotFound
	}
	return acc, nil
}

type mockTxManager struct{}

func (mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const (
	customerID  = int64(100)
	staffID     = int64(200)
	techID      = int64(300)
	otherTechID = int64(301)
)

func newFixture(t *testing.T) (*Service, *mockWorkOrderRepo, *mockPartRepo) {
	t.Helper()

	wo := &mockWorkOrderRepo{
		workOrders: map[int64]*domain.WorkOrder{
			1: {ID: 1, AppointmentID: 5, TechnicianID: techID, Status: domain.WorkOrderPending, TotalAmount: 500000},
		},
		activeCount: map[int64]int{},
	}
	parts := &mockPartRepo{parts: map[int64]*domain.Part{
		10: {ID: 10, Name: "Oil filter", Price: 150000, Stock: 3},
	}}
	accounts := &mockAccountClient{accounts: map[int64]*accountservice.Account{
		customerID:  {ID: customerID, Active: true, Role: accountservice.RoleCustomer},
		staffID:     {ID: staffID, Active: true, Role: accountservice.RoleStaff},
		techID:      {ID: techID, Active: true, Role: accountservice.RoleTechnician},
		otherTechID: {ID: otherTechID, Active: true, Role: accountservice.RoleTechnician},
	}}

	svc := NewService(wo, parts, accounts, mockTxManager{}, noopLogger{}, 5)
	return svc, wo, parts
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestUpdate_StatusTransitions(t *testing.T) {
	t.Run("assigned technician starts work", func(t *testing.T) {
		svc, wo, _ := newFixture(t)

		resp, err := svc.Update(context.Background(), 1, techID, &models.UpdateWorkOrderRequest{
			Status: strPtr("in_progress"),
		})
		require.NoError(t, err)

		assert.Equal(t, string(domain.WorkOrderInProgress), resp.Status)
		assert.Equal(t, domain.WorkOrderInProgress, wo.workOrders[1].Status)
	})

	t.Run("pending cannot jump to done", func(t *testing.T) {
		svc, wo, _ := newFixture(t)

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			Status: strPtr("done"),
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, domain.WorkOrderPending, wo.workOrders[1].Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			Status: strPtr("archived"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty request rejected", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdate_Reassignment(t *testing.T) {
	t.Run("staff reassigns pending work order", func(t *testing.T) {
		svc, wo, _ := newFixture(t)

		resp, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TechnicianID: int64Ptr(otherTechID),
		})
		require.NoError(t, err)

		assert.Equal(t, otherTechID, resp.TechnicianID)
		assert.Equal(t, otherTechID, wo.workOrders[1].TechnicianID)
	})

	t.Run("reassignment locked once work started", func(t *testing.T) {
		svc, wo, _ := newFixture(t)
		wo.workOrders[1].Status = domain.WorkOrderInProgress

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TechnicianID: int64Ptr(otherTechID),
		})
		assert.ErrorIs(t, err, ErrReassignmentLocked)
	})

	t.Run("same technician is not a reassignment", func(t *testing.T) {
		svc, wo, _ := newFixture(t)
		wo.workOrders[1].Status = domain.WorkOrderInProgress

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TechnicianID: int64Ptr(techID),
			Diagnosis:    strPtr("worn brake pads"),
		})
		assert.NoError(t, err)
	})

	t.Run("overloaded technician rejected", func(t *testing.T) {
		svc, wo, _ := newFixture(t)
		wo.activeCount[otherTechID] = 5

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TechnicianID: int64Ptr(otherTechID),
		})
		assert.ErrorIs(t, err, ErrTechnicianOverloaded)
		assert.Equal(t, techID, wo.workOrders[1].TechnicianID)
	})

	t.Run("zero limit disables the cap", func(t *testing.T) {
		_, wo, parts := newFixture(t)
		accounts := &mockAccountClient{accounts: map[int64]*accountservice.Account{
			staffID:     {ID: staffID, Active: true, Role: accountservice.RoleStaff},
			otherTechID: {ID: otherTechID, Active: true, Role: accountservice.RoleTechnician},
		}}
		svc := NewService(wo, parts, accounts, mockTxManager{}, noopLogger{}, 0)
		wo.activeCount[otherTechID] = 99

		resp, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TechnicianID: int64Ptr(otherTechID),
		})
		require.NoError(t, err)
		assert.Equal(t, otherTechID, resp.TechnicianID)
	})

	t.Run("staff account cannot be assigned", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TechnicianID: int64Ptr(staffID),
		})
		assert.ErrorIs(t, err, ErrNotTechnician)
	})
}

func TestUpdate_TotalAmountOverride(t *testing.T) {
	t.Run("explicit total freezes recomputation", func(t *testing.T) {
		svc, wo, _ := newFixture(t)

		resp, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TotalAmount: int64Ptr(750000),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(750000), resp.TotalAmount)
		assert.True(t, resp.TotalOverridden)
		assert.True(t, wo.workOrders[1].TotalOverridden)
	})

	t.Run("non-positive total rejected", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		_, err := svc.Update(context.Background(), 1, staffID, &models.UpdateWorkOrderRequest{
			TotalAmount: int64Ptr(0),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdate_AccessControl(t *testing.T) {
	tests := []struct {
		name     string
		callerID int64
	}{
		{"customer denied", customerID},
		{"unassigned technician denied", otherTechID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newFixture(t)

			_, err := svc.Update(context.Background(), 1, tt.callerID, &models.UpdateWorkOrderRequest{
				Diagnosis: strPtr("worn brake pads"),
			})
			assert.ErrorIs(t, err, ErrAccessDenied)
		})
	}
}

func TestGetByID(t *testing.T) {
	t.Run("assigned technician sees own work order", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		resp, err := svc.GetByID(context.Background(), 1, techID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("unknown work order", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		_, err := svc.GetByID(context.Background(), 404, staffID)
		assert.ErrorIs(t, err, ErrWorkOrderNotFound)
	})
}

func TestAddPart(t *testing.T) {
	t.Run("deducts stock and recomputes total", func(t *testing.T) {
		svc, wo, parts := newFixture(t)

		usage, err := svc.AddPart(context.Background(), 1, techID, &models.AddPartRequest{
			PartID:   10,
			Quantity: 2,
		})
		require.NoError(t, err)

		// Стоимость строки = цена на момент списания * количество
		assert.Equal(t, int64(300000), usage.Amount)
		assert.Equal(t, 1, parts.parts[10].Stock)
		// Производная стоимость пересчитана по строкам
		assert.Equal(t, int64(300000), wo.workOrders[1].TotalAmount)
	})

	t.Run("insufficient stock leaves state untouched", func(t *testing.T) {
		svc, wo, parts := newFixture(t)

		_, err := svc.AddPart(context.Background(), 1, techID, &models.AddPartRequest{
			PartID:   10,
			Quantity: 5,
		})
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 3, parts.parts[10].Stock)
		assert.Empty(t, wo.usages)
	})

	t.Run("overridden total is not recomputed", func(t *testing.T) {
		svc, wo, _ := newFixture(t)
		wo.workOrders[1].TotalOverridden = true
		wo.workOrders[1].TotalAmount = 999000

		_, err := svc.AddPart(context.Background(), 1, techID, &models.AddPartRequest{
			PartID:   10,
			Quantity: 1,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(999000), wo.workOrders[1].TotalAmount)
	})

	t.Run("closed work order rejected", func(t *testing.T) {
		svc, wo, _ := newFixture(t)
		wo.workOrders[1].Status = domain.WorkOrderDone

		_, err := svc.AddPart(context.Background(), 1, staffID, &models.AddPartRequest{
			PartID:   10,
			Quantity: 1,
		})
		assert.ErrorIs(t, err, ErrWorkOrderClosed)
	})

	t.Run("unknown part", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		_, err := svc.AddPart(context.Background(), 1, staffID, &models.AddPartRequest{
			PartID:   404,
			Quantity: 1,
		})
		assert.ErrorIs(t, err, ErrPartNotFound)
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		_, err := svc.AddPart(context.Background(), 1, staffID, &models.AddPartRequest{
			PartID:   10,
			Quantity: 0,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRemovePart(t *testing.T) {
	t.Run("restores stock and recomputes total", func(t *testing.T) {
		svc, wo, parts := newFixture(t)

		usage, err := svc.AddPart(context.Background(), 1, techID, &models.AddPartRequest{
			PartID:   10,
			Quantity: 2,
		})
		require.NoError(t, err)
		require.Equal(t, 1, parts.parts[10].Stock)

		err = svc.RemovePart(context.Background(), 1, usage.ID, techID)
		require.NoError(t, err)

		// Компенсация: остаток возвращен, строка удалена, стоимость обнулена
		assert.Equal(t, 3, parts.parts[10].Stock)
		assert.Empty(t, wo.usages)
		assert.Equal(t, int64(0), wo.workOrders[1].TotalAmount)
	})

	t.Run("unknown usage", func(t *testing.T) {
		svc, _, _ := newFixture(t)

		err := svc.RemovePart(context.Background(), 1, 404, staffID)
		assert.ErrorIs(t, err, ErrPartUsageNotFound)
	})

	t.Run("closed work order rejected", func(t *testing.T) {
		svc, wo, _ := newFixture(t)
		wo.workOrders[1].Status = domain.WorkOrderDone

		err := svc.RemovePart(context.Background(), 1, 1, staffID)
		assert.ErrorIs(t, err, ErrWorkOrderClosed)
	})
}
