package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	slotRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type mockSlotRepo struct {
	slots   map[int64]*domain.Slot
	nextID  int64
	deleted []int64

	// failNextCreate имитирует проигрыш гонки за уникальный start_time
	failNextCreate bool
}

func (m *mockSlotRepo) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	if m.failNextCreate {
		m.failNextCreate = false
		return nil, slotRepo.ErrDuplicateStartTime
	}
	for _, existing := range m.slots {
		if existing.StartTime.Equal(slot.StartTime) {
			return nil, slotRepo.ErrDuplicateStartTime
		}
	}
	m.nextID++
	created := *slot
	created.ID = m.nextID
	m.slots[created.ID] = &created
	return &created, nil
}

func (m *mockSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, ok := m.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (m *mockSlotRepo) GetByStartTime(ctx context.Context, startTime time.Time) (*domain.Slot, error) {
	for _, slot := range m.slots {
		if slot.StartTime.Equal(startTime) {
			copied := *slot
			return &copied, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (m *mockSlotRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(m.slots, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockApptRepo struct {
	activeBySlot map[int64]int
}

func (m *mockApptRepo) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	return m.activeBySlot[slotID], nil
}

type mockAccountClient struct {
	accounts map[int64]*accountservice.Account
	staff    []accountservice.Account
}

func (m *mockAccountClient) GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error) {
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, accountservice.ErrAccountNotFound
	}
	return acc, nil
}

func (m *mockAccountClient) ListActiveStaff(ctx context.Context) ([]accountservice.Account, error) {
	return m.staff, nil
}

type staticPicker struct {
	staffID int64
	err     error
}

func (p *staticPicker) Pick(ctx context.Context) (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.staffID, nil
}

type mockTxManager struct{}

func (mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const staffID = int64(200)

func newService(t *testing.T, slots *mockSlotRepo, appts *mockApptRepo, picker StaffPicker) *Service {
	t.Helper()

	accounts := &mockAccountClient{accounts: map[int64]*accountservice.Account{
		staffID: {ID: staffID, Active: true, Role: accountservice.RoleStaff},
		100:     {ID: 100, Active: true, Role: accountservice.RoleCustomer},
	}}

	return NewService(slots, appts, accounts, picker, mockTxManager{}, noopLogger{}, 4, 60)
}

func TestEnsureSlot(t *testing.T) {
	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)

	t.Run("returns existing slot", func(t *testing.T) {
		slots := &mockSlotRepo{slots: map[int64]*domain.Slot{
			1: {ID: 1, StaffID: staffID, StartTime: start, Capacity: 4, Status: domain.SlotActive},
		}, nextID: 1}
		svc := newService(t, slots, &mockApptRepo{}, &staticPicker{staffID: staffID})

		slot, err := svc.EnsureSlot(context.Background(), start)
		require.NoError(t, err)

		assert.Equal(t, int64(1), slot.ID)
		assert.Len(t, slots.slots, 1)
	})

	t.Run("creates slot with defaults", func(t *testing.T) {
		slots := &mockSlotRepo{slots: map[int64]*domain.Slot{}}
		svc := newService(t, slots, &mockApptRepo{}, &staticPicker{staffID: staffID})

		slot, err := svc.EnsureSlot(context.Background(), start)
		require.NoError(t, err)

		assert.Equal(t, staffID, slot.StaffID)
		assert.Equal(t, start, slot.StartTime)
		assert.Equal(t, start.Add(time.Hour), slot.EndTime)
		assert.Equal(t, 4, slot.Capacity)
		assert.Equal(t, domain.SlotActive, slot.Status)
	})

	t.Run("lost create race re-fetches winner", func(t *testing.T) {
		slots := &mockSlotRepo{slots: map[int64]*domain.Slot{}, failNextCreate: true}
		svc := newService(t, slots, &mockApptRepo{}, &staticPicker{staffID: staffID})

		// Победитель гонки появляется между Create и повторным чтением
		slots.slots[7] = &domain.Slot{ID: 7, StaffID: 201, StartTime: start, Capacity: 4, Status: domain.SlotActive}
		slots.nextID = 7

		slot, err := svc.EnsureSlot(context.Background(), start)
		require.NoError(t, err)

		assert.Equal(t, int64(7), slot.ID)
		assert.Equal(t, int64(201), slot.StaffID)
	})

	t.Run("no active staff", func(t *testing.T) {
		slots := &mockSlotRepo{slots: map[int64]*domain.Slot{}}
		svc := newService(t, slots, &mockApptRepo{}, &staticPicker{err: accountservice.ErrNoActiveStaff})

		_, err := svc.EnsureSlot(context.Background(), start)
		assert.ErrorIs(t, err, ErrNoActiveStaff)
	})
}

func TestDelete(t *testing.T) {
	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)

	newSlots := func() *mockSlotRepo {
		return &mockSlotRepo{slots: map[int64]*domain.Slot{
			1: {ID: 1, StaffID: staffID, StartTime: start, Capacity: 4, Status: domain.SlotActive},
		}, nextID: 1}
	}

	t.Run("deletes empty slot", func(t *testing.T) {
		slots := newSlots()
		svc := newService(t, slots, &mockApptRepo{}, &staticPicker{staffID: staffID})

		err := svc.Delete(context.Background(), 1, staffID)
		require.NoError(t, err)

		assert.Empty(t, slots.slots)
		assert.Equal(t, []int64{1}, slots.deleted)
	})

	t.Run("slot with active appointments kept", func(t *testing.T) {
		slots := newSlots()
		appts := &mockApptRepo{activeBySlot: map[int64]int{1: 2}}
		svc := newService(t, slots, appts, &staticPicker{staffID: staffID})

		err := svc.Delete(context.Background(), 1, staffID)
		assert.ErrorIs(t, err, ErrSlotInUse)
		assert.Len(t, slots.slots, 1)
	})

	t.Run("unknown slot", func(t *testing.T) {
		svc := newService(t, newSlots(), &mockApptRepo{}, &staticPicker{staffID: staffID})

		err := svc.Delete(context.Background(), 404, staffID)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("customer denied", func(t *testing.T) {
		slots := newSlots()
		svc := newService(t, slots, &mockApptRepo{}, &staticPicker{staffID: staffID})

		err := svc.Delete(context.Background(), 1, 100)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Len(t, slots.slots, 1)
	})
}

func TestCountBooked(t *testing.T) {
	appts := &mockApptRepo{activeBySlot: map[int64]int{1: 3}}
	svc := newService(t, &mockSlotRepo{slots: map[int64]*domain.Slot{}}, appts, &staticPicker{staffID: staffID})

	count, err := svc.CountBooked(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFirstActiveStaffPicker(t *testing.T) {
	t.Run("picks minimal id", func(t *testing.T) {
		client := &mockAccountClient{staff: []accountservice.Account{
			{ID: 205, Active: true, Role: accountservice.RoleStaff},
			{ID: 201, Active: true, Role: accountservice.RoleStaff},
			{ID: 203, Active: true, Role: accountservice.RoleStaff},
		}}

		id, err := NewFirstActiveStaffPicker(client).Pick(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(201), id)
	})

	t.Run("empty staff list", func(t *testing.T) {
		client := &mockAccountClient{}

		_, err := NewFirstActiveStaffPicker(client).Pick(context.Background())
		assert.ErrorIs(t, err, accountservice.ErrNoActiveStaff)
	})
}
