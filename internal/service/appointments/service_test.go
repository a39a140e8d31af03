package appointments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	apptRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/appointments/models"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type mockApptRepo struct {
	appointments map[int64]*domain.Appointment
}

func (m *mockApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := m.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (m *mockApptRepo) GetByAccountID(ctx context.Context, accountID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range m.appointments {
		if appt.AccountID != accountID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockApptRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	appt, ok := m.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.Status = status
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

const (
	customerID = int64(100)
	staffID    = int64(200)
)

func newService(t *testing.T) (*Service, *mockApptRepo) {
	t.Helper()

	appts := &mockApptRepo{appointments: map[int64]*domain.Appointment{
		5: {ID: 5, AccountID: customerID, SlotID: 1, ServiceID: 3, Status: domain.AppointmentPending},
		6: {ID: 6, AccountID: customerID, SlotID: 1, ServiceID: 3, Status: domain.AppointmentConfirmed},
	}}
	accounts := &mockAccountClient{accounts: map[int64]*accountservice.Account{
		customerID: {ID: customerID, Active: true, Role: accountservice.RoleCustomer},
		staffID:    {ID: staffID, Active: true, Role: accountservice.RoleStaff},
	}}

	return NewService(appts, accounts, noopLogger{}), appts
}

func TestGetByID(t *testing.T) {
	t.Run("owner sees own appointment", func(t *testing.T) {
		svc, _ := newService(t)

		resp, err := svc.GetByID(context.Background(), 5, customerID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.ID)
	})

	t.Run("staff sees any appointment", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.GetByID(context.Background(), 5, staffID)
		assert.NoError(t, err)
	})

	t.Run("stranger denied", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.GetByID(context.Background(), 5, 999)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.GetByID(context.Background(), 404, staffID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestGetAccountAppointments(t *testing.T) {
	t.Run("owner gets own history", func(t *testing.T) {
		svc, _ := newService(t)

		resp, err := svc.GetAccountAppointments(context.Background(), &models.GetAccountAppointmentsRequest{
			CallerID:  customerID,
			AccountID: customerID,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})

	t.Run("status filter applied", func(t *testing.T) {
		svc, _ := newService(t)

		status := string(domain.AppointmentConfirmed)
		resp, err := svc.GetAccountAppointments(context.Background(), &models.GetAccountAppointmentsRequest{
			CallerID:  customerID,
			AccountID: customerID,
			Status:    &status,
		})
		require.NoError(t, err)

		require.Len(t, resp.Appointments, 1)
		assert.Equal(t, int64(6), resp.Appointments[0].ID)
	})

	t.Run("invalid status filter rejected", func(t *testing.T) {
		svc, _ := newService(t)

		status := "archived"
		_, err := svc.GetAccountAppointments(context.Background(), &models.GetAccountAppointmentsRequest{
			CallerID:  customerID,
			AccountID: customerID,
			Status:    &status,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("stranger denied", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.GetAccountAppointments(context.Background(), &models.GetAccountAppointmentsRequest{
			CallerID:  999,
			AccountID: customerID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels pending appointment", func(t *testing.T) {
		svc, appts := newService(t)

		err := svc.Cancel(context.Background(), 5, customerID)
		require.NoError(t, err)
		assert.Equal(t, domain.AppointmentCancelled, appts.appointments[5].Status)
	})

	t.Run("staff cancels confirmed appointment", func(t *testing.T) {
		svc, appts := newService(t)

		err := svc.Cancel(context.Background(), 6, staffID)
		require.NoError(t, err)
		assert.Equal(t, domain.AppointmentCancelled, appts.appointments[6].Status)
	})

	t.Run("terminal statuses cannot be cancelled", func(t *testing.T) {
		tests := []struct {
			name   string
			status domain.AppointmentStatus
		}{
			{"completed", domain.AppointmentCompleted},
			{"already cancelled", domain.AppointmentCancelled},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, appts := newService(t)
				appts.appointments[5].Status = tt.status

				err := svc.Cancel(context.Background(), 5, customerID)
				assert.ErrorIs(t, err, ErrCannotCancel)
			})
		}
	})

	t.Run("stranger denied", func(t *testing.T) {
		svc, appts := newService(t)

		err := svc.Cancel(context.Background(), 5, 999)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, domain.AppointmentPending, appts.appointments[5].Status)
	})
}

func TestComplete(t *testing.T) {
	t.Run("staff completes confirmed appointment", func(t *testing.T) {
		svc, appts := newService(t)

		err := svc.Complete(context.Background(), 6, staffID)
		require.NoError(t, err)
		assert.Equal(t, domain.AppointmentCompleted, appts.appointments[6].Status)
	})

	t.Run("pending appointment cannot be completed", func(t *testing.T) {
		svc, appts := newService(t)

		err := svc.Complete(context.Background(), 5, staffID)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, domain.AppointmentPending, appts.appointments[5].Status)
	})

	t.Run("customer denied", func(t *testing.T) {
		svc, appts := newService(t)

		err := svc.Complete(context.Background(), 6, customerID)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, domain.AppointmentConfirmed, appts.appointments[6].Status)
	})
}
