package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	apptRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/appointment"
	invRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/invoice"
	woRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/workorder"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/invoices/models"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type mockInvoiceRepo struct {
	invoices     map[int64]*domain.Invoice // ключ appointment_id
	nextID       int64
	totalUpdates int
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if _, ok := m.invoices[inv.AppointmentID]; ok {
		return nil, invRepo.ErrDuplicateAppointment
	}
	m.nextID++
	created := *inv
	created.ID = m.nextID
	m.invoices[inv.AppointmentID] = &created
	return &created, nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.ID == id {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, invRepo.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Invoice, error) {
	inv, ok := m.invoices[appointmentID]
	if !ok {
		return nil, invRepo.ErrInvoiceNotFound
	}
	copied := *inv
	return &copied, nil
}

func (m *mockInvoiceRepo) UpdateTotal(ctx context.Context, id int64, totalAmount int64) error {
	m.totalUpdates++
	for _, inv := range m.invoices {
		if inv.ID == id {
			inv.TotalAmount = totalAmount
			return nil
		}
	}
	return invRepo.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) UpdatePaymentStatus(ctx context.Context, id int64, status domain.InvoicePaymentStatus) error {
	for _, inv := range m.invoices {
		if inv.ID == id {
			inv.PaymentStatus = status
			return nil
		}
	}
	return invRepo.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) MarkSent(ctx context.Context, id int64, staffID int64) error {
	for _, inv := range m.invoices {
		if inv.ID == id {
			now := time.Now()
			inv.SentToCustomerAt = &now
			inv.SentByStaffID = &staffID
			return nil
		}
	}
	return invRepo.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) MarkCustomerPaid(ctx context.Context, id int64) error {
	for _, inv := range m.invoices {
		if inv.ID == id {
			now := time.Now()
			inv.CustomerPaidAt = &now
			return nil
		}
	}
	return invRepo.ErrInvoiceNotFound
}

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

type mockWorkOrderRepo struct {
	workOrders map[int64]*domain.WorkOrder // ключ appointment_id
}

func (m *mockWorkOrderRepo) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.WorkOrder, error) {
	wo, ok := m.workOrders[appointmentID]
	if !ok {
		return nil, woRepo.ErrWorkOrderNotFound
	}
	copied := *wo
	return &copied, nil
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

type mockCatalogClient struct {
	services map[int64]*catalogservice.Service
}

func (m *mockCatalogClient) GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	svc, ok := m.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return svc, nil
}

type mockTxManager struct{}

func (mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const (
	customerID = int64(100)
	staffID    = int64(200)
)

type fixture struct {
	svc      *Service
	invoices *mockInvoiceRepo
	appts    *mockApptRepo
	wo       *mockWorkOrderRepo
	catalog  *mockCatalogClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	invoices := &mockInvoiceRepo{invoices: map[int64]*domain.Invoice{}}
	appts := &mockApptRepo{appointments: map[int64]*domain.Appointment{
		5: {ID: 5, AccountID: customerID, ServiceID: 3, Status: domain.AppointmentConfirmed},
	}}
	wo := &mockWorkOrderRepo{workOrders: map[int64]*domain.WorkOrder{}}
	catalog := &mockCatalogClient{services: map[int64]*catalogservice.Service{
		3: {ID: 3, Name: "Oil change", StandardCost: 500000.4, Active: true},
		4: {ID: 4, Name: "Brake service", StandardCost: 800000, Active: true},
	}}
	accounts := &mockAccountClient{accounts: map[int64]*accountservice.Account{
		customerID: {ID: customerID, Active: true, Role: accountservice.RoleCustomer},
		staffID:    {ID: staffID, Active: true, Role: accountservice.RoleStaff},
	}}

	svc := NewService(invoices, appts, wo, accounts, catalog, mockTxManager{}, noopLogger{})
	return &fixture{svc: svc, invoices: invoices, appts: appts, wo: wo, catalog: catalog}
}

func (f *fixture) ensureRequest() *models.EnsureInvoiceRequest {
	return &models.EnsureInvoiceRequest{StaffID: staffID, AppointmentID: 5}
}

func TestEnsureForAppointment(t *testing.T) {
	t.Run("creates invoice with rounded catalog cost", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		require.NoError(t, err)

		assert.Equal(t, int64(5), resp.AppointmentID)
		assert.Equal(t, int64(500000), resp.TotalAmount)
		assert.Equal(t, string(domain.InvoiceUnpaid), resp.PaymentStatus)
		assert.Nil(t, resp.WorkOrderID)
	})

	t.Run("links work order when present", func(t *testing.T) {
		f := newFixture(t)
		f.wo.workOrders[5] = &domain.WorkOrder{ID: 9, AppointmentID: 5}

		resp, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		require.NoError(t, err)

		require.NotNil(t, resp.WorkOrderID)
		assert.Equal(t, int64(9), *resp.WorkOrderID)
	})

	t.Run("explicit service overrides appointment service", func(t *testing.T) {
		f := newFixture(t)

		serviceID := int64(4)
		resp, err := f.svc.EnsureForAppointment(context.Background(), &models.EnsureInvoiceRequest{
			StaffID:       staffID,
			AppointmentID: 5,
			ServiceID:     &serviceID,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(800000), resp.TotalAmount)
	})

	t.Run("repeated call returns existing invoice", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.svc.EnsureForAppointment(ctx, f.ensureRequest())
		require.NoError(t, err)

		second, err := f.svc.EnsureForAppointment(ctx, f.ensureRequest())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, f.invoices.invoices, 1)
		// Сумма не разошлась - корректировка не выполнялась
		assert.Zero(t, f.invoices.totalUpdates)
	})

	t.Run("diverged amount corrected in place for unpaid invoice", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.svc.EnsureForAppointment(ctx, f.ensureRequest())
		require.NoError(t, err)

		// Стоимость услуги в каталоге изменилась после выставления счета
		f.catalog.services[3].StandardCost = 600000

		second, err := f.svc.EnsureForAppointment(ctx, f.ensureRequest())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(600000), second.TotalAmount)
		assert.Equal(t, 1, f.invoices.totalUpdates)
	})

	t.Run("paid invoice is not touched", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.svc.EnsureForAppointment(ctx, f.ensureRequest())
		require.NoError(t, err)

		f.invoices.invoices[5].PaymentStatus = domain.InvoicePaid
		f.catalog.services[3].StandardCost = 600000

		second, err := f.svc.EnsureForAppointment(ctx, f.ensureRequest())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(500000), second.TotalAmount)
		assert.Zero(t, f.invoices.totalUpdates)
	})

	t.Run("cancelled appointment rejected", func(t *testing.T) {
		f := newFixture(t)
		f.appts.appointments[5].Status = domain.AppointmentCancelled

		_, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		assert.ErrorIs(t, err, ErrAppointmentCancelled)
	})

	t.Run("non-positive catalog cost rejected", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.services[3].StandardCost = 0

		_, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Empty(t, f.invoices.invoices)
	})

	t.Run("unknown service rejected", func(t *testing.T) {
		f := newFixture(t)

		serviceID := int64(404)
		_, err := f.svc.EnsureForAppointment(context.Background(), &models.EnsureInvoiceRequest{
			StaffID:       staffID,
			AppointmentID: 5,
			ServiceID:     &serviceID,
		})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unknown appointment rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.EnsureForAppointment(context.Background(), &models.EnsureInvoiceRequest{
			StaffID:       staffID,
			AppointmentID: 404,
		})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("customer cannot issue invoice", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.EnsureForAppointment(context.Background(), &models.EnsureInvoiceRequest{
			StaffID:       customerID,
			AppointmentID: 5,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGetByID(t *testing.T) {
	newIssued := func(t *testing.T) (*fixture, int64) {
		t.Helper()
		f := newFixture(t)
		resp, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		require.NoError(t, err)
		return f, resp.ID
	}

	t.Run("owner sees own invoice", func(t *testing.T) {
		f, id := newIssued(t)

		resp, err := f.svc.GetByID(context.Background(), id, customerID)
		require.NoError(t, err)
		assert.Equal(t, id, resp.ID)
	})

	t.Run("staff sees any invoice", func(t *testing.T) {
		f, id := newIssued(t)

		_, err := f.svc.GetByID(context.Background(), id, staffID)
		assert.NoError(t, err)
	})

	t.Run("stranger denied", func(t *testing.T) {
		f, id := newIssued(t)

		_, err := f.svc.GetByID(context.Background(), id, 999)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetByID(context.Background(), 404, staffID)
		assert.ErrorIs(t, err, ErrInvoiceNotFound)
	})
}

func TestSendToCustomer(t *testing.T) {
	f := newFixture(t)
	issued, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
	require.NoError(t, err)

	resp, err := f.svc.SendToCustomer(context.Background(), issued.ID, staffID)
	require.NoError(t, err)

	// Только отметки отправки, статус оплаты не меняется
	require.NotNil(t, resp.SentToCustomerAt)
	require.NotNil(t, resp.SentByStaffID)
	assert.Equal(t, staffID, *resp.SentByStaffID)
	assert.Equal(t, string(domain.InvoiceUnpaid), resp.PaymentStatus)
}

func TestSetPaymentStatus(t *testing.T) {
	t.Run("staff marks invoice paid and back", func(t *testing.T) {
		f := newFixture(t)
		issued, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		require.NoError(t, err)

		resp, err := f.svc.SetPaymentStatus(context.Background(), issued.ID, staffID, true)
		require.NoError(t, err)
		assert.Equal(t, string(domain.InvoicePaid), resp.PaymentStatus)

		resp, err = f.svc.SetPaymentStatus(context.Background(), issued.ID, staffID, false)
		require.NoError(t, err)
		assert.Equal(t, string(domain.InvoiceUnpaid), resp.PaymentStatus)
	})

	t.Run("customer denied", func(t *testing.T) {
		f := newFixture(t)
		issued, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		require.NoError(t, err)

		_, err = f.svc.SetPaymentStatus(context.Background(), issued.ID, customerID, true)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestCustomerConfirmPaid(t *testing.T) {
	t.Run("owner leaves a mark without changing status", func(t *testing.T) {
		f := newFixture(t)
		issued, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		require.NoError(t, err)

		resp, err := f.svc.CustomerConfirmPaid(context.Background(), issued.ID, customerID)
		require.NoError(t, err)

		require.NotNil(t, resp.CustomerPaidAt)
		// Авторитетный статус оплаты выставляет только подтверждение оплаты
		assert.Equal(t, string(domain.InvoiceUnpaid), resp.PaymentStatus)
	})

	t.Run("staff is not the owner", func(t *testing.T) {
		f := newFixture(t)
		issued, err := f.svc.EnsureForAppointment(context.Background(), f.ensureRequest())
		require.NoError(t, err)

		_, err = f.svc.CustomerConfirmPaid(context.Background(), issued.ID, staffID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
