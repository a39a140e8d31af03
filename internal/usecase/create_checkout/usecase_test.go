package create_checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vnpay"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type mockPaymentRepo struct {
	pending         map[string]*domain.PaymentTransaction // ключ "<invoiceID>-<method>"
	nextID          int64
	createCalls     int
	updateCheckouts int
}

func pendingKey(invoiceID int64, method domain.PaymentMethod) string {
	return fmt.Sprintf("%d/%s", invoiceID, method)
}

func (m *mockPaymentRepo) Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	m.createCalls++
	key := pendingKey(tx.InvoiceID, tx.Method)
	if _, ok := m.pending[key]; ok {
		return nil, paymentRepo.ErrDuplicatePending
	}
	m.nextID++
	created := *tx
	created.ID = m.nextID
	m.pending[key] = &created
	return &created, nil
}

func (m *mockPaymentRepo) GetPendingByInvoiceAndMethod(ctx context.Context, invoiceID int64, method domain.PaymentMethod) (*domain.PaymentTransaction, error) {
	tx, ok := m.pending[pendingKey(invoiceID, method)]
	if !ok {
		return nil, paymentRepo.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *mockPaymentRepo) UpdateCheckout(ctx context.Context, id int64, checkoutURL, gatewayMeta string, expiresAt time.Time) error {
	m.updateCheckouts++
	for _, tx := range m.pending {
		if tx.ID == id {
			tx.CheckoutURL = &checkoutURL
			tx.GatewayMeta = &gatewayMeta
			tx.ExpiresAt = &expiresAt
			return nil
		}
	}
	return paymentRepo.ErrTransactionNotFound
}

type mockInvoiceRepo struct {
	invoice *domain.Invoice
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	copied := *m.invoice
	return &copied, nil
}

type mockApptRepo struct {
	appt *domain.Appointment
}

func (m *mockApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	copied := *m.appt
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

type mockTxManager struct{}

func (mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type checkoutFixture struct {
	uc       *UseCase
	payments *mockPaymentRepo
}

func newCheckoutFixture(t *testing.T, invoice *domain.Invoice) *checkoutFixture {
	t.Helper()

	payments := &mockPaymentRepo{pending: map[string]*domain.PaymentTransaction{}}
	gateway := vnpay.NewClient(vnpay.Config{
		TmnCode:       "DEMO",
		HashSecret:    "test-hash-secret",
		PayURL:        "https://pay.example.com",
		ReturnURL:     "https://example.com/return",
		ExpireMinutes: 15,
	}, noopLogger{})

	uc := NewUseCase(
		payments,
		&mockInvoiceRepo{invoice: invoice},
		&mockApptRepo{appt: &domain.Appointment{ID: 5, AccountID: 100, Status: domain.AppointmentConfirmed}},
		&mockAccountClient{accounts: map[int64]*accountservice.Account{}},
		gateway,
		mockTxManager{},
		noopLogger{},
	)

	return &checkoutFixture{uc: uc, payments: payments}
}

func unpaidInvoice() *domain.Invoice {
	return &domain.Invoice{
		ID:            42,
		AppointmentID: 5,
		TotalAmount:   500000,
		PaymentStatus: domain.InvoiceUnpaid,
	}
}

func TestExecute_CreatesPendingTransactionWithCheckoutURL(t *testing.T) {
	f := newCheckoutFixture(t, unpaidInvoice())

	resp, err := f.uc.Execute(context.Background(), &Request{
		InvoiceID: 42,
		CallerID:  100, // владелец записи
		Method:    "banking",
		ClientIP:  "203.0.113.7",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.InvoiceID)
	assert.Equal(t, int64(500000), resp.Amount)
	assert.Equal(t, "banking", resp.Method)
	assert.False(t, resp.Reused)
	assert.Contains(t, resp.CheckoutURL, "vnp_TxnRef=42-1")
	assert.Contains(t, resp.CheckoutURL, "vnp_SecureHash=")
	assert.False(t, resp.ExpiresAt.IsZero())

	assert.Equal(t, 1, f.payments.createCalls)
	assert.Equal(t, 1, f.payments.updateCheckouts)
}

func TestExecute_ReusesLivePendingTransaction(t *testing.T) {
	f := newCheckoutFixture(t, unpaidInvoice())
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, &Request{
		InvoiceID: 42, CallerID: 100, Method: "banking", ClientIP: "203.0.113.7",
	})
	require.NoError(t, err)

	second, err := f.uc.Execute(ctx, &Request{
		InvoiceID: 42, CallerID: 100, Method: "banking", ClientIP: "203.0.113.7",
	})
	require.NoError(t, err)

	assert.True(t, second.Reused)
	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, first.CheckoutURL, second.CheckoutURL)
	// Новая транзакция не создавалась, URL не перевыпускался
	assert.Equal(t, 1, f.payments.createCalls)
	assert.Equal(t, 1, f.payments.updateCheckouts)
}

func TestExecute_ExpiredPendingGetsFreshURL(t *testing.T) {
	f := newCheckoutFixture(t, unpaidInvoice())
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, &Request{
		InvoiceID: 42, CallerID: 100, Method: "banking", ClientIP: "203.0.113.7",
	})
	require.NoError(t, err)

	// Сдвигаем время за срок действия сессии
	f.uc.timeProvider = &fixedTimeProvider{now: time.Now().Add(30 * time.Minute)}

	second, err := f.uc.Execute(ctx, &Request{
		InvoiceID: 42, CallerID: 100, Method: "banking", ClientIP: "203.0.113.7",
	})
	require.NoError(t, err)

	// Та же транзакция, но с перевыпущенным URL
	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.False(t, second.Reused)
	assert.Equal(t, 2, f.payments.updateCheckouts)
}

func TestExecute_DifferentMethodsGetSeparateTransactions(t *testing.T) {
	f := newCheckoutFixture(t, unpaidInvoice())
	ctx := context.Background()

	banking, err := f.uc.Execute(ctx, &Request{
		InvoiceID: 42, CallerID: 100, Method: "banking", ClientIP: "203.0.113.7",
	})
	require.NoError(t, err)

	card, err := f.uc.Execute(ctx, &Request{
		InvoiceID: 42, CallerID: 100, Method: "card", ClientIP: "203.0.113.7",
	})
	require.NoError(t, err)

	assert.NotEqual(t, banking.TransactionID, card.TransactionID)
}

func TestExecute_PaidInvoiceRejected(t *testing.T) {
	invoice := unpaidInvoice()
	invoice.PaymentStatus = domain.InvoicePaid
	f := newCheckoutFixture(t, invoice)

	_, err := f.uc.Execute(context.Background(), &Request{
		InvoiceID: 42, CallerID: 100, Method: "banking", ClientIP: "203.0.113.7",
	})
	assert.ErrorIs(t, err, ErrInvoiceAlreadyPaid)
}

func TestExecute_UnknownMethodRejected(t *testing.T) {
	f := newCheckoutFixture(t, unpaidInvoice())

	_, err := f.uc.Execute(context.Background(), &Request{
		InvoiceID: 42, CallerID: 100, Method: "cash", ClientIP: "203.0.113.7",
	})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestExecute_StrangerDenied(t *testing.T) {
	f := newCheckoutFixture(t, unpaidInvoice())

	// Вызывающий - не владелец записи и не сотрудник
	_, err := f.uc.Execute(context.Background(), &Request{
		InvoiceID: 42, CallerID: 999, Method: "banking", ClientIP: "203.0.113.7",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
