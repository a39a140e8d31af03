package payment_callback

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vnpay"
)

const testSecret = "test-hash-secret"

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

// mockPaymentRepo хранит транзакции в памяти и повторяет условную
// семантику Resolve: терминальный статус выставляется только из pending
type mockPaymentRepo struct {
	transactions map[int64]*domain.PaymentTransaction
	resolveCalls int
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error) {
	tx, ok := m.transactions[id]
	if !ok {
		return nil, paymentRepo.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *mockPaymentRepo) Resolve(ctx context.Context, id int64, status domain.TransactionStatus, gatewayMeta *string) error {
	m.resolveCalls++
	tx, ok := m.transactions[id]
	if !ok {
		return paymentRepo.ErrTransactionNotFound
	}
	if tx.Status != domain.TransactionPending {
		return paymentRepo.ErrAlreadyResolved
	}
	tx.Status = status
	tx.GatewayMeta = gatewayMeta
	return nil
}

type mockInvoiceRepo struct {
	paidInvoices   []int64
	unpaidInvoices []int64
}

func (m *mockInvoiceRepo) UpdatePaymentStatus(ctx context.Context, id int64, status domain.InvoicePaymentStatus) error {
	switch status {
	case domain.InvoicePaid:
		m.paidInvoices = append(m.paidInvoices, id)
	case domain.InvoiceUnpaid:
		m.unpaidInvoices = append(m.unpaidInvoices, id)
	}
	return nil
}

type mockTxManager struct{}

func (mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestUseCase(payments *mockPaymentRepo, invoices *mockInvoiceRepo) *UseCase {
	gateway := vnpay.NewClient(vnpay.Config{
		TmnCode:       "DEMO",
		HashSecret:    testSecret,
		PayURL:        "https://pay.example.com",
		ReturnURL:     "https://example.com/return",
		ExpireMinutes: 15,
	}, noopLogger{})

	return NewUseCase(payments, invoices, gateway, mockTxManager{}, noopLogger{})
}

// signedCallback собирает callback шлюза с корректной подписью
func signedCallback(txnRef, responseCode string, amountMinor int64) map[string]string {
	params := map[string]string{
		"vnp_TmnCode":      "DEMO",
		"vnp_TxnRef":       txnRef,
		"vnp_ResponseCode": responseCode,
		"vnp_Amount":       strconv.FormatInt(amountMinor, 10),
		"vnp_BankCode":     "NCB",
		"vnp_PayDate":      "20250310143000",
	}
	_, hash := vnpay.SignParams(params, testSecret)
	params["vnp_SecureHash"] = hash
	params["vnp_SecureHashType"] = "HMACSHA512"
	return params
}

func pendingTransaction(id, invoiceID, amount int64) *domain.PaymentTransaction {
	return &domain.PaymentTransaction{
		ID:        id,
		InvoiceID: invoiceID,
		Amount:    amount,
		Method:    domain.MethodBanking,
		Status:    domain.TransactionPending,
	}
}

func TestExecute_SuccessConfirmsTransactionAndInvoice(t *testing.T) {
	payments := &mockPaymentRepo{transactions: map[int64]*domain.PaymentTransaction{
		7: pendingTransaction(7, 42, 500000),
	}}
	invoices := &mockInvoiceRepo{}
	uc := newTestUseCase(payments, invoices)

	result, err := uc.Execute(context.Background(), &Request{
		Params: signedCallback("42-7", "00", 50000000),
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfirmed, result.Outcome)
	assert.True(t, result.PaymentSuccess)
	assert.Equal(t, int64(7), result.TransactionID)
	assert.Equal(t, int64(42), result.InvoiceID)

	assert.Equal(t, domain.TransactionSuccess, payments.transactions[7].Status)
	require.NotNil(t, payments.transactions[7].GatewayMeta)
	assert.Equal(t, []int64{42}, invoices.paidInvoices)
}

func TestExecute_GatewayFailureFailsTransactionAndKeepsInvoiceUnpaid(t *testing.T) {
	payments := &mockPaymentRepo{transactions: map[int64]*domain.PaymentTransaction{
		7: pendingTransaction(7, 42, 500000),
	}}
	invoices := &mockInvoiceRepo{}
	uc := newTestUseCase(payments, invoices)

	result, err := uc.Execute(context.Background(), &Request{
		Params: signedCallback("42-7", "24", 50000000),
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.False(t, result.PaymentSuccess)
	assert.Equal(t, domain.TransactionFailed, payments.transactions[7].Status)
	// Отказ шлюза фиксирует счет как неоплаченный
	assert.Empty(t, invoices.paidInvoices)
	assert.Equal(t, []int64{42}, invoices.unpaidInvoices)
}

func TestExecute_RepeatedCallbackIsNoOp(t *testing.T) {
	tests := []struct {
		name        string
		status      domain.TransactionStatus
		wantSuccess bool
	}{
		{"resolved success", domain.TransactionSuccess, true},
		{"resolved failure", domain.TransactionFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := pendingTransaction(7, 42, 500000)
			tx.Status = tt.status
			payments := &mockPaymentRepo{transactions: map[int64]*domain.PaymentTransaction{7: tx}}
			invoices := &mockInvoiceRepo{}
			uc := newTestUseCase(payments, invoices)

			result, err := uc.Execute(context.Background(), &Request{
				Params: signedCallback("42-7", "00", 50000000),
			})
			require.NoError(t, err)

			assert.Equal(t, OutcomeAlreadyResolved, result.Outcome)
			assert.Equal(t, tt.wantSuccess, result.PaymentSuccess)
			// Терминальный статус не перезаписан
			assert.Equal(t, tt.status, payments.transactions[7].Status)
			assert.Zero(t, payments.resolveCalls)
			assert.Empty(t, invoices.paidInvoices)
			assert.Empty(t, invoices.unpaidInvoices)
		})
	}
}

func TestExecute_InvalidSignatureLeavesStateUntouched(t *testing.T) {
	payments := &mockPaymentRepo{transactions: map[int64]*domain.PaymentTransaction{
		7: pendingTransaction(7, 42, 500000),
	}}
	invoices := &mockInvoiceRepo{}
	uc := newTestUseCase(payments, invoices)

	params := signedCallback("42-7", "00", 50000000)
	params["vnp_Amount"] = "99900000" // ломаем подпись

	result, err := uc.Execute(context.Background(), &Request{Params: params})
	require.NoError(t, err)

	assert.Equal(t, OutcomeInvalidSignature, result.Outcome)
	assert.False(t, result.PaymentSuccess)
	assert.Equal(t, domain.TransactionPending, payments.transactions[7].Status)
	assert.Zero(t, payments.resolveCalls)
	assert.Empty(t, invoices.paidInvoices)
	assert.Empty(t, invoices.unpaidInvoices)
}

func TestExecute_AmountMismatch(t *testing.T) {
	payments := &mockPaymentRepo{transactions: map[int64]*domain.PaymentTransaction{
		7: pendingTransaction(7, 42, 500000),
	}}
	invoices := &mockInvoiceRepo{}
	uc := newTestUseCase(payments, invoices)

	// Подпись валидна, но сумма не совпадает с транзакцией
	result, err := uc.Execute(context.Background(), &Request{
		Params: signedCallback("42-7", "00", 12300000),
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeAmountMismatch, result.Outcome)
	assert.Equal(t, domain.TransactionPending, payments.transactions[7].Status)
	assert.Empty(t, invoices.paidInvoices)
	assert.Empty(t, invoices.unpaidInvoices)
}

func TestExecute_UnknownOrMalformedReference(t *testing.T) {
	tests := []struct {
		name   string
		txnRef string
	}{
		{"unknown transaction", "42-999"},
		{"invoice mismatch", "41-7"},
		{"malformed reference", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := &mockPaymentRepo{transactions: map[int64]*domain.PaymentTransaction{
				7: pendingTransaction(7, 42, 500000),
			}}
			invoices := &mockInvoiceRepo{}
			uc := newTestUseCase(payments, invoices)

			result, err := uc.Execute(context.Background(), &Request{
				Params: signedCallback(tt.txnRef, "00", 50000000),
			})
			require.NoError(t, err)

			assert.Equal(t, OutcomeNotFound, result.Outcome)
			assert.Equal(t, domain.TransactionPending, payments.transactions[7].Status)
			assert.Empty(t, invoices.paidInvoices)
			assert.Empty(t, invoices.unpaidInvoices)
		})
	}
}
