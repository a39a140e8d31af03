package create_checkout

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vnpay"
)

// PaymentRepository интерфейс репозитория платежных транзакций
type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error)
	GetPendingByInvoiceAndMethod(ctx context.Context, invoiceID int64, method domain.PaymentMethod) (*domain.PaymentTransaction, error)
	UpdateCheckout(ctx context.Context, id int64, checkoutURL, gatewayMeta string, expiresAt time.Time) error
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// AccountServiceClient интерфейс клиента для AccountService
type AccountServiceClient interface {
	GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error)
}

// GatewayClient интерфейс адаптера платежного шлюза
type GatewayClient interface {
	BuildCheckoutURL(req vnpay.CheckoutRequest) (*vnpay.Checkout, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
