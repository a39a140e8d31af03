package payment_callback

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vnpay"
)

// PaymentRepository интерфейс репозитория платежных транзакций
type PaymentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error)
	Resolve(ctx context.Context, id int64, status domain.TransactionStatus, gatewayMeta *string) error
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.InvoicePaymentStatus) error
}

// GatewayClient интерфейс адаптера платежного шлюза
type GatewayClient interface {
	VerifyCallback(params map[string]string) *vnpay.CallbackData
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
