package vnpay_return

import (
	"context"

	paymentCallback "github.com/m04kA/SMC-MaintenanceService/internal/usecase/payment_callback"
)

type PaymentCallbackUseCase interface {
	Execute(ctx context.Context, req *paymentCallback.Request) (*paymentCallback.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
