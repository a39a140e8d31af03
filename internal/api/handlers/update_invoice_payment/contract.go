package update_invoice_payment

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/service/invoices/models"
)

type InvoicesService interface {
	SetPaymentStatus(ctx context.Context, id int64, staffID int64, paid bool) (*models.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
