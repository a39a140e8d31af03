package ensure_invoice

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/service/invoices/models"
)

type InvoicesService interface {
	EnsureForAppointment(ctx context.Context, req *models.EnsureInvoiceRequest) (*models.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
