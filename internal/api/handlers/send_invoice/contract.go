package send_invoice

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/service/invoices/models"
)

type InvoicesService interface {
	SendToCustomer(ctx context.Context, id int64, staffID int64) (*models.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
