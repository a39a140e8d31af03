package invoices

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
)

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Invoice, error)
	UpdateTotal(ctx context.Context, id int64, totalAmount int64) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.InvoicePaymentStatus) error
	MarkSent(ctx context.Context, id int64, staffID int64) error
	MarkCustomerPaid(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// WorkOrderRepository интерфейс репозитория заказ-нарядов
type WorkOrderRepository interface {
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.WorkOrder, error)
}

// AccountServiceClient интерфейс клиента для AccountService
type AccountServiceClient interface {
	GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
