package confirm_appointment

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Confirm(ctx context.Context, id int64, staffID int64) error
}

// WorkOrderRepository интерфейс репозитория заказ-нарядов
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *domain.WorkOrder) (*domain.WorkOrder, error)
	CountActiveByTechnician(ctx context.Context, technicianID int64) (int, error)
	AddServiceDetail(ctx context.Context, detail *domain.ServiceDetail) (*domain.ServiceDetail, error)
}

// AccountServiceClient интерфейс клиента для AccountService
type AccountServiceClient interface {
	GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
