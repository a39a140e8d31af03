package workorders

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/workorder"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
)

// WorkOrderRepository интерфейс репозитория заказ-нарядов
type WorkOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error)
	CountActiveByTechnician(ctx context.Context, technicianID int64) (int, error)
	Update(ctx context.Context, id int64, fields workorder.UpdateFields) error
	AddPartUsage(ctx context.Context, usage *domain.PartUsage) (*domain.PartUsage, error)
	GetPartUsage(ctx context.Context, workOrderID, usageID int64) (*domain.PartUsage, error)
	DeletePartUsage(ctx context.Context, workOrderID, usageID int64) error
	SumLines(ctx context.Context, workOrderID int64) (int64, error)
}

// PartRepository интерфейс репозитория склада запчастей
type PartRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Part, error)
	DecrementStock(ctx context.Context, id int64, quantity int) error
	RestoreStock(ctx context.Context, id int64, quantity int) error
}

// AccountServiceClient интерфейс клиента для AccountService
type AccountServiceClient interface {
	GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
