package appointments

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByAccountID(ctx context.Context, accountID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// AccountServiceClient интерфейс клиента для AccountService
type AccountServiceClient interface {
	GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
