package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vehicleservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
}

// SlotAllocator интерфейс аллокатора слотов (get-or-create по времени начала)
type SlotAllocator interface {
	EnsureSlot(ctx context.Context, startTime time.Time) (*domain.Slot, error)
}

// AccountServiceClient интерфейс клиента для AccountService
type AccountServiceClient interface {
	GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error)
}

// VehicleServiceClient интерфейс клиента для VehicleService
type VehicleServiceClient interface {
	GetVehicle(ctx context.Context, accountID, vehicleID int64) (*vehicleservice.Vehicle, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
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
