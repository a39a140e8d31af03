package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByStartTime(ctx context.Context, startTime time.Time) (*domain.Slot, error)
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей (для подсчета занятости)
type AppointmentRepository interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
}

// AccountServiceClient интерфейс клиента для AccountService
type AccountServiceClient interface {
	GetAccount(ctx context.Context, accountID int64) (*accountservice.Account, error)
	ListActiveStaff(ctx context.Context) ([]accountservice.Account, error)
}

// Контракт должен совпадать с реальным клиентом, а не только с моками
var _ AccountServiceClient = (*accountservice.Client)(nil)

// StaffPicker стратегия выбора сотрудника для нового слота
type StaffPicker interface {
	Pick(ctx context.Context) (int64, error)
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

// FirstActiveStaffPicker выбирает активного сотрудника с минимальным id.
// Используется по умолчанию; порядок гарантирует ListActiveStaff.
type FirstActiveStaffPicker struct {
	client AccountServiceClient
}

// NewFirstActiveStaffPicker создает стратегию выбора первого активного сотрудника
func NewFirstActiveStaffPicker(client AccountServiceClient) *FirstActiveStaffPicker {
	return &FirstActiveStaffPicker{client: client}
}

// Pick возвращает id первого активного сотрудника
func (p *FirstActiveStaffPicker) Pick(ctx context.Context) (int64, error) {
	staff, err := p.client.ListActiveStaff(ctx)
	if err != nil {
		return 0, err
	}
	if len(staff) == 0 {
		return 0, accountservice.ErrNoActiveStaff
	}

	picked := staff[0]
	for _, s := range staff[1:] {
		if s.ID < picked.ID {
			picked = s
		}
	}

	return picked.ID, nil
}
