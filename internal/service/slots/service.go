package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	slotRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/slot"
	accountClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
)

// Service сервис управления слотами обслуживания
type Service struct {
	slotRepo      SlotRepository
	apptRepo      AppointmentRepository
	accountClient AccountServiceClient
	picker        StaffPicker
	txManager     TxManager
	logger        Logger

	defaultCapacity    int
	defaultDurationMin int
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	apptRepo AppointmentRepository,
	accountClient AccountServiceClient,
	picker StaffPicker,
	txManager TxManager,
	logger Logger,
	defaultCapacity int,
	defaultDurationMin int,
) *Service {
	if defaultCapacity <= 0 {
		defaultCapacity = domain.DefaultSlotCapacity
	}
	if defaultDurationMin <= 0 {
		defaultDurationMin = domain.DefaultSlotDurationMinutes
	}

	return &Service{
		slotRepo:           slotRepo,
		apptRepo:           apptRepo,
		accountClient:      accountClient,
		picker:             picker,
		txManager:          txManager,
		logger:             logger,
		defaultCapacity:    defaultCapacity,
		defaultDurationMin: defaultDurationMin,
	}
}

// EnsureSlot находит слот по точному времени начала или создает новый.
// Вызывается внутри транзакции создания записи: внутри транзакции
// найденная строка блокируется через FOR UPDATE, а уникальный индекс по
// start_time разрешает гонку двух конкурентных созданий - проигравший
// перечитывает слот победителя.
func (s *Service) EnsureSlot(ctx context.Context, startTime time.Time) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByStartTime(ctx, startTime)
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, slotRepo.ErrSlotNotFound) {
		s.logger.Error("EnsureSlot: failed to get slot by start_time=%s: %v", startTime, err)
		return nil, fmt.Errorf("%w: EnsureSlot - repository error: %v", ErrInternal, err)
	}

	staffID, err := s.picker.Pick(ctx)
	if err != nil {
		if errors.Is(err, accountClient.ErrNoActiveStaff) {
			s.logger.Warn("EnsureSlot: no active staff to assign for start_time=%s", startTime)
			return nil, ErrNoActiveStaff
		}
		s.logger.Error("EnsureSlot: failed to pick staff: %v", err)
		return nil, fmt.Errorf("%w: EnsureSlot - pick staff: %v", ErrInternal, err)
	}

	created, err := s.slotRepo.Create(ctx, &domain.Slot{
		StaffID:   staffID,
		StartTime: startTime,
		EndTime:   startTime.Add(time.Duration(s.defaultDurationMin) * time.Minute),
		Capacity:  s.defaultCapacity,
		Status:    domain.SlotActive,
	})
	if err != nil {
		if errors.Is(err, slotRepo.ErrDuplicateStartTime) {
			// Конкурентное создание: перечитываем слот победителя
			s.logger.Info("EnsureSlot: lost create race for start_time=%s, re-fetching", startTime)
			slot, err = s.slotRepo.GetByStartTime(ctx, startTime)
			if err != nil {
				return nil, fmt.Errorf("%w: EnsureSlot - re-fetch after duplicate: %v", ErrInternal, err)
			}
			return slot, nil
		}
		s.logger.Error("EnsureSlot: failed to create slot for start_time=%s: %v", startTime, err)
		return nil, fmt.Errorf("%w: EnsureSlot - create slot: %v", ErrInternal, err)
	}

	s.logger.Info("EnsureSlot: created slot id=%d staff=%d start_time=%s", created.ID, staffID, startTime)
	return created, nil
}

// GetByID получает слот по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetByID: failed to get slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return slot, nil
}

// CountBooked возвращает количество неотмененных записей в слоте.
// Отмененные записи место не занимают.
func (s *Service) CountBooked(ctx context.Context, slotID int64) (int, error) {
	count, err := s.apptRepo.CountActiveBySlot(ctx, slotID)
	if err != nil {
		s.logger.Error("CountBooked: failed to count appointments for slot=%d: %v", slotID, err)
		return 0, fmt.Errorf("%w: CountBooked - repository error: %v", ErrInternal, err)
	}

	return count, nil
}

// Delete удаляет слот. Доступно только сотрудникам.
// Проверка на активные записи и удаление выполняются в одной транзакции,
// чтобы конкурентное создание записи не попало в удаляемый слот.
func (s *Service) Delete(ctx context.Context, id int64, staffID int64) error {
	s.logger.Info("Delete: deleting slot id=%d by staff=%d", id, staffID)

	if err := s.checkStaffAccess(ctx, staffID); err != nil {
		return err
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.slotRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Delete - get slot: %v", ErrInternal, err)
		}

		count, err := s.apptRepo.CountActiveBySlot(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count appointments: %v", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Warn("Delete: slot id=%d has %d active appointments", id, count)
			return ErrSlotInUse
		}

		if err := s.slotRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Delete - delete slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deleted slot id=%d", id)
	return nil
}

// checkStaffAccess проверяет, что вызывающий - активный сотрудник
func (s *Service) checkStaffAccess(ctx context.Context, callerID int64) error {
	account, err := s.accountClient.GetAccount(ctx, callerID)
	if err != nil {
		if errors.Is(err, accountClient.ErrAccountNotFound) {
			s.logger.Warn("checkStaffAccess: account id=%d not found", callerID)
			return ErrAccessDenied
		}
		s.logger.Error("checkStaffAccess: failed to get account id=%d: %v", callerID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to get account: %v", ErrInternal, err)
	}

	if !account.Active || !account.IsStaff() {
		s.logger.Warn("checkStaffAccess: account id=%d is not active staff", callerID)
		return ErrAccessDenied
	}

	return nil
}
