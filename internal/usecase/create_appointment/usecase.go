package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	accountClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	catalogClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
	vehicleClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/vehicleservice"
	slotsService "github.com/m04kA/SMC-MaintenanceService/internal/service/slots"
)

// UseCase use case для создания записи на обслуживание
type UseCase struct {
	apptRepo      AppointmentRepository
	slotAllocator SlotAllocator
	accountClient AccountServiceClient
	vehicleClient VehicleServiceClient
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	slotAllocator SlotAllocator,
	accountClient AccountServiceClient,
	vehicleClient VehicleServiceClient,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:      apptRepo,
		slotAllocator: slotAllocator,
		accountClient: accountClient,
		vehicleClient: vehicleClient,
		catalogClient: catalogClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания записи.
// Разрешение слота, проверка вместимости и вставка записи идут в одной
// сериализуемой транзакции: конкурентные записи в один слот не могут
// превысить вместимость.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: account=%d, vehicle=%d, service=%d, scheduledAt=%s",
		req.AccountID, req.VehicleID, req.ServiceID, req.ScheduledAt.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что время записи не в прошлом
	now := uc.timeProvider.Now()
	if err := validateScheduledAt(req.ScheduledAt, now); err != nil {
		uc.logger.Warn("CreateAppointment: scheduledAt=%s is in the past", req.ScheduledAt)
		return nil, err
	}

	// 3. Проверяем аккаунт
	account, err := uc.accountClient.GetAccount(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, accountClient.ErrAccountNotFound) {
			uc.logger.Warn("CreateAppointment: account id=%d not found", req.AccountID)
			return nil, ErrAccountNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get account id=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to get account: %v", ErrInternal, err)
	}
	if !account.Active {
		uc.logger.Warn("CreateAppointment: account id=%d is not active", req.AccountID)
		return nil, ErrAccountNotFound
	}

	// 4. Проверяем автомобиль (принадлежность аккаунту проверяет VehicleService)
	if _, err := uc.vehicleClient.GetVehicle(ctx, req.AccountID, req.VehicleID); err != nil {
		if errors.Is(err, vehicleClient.ErrVehicleNotFound) {
			uc.logger.Warn("CreateAppointment: vehicle id=%d not found for account id=%d",
				req.VehicleID, req.AccountID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	// 5. Проверяем услугу в каталоге
	if _, err := uc.catalogClient.GetService(ctx, req.ServiceID); err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Переменные для хранения результата
	var result *domain.Appointment
	var slot *domain.Slot

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Разрешаем слот: get-or-create по точному времени начала.
		// Внутри транзакции найденный слот блокируется через FOR UPDATE.
		slot, err = uc.slotAllocator.EnsureSlot(txCtx, req.ScheduledAt)
		if err != nil {
			if errors.Is(err, slotsService.ErrNoActiveStaff) {
				return ErrNoStaffAvailable
			}
			uc.logger.Error("CreateAppointment: failed to ensure slot: %v", err)
			return fmt.Errorf("%w: failed to ensure slot: %v", ErrInternal, err)
		}

		if !slot.IsActive() {
			uc.logger.Warn("CreateAppointment: slot id=%d is disabled", slot.ID)
			return ErrSlotDisabled
		}

		// 6.2. Проверяем вместимость: отмененные записи место не занимают
		booked, err := uc.apptRepo.CountActiveBySlot(txCtx, slot.ID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to count appointments for slot=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
		}

		if !slot.HasFreeCapacity(booked) {
			uc.logger.Warn("CreateAppointment: slot id=%d is full, %d/%d spots taken",
				slot.ID, booked, slot.Capacity)
			return ErrSlotNotAvailable
		}

		uc.logger.Info("CreateAppointment: slot id=%d available, %d/%d spots taken",
			slot.ID, booked, slot.Capacity)

		// 6.3. Создаем запись в статусе pending
		created, err := uc.apptRepo.Create(txCtx, &domain.Appointment{
			AccountID:   req.AccountID,
			VehicleID:   req.VehicleID,
			SlotID:      slot.ID,
			ServiceID:   req.ServiceID,
			ScheduledAt: slot.StartTime,
			Status:      domain.AppointmentPending,
			Notes:       req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d in slot id=%d",
		result.ID, slot.ID)

	// Конвертируем в response
	return &Response{
		ID:           result.ID,
		AccountID:    result.AccountID,
		VehicleID:    result.VehicleID,
		SlotID:       result.SlotID,
		ServiceID:    result.ServiceID,
		ScheduledAt:  result.ScheduledAt,
		Status:       string(result.Status),
		Notes:        result.Notes,
		SlotStaffID:  slot.StaffID,
		SlotEndTime:  slot.EndTime,
		SlotCapacity: slot.Capacity,
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}, nil
}
