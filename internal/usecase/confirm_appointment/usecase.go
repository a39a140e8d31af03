package confirm_appointment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	apptRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/appointment"
	woRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/workorder"
	accountClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	catalogClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
)

// UseCase use case для подтверждения записи сотрудником
type UseCase struct {
	apptRepo      AppointmentRepository
	woRepo        WorkOrderRepository
	accountClient AccountServiceClient
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	logger        Logger

	maxActiveWorkOrders int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	woRepo WorkOrderRepository,
	accountClient AccountServiceClient,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
	maxActiveWorkOrders int,
) *UseCase {
	// 0 отключает лимит нагрузки механика
	if maxActiveWorkOrders < 0 {
		maxActiveWorkOrders = domain.DefaultMaxActiveWorkOrders
	}

	return &UseCase{
		apptRepo:            apptRepo,
		woRepo:              woRepo,
		accountClient:       accountClient,
		catalogClient:       catalogClient,
		txManager:           txManager,
		logger:              logger,
		maxActiveWorkOrders: maxActiveWorkOrders,
	}
}

// Execute выполняет use case подтверждения записи.
// С механиком: проверка лимита нагрузки, подтверждение и создание
// заказ-наряда идут в одной сериализуемой транзакции - конкурентные
// подтверждения не могут перегрузить механика и не создадут второй
// заказ-наряд (уникальный индекс по appointment_id).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmAppointment: appointment=%d, staff=%d, technician=%v",
		req.AppointmentID, req.StaffID, req.TechnicianID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что подтверждает активный сотрудник
	if err := uc.checkStaff(ctx, req.StaffID); err != nil {
		return nil, err
	}

	// 3. Проверяем роль механика до транзакции
	if req.TechnicianID != nil {
		if err := uc.checkTechnician(ctx, *req.TechnicianID); err != nil {
			return nil, err
		}
	}

	// 4. Получаем запись и ее услугу для начальной строки заказ-наряда
	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ConfirmAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ConfirmAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !appt.CanBeConfirmed() {
		uc.logger.Warn("ConfirmAppointment: appointment id=%d cannot be confirmed, status=%s",
			req.AppointmentID, appt.Status)
		return nil, ErrCannotConfirm
	}

	var serviceAmount int64
	var serviceName string
	if req.TechnicianID != nil {
		service, err := uc.catalogClient.GetService(ctx, appt.ServiceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("ConfirmAppointment: service id=%d not found", appt.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("ConfirmAppointment: failed to get service id=%d: %v", appt.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		serviceAmount = int64(math.Round(service.StandardCost))
		serviceName = service.Name
	}

	// Переменная для хранения созданного заказ-наряда
	var createdWO *domain.WorkOrder

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Перечитываем запись внутри транзакции
		current, err := uc.apptRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to re-fetch appointment: %v", ErrInternal, err)
		}

		if !current.CanBeConfirmed() {
			return ErrCannotConfirm
		}

		// 5.2. С механиком: проверяем лимит активных заказ-нарядов
		if req.TechnicianID != nil && uc.maxActiveWorkOrders > 0 {
			count, err := uc.woRepo.CountActiveByTechnician(txCtx, *req.TechnicianID)
			if err != nil {
				return fmt.Errorf("%w: failed to count active work orders: %v", ErrInternal, err)
			}

			if count >= uc.maxActiveWorkOrders {
				uc.logger.Warn("ConfirmAppointment: technician id=%d has %d active work orders, limit=%d",
					*req.TechnicianID, count, uc.maxActiveWorkOrders)
				return ErrTechnicianOverloaded
			}
		}

		// 5.3. Подтверждаем запись
		if err := uc.apptRepo.Confirm(txCtx, req.AppointmentID, req.StaffID); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to confirm appointment: %v", ErrInternal, err)
		}

		// 5.4. С механиком: создаем заказ-наряд с начальной строкой услуги
		if req.TechnicianID != nil {
			wo, err := uc.woRepo.Create(txCtx, &domain.WorkOrder{
				AppointmentID: req.AppointmentID,
				TechnicianID:  *req.TechnicianID,
				Status:        domain.WorkOrderPending,
				TotalAmount:   serviceAmount,
			})
			if err != nil {
				if errors.Is(err, woRepo.ErrDuplicateAppointment) {
					return ErrWorkOrderExists
				}
				return fmt.Errorf("%w: failed to create work order: %v", ErrInternal, err)
			}

			if _, err := uc.woRepo.AddServiceDetail(txCtx, &domain.ServiceDetail{
				WorkOrderID: wo.ID,
				ServiceID:   current.ServiceID,
				Description: &serviceName,
				Amount:      serviceAmount,
			}); err != nil {
				return fmt.Errorf("%w: failed to add service line: %v", ErrInternal, err)
			}

			createdWO = wo
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ConfirmAppointment: successfully confirmed appointment id=%d", req.AppointmentID)

	// Конвертируем в response
	resp := &Response{
		ID:                 appt.ID,
		AccountID:          appt.AccountID,
		SlotID:             appt.SlotID,
		ServiceID:          appt.ServiceID,
		ScheduledAt:        appt.ScheduledAt,
		Status:             string(domain.AppointmentConfirmed),
		ConfirmedByStaffID: req.StaffID,
	}

	if createdWO != nil {
		resp.WorkOrder = &WorkOrderInfo{
			ID:           createdWO.ID,
			TechnicianID: createdWO.TechnicianID,
			Status:       string(createdWO.Status),
			TotalAmount:  createdWO.TotalAmount,
		}
	}

	return resp, nil
}

// checkStaff проверяет, что аккаунт - активный сотрудник
func (uc *UseCase) checkStaff(ctx context.Context, staffID int64) error {
	account, err := uc.accountClient.GetAccount(ctx, staffID)
	if err != nil {
		if errors.Is(err, accountClient.ErrAccountNotFound) {
			uc.logger.Warn("ConfirmAppointment: staff account id=%d not found", staffID)
			return ErrNotStaff
		}
		uc.logger.Error("ConfirmAppointment: failed to get staff account id=%d: %v", staffID, err)
		return fmt.Errorf("%w: failed to get staff account: %v", ErrInternal, err)
	}

	if !account.Active || !account.IsStaff() {
		uc.logger.Warn("ConfirmAppointment: account id=%d is not active staff", staffID)
		return ErrNotStaff
	}

	return nil
}

// checkTechnician проверяет, что аккаунт - активный механик
func (uc *UseCase) checkTechnician(ctx context.Context, technicianID int64) error {
	account, err := uc.accountClient.GetAccount(ctx, technicianID)
	if err != nil {
		if errors.Is(err, accountClient.ErrAccountNotFound) {
			uc.logger.Warn("ConfirmAppointment: technician account id=%d not found", technicianID)
			return ErrNotTechnician
		}
		uc.logger.Error("ConfirmAppointment: failed to get technician account id=%d: %v", technicianID, err)
		return fmt.Errorf("%w: failed to get technician account: %v", ErrInternal, err)
	}

	if !account.Active || !account.IsTechnician() {
		uc.logger.Warn("ConfirmAppointment: account id=%d is not an active technician", technicianID)
		return ErrNotTechnician
	}

	return nil
}
