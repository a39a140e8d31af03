package workorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	partRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/parts"
	woRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/workorder"
	accountClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/workorders/models"
)

// Service сервис ведения заказ-нарядов
type Service struct {
	woRepo        WorkOrderRepository
	partRepo      PartRepository
	accountClient AccountServiceClient
	txManager     TxManager
	logger        Logger

	maxActiveWorkOrders int
}

// NewService создает новый экземпляр сервиса заказ-нарядов
func NewService(
	woRepo WorkOrderRepository,
	partRepo PartRepository,
	accountClient AccountServiceClient,
	txManager TxManager,
	logger Logger,
	maxActiveWorkOrders int,
) *Service {
	// 0 отключает лимит нагрузки механика
	if maxActiveWorkOrders < 0 {
		maxActiveWorkOrders = domain.DefaultMaxActiveWorkOrders
	}

	return &Service{
		woRepo:              woRepo,
		partRepo:            partRepo,
		accountClient:       accountClient,
		txManager:           txManager,
		logger:              logger,
		maxActiveWorkOrders: maxActiveWorkOrders,
	}
}

// GetByID получает заказ-наряд.
// Доступно сотрудникам и назначенному механику.
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.WorkOrderResponse, error) {
	wo, err := s.woRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, woRepo.ErrWorkOrderNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		s.logger.Error("GetByID: repository error for work order id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkWorkOrderAccess(ctx, wo, callerID); err != nil {
		return nil, err
	}

	return models.FromDomainWorkOrder(wo), nil
}

// Update применяет частичное обновление заказ-наряда: переход статуса,
// смену механика, диагноз, срок завершения, явное переопределение стоимости.
// Переход статуса и смена механика проверяются на одном снимке строки.
func (s *Service) Update(ctx context.Context, id int64, callerID int64, req *models.UpdateWorkOrderRequest) (*models.WorkOrderResponse, error) {
	s.logger.Info("Update: updating work order id=%d by caller=%d", id, callerID)

	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	var nextStatus *domain.WorkOrderStatus
	if req.Status != nil {
		status, ok := models.ToDomainWorkOrderStatus(*req.Status)
		if !ok {
			s.logger.Warn("Update: invalid status=%s for work order id=%d", *req.Status, id)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		nextStatus = &status
	}

	if req.TotalAmount != nil && *req.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrInvalidInput)
	}

	// Роль нового механика проверяем до транзакции: внешний вызов
	// внутри транзакции держал бы блокировку на время HTTP-запроса
	if req.TechnicianID != nil {
		if err := s.checkTechnician(ctx, *req.TechnicianID); err != nil {
			return nil, err
		}
	}

	var updated *domain.WorkOrder
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		wo, err := s.woRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, woRepo.ErrWorkOrderNotFound) {
				return ErrWorkOrderNotFound
			}
			return fmt.Errorf("%w: Update - get work order: %v", ErrInternal, err)
		}

		if err := s.checkWorkOrderAccess(ctx, wo, callerID); err != nil {
			return err
		}

		fields := woRepo.UpdateFields{
			Diagnosis:             req.Diagnosis,
			EstimatedCompletionAt: req.EstimatedCompletionAt,
		}

		if nextStatus != nil {
			if !wo.CanTransitionTo(*nextStatus) {
				s.logger.Warn("Update: invalid transition %s -> %s for work order id=%d", wo.Status, *nextStatus, id)
				return ErrInvalidTransition
			}
			fields.Status = nextStatus
		}

		if req.TechnicianID != nil && *req.TechnicianID != wo.TechnicianID {
			if !wo.CanReassignTechnician() {
				s.logger.Warn("Update: reassignment locked for work order id=%d, status=%s", id, wo.Status)
				return ErrReassignmentLocked
			}

			if s.maxActiveWorkOrders > 0 {
				count, err := s.woRepo.CountActiveByTechnician(ctx, *req.TechnicianID)
				if err != nil {
					return fmt.Errorf("%w: Update - count active work orders: %v", ErrInternal, err)
				}
				if count >= s.maxActiveWorkOrders {
					s.logger.Warn("Update: technician id=%d has %d active work orders, limit=%d",
						*req.TechnicianID, count, s.maxActiveWorkOrders)
					return ErrTechnicianOverloaded
				}
			}

			fields.TechnicianID = req.TechnicianID
		}

		if req.TotalAmount != nil {
			overridden := true
			fields.TotalAmount = req.TotalAmount
			fields.TotalOverridden = &overridden
		}

		if err := s.woRepo.Update(ctx, id, fields); err != nil {
			if errors.Is(err, woRepo.ErrWorkOrderNotFound) {
				return ErrWorkOrderNotFound
			}
			return fmt.Errorf("%w: Update - apply update: %v", ErrInternal, err)
		}

		updated, err = s.woRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: Update - re-fetch work order: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated work order id=%d", id)
	return models.FromDomainWorkOrder(updated), nil
}

// AddPart списывает запчасть в заказ-наряд: остаток уменьшается атомарно,
// стоимость строки фиксируется по цене на момент списания, производная
// стоимость заказ-наряда пересчитывается в той же транзакции.
func (s *Service) AddPart(ctx context.Context, workOrderID int64, callerID int64, req *models.AddPartRequest) (*models.PartUsageResponse, error) {
	s.logger.Info("AddPart: adding part=%d x%d to work order id=%d by caller=%d",
		req.PartID, req.Quantity, workOrderID, callerID)

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	var usage *domain.PartUsage
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		wo, err := s.woRepo.GetByID(ctx, workOrderID)
		if err != nil {
			if errors.Is(err, woRepo.ErrWorkOrderNotFound) {
				return ErrWorkOrderNotFound
			}
			return fmt.Errorf("%w: AddPart - get work order: %v", ErrInternal, err)
		}

		if err := s.checkWorkOrderAccess(ctx, wo, callerID); err != nil {
			return err
		}

		if !wo.IsActive() {
			s.logger.Warn("AddPart: work order id=%d is done", workOrderID)
			return ErrWorkOrderClosed
		}

		part, err := s.partRepo.GetByID(ctx, req.PartID)
		if err != nil {
			if errors.Is(err, partRepo.ErrPartNotFound) {
				return ErrPartNotFound
			}
			return fmt.Errorf("%w: AddPart - get part: %v", ErrInternal, err)
		}

		if err := s.partRepo.DecrementStock(ctx, req.PartID, req.Quantity); err != nil {
			switch {
			case errors.Is(err, partRepo.ErrPartNotFound):
				return ErrPartNotFound
			case errors.Is(err, partRepo.ErrInsufficientStock):
				s.logger.Warn("AddPart: insufficient stock for part=%d, requested=%d", req.PartID, req.Quantity)
				return ErrInsufficientStock
			}
			return fmt.Errorf("%w: AddPart - decrement stock: %v", ErrInternal, err)
		}

		usage, err = s.woRepo.AddPartUsage(ctx, &domain.PartUsage{
			WorkOrderID: workOrderID,
			PartID:      req.PartID,
			Quantity:    req.Quantity,
			Amount:      part.Price * int64(req.Quantity),
		})
		if err != nil {
			return fmt.Errorf("%w: AddPart - add part usage: %v", ErrInternal, err)
		}

		return s.recomputeTotal(ctx, wo)
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("AddPart: added usage id=%d to work order id=%d", usage.ID, workOrderID)
	return models.FromDomainPartUsage(usage), nil
}

// RemovePart удаляет списание запчасти и возвращает остаток на склад
// (компенсирующее действие в одной транзакции с удалением)
func (s *Service) RemovePart(ctx context.Context, workOrderID, usageID int64, callerID int64) error {
	s.logger.Info("RemovePart: removing usage id=%d from work order id=%d by caller=%d",
		usageID, workOrderID, callerID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		wo, err := s.woRepo.GetByID(ctx, workOrderID)
		if err != nil {
			if errors.Is(err, woRepo.ErrWorkOrderNotFound) {
				return ErrWorkOrderNotFound
			}
			return fmt.Errorf("%w: RemovePart - get work order: %v", ErrInternal, err)
		}

		if err := s.checkWorkOrderAccess(ctx, wo, callerID); err != nil {
			return err
		}

		if !wo.IsActive() {
			s.logger.Warn("RemovePart: work order id=%d is done", workOrderID)
			return ErrWorkOrderClosed
		}

		usage, err := s.woRepo.GetPartUsage(ctx, workOrderID, usageID)
		if err != nil {
			if errors.Is(err, woRepo.ErrPartUsageNotFound) {
				return ErrPartUsageNotFound
			}
			return fmt.Errorf("%w: RemovePart - get part usage: %v", ErrInternal, err)
		}

		if err := s.woRepo.DeletePartUsage(ctx, workOrderID, usageID); err != nil {
			if errors.Is(err, woRepo.ErrPartUsageNotFound) {
				return ErrPartUsageNotFound
			}
			return fmt.Errorf("%w: RemovePart - delete part usage: %v", ErrInternal, err)
		}

		if err := s.partRepo.RestoreStock(ctx, usage.PartID, usage.Quantity); err != nil {
			return fmt.Errorf("%w: RemovePart - restore stock: %v", ErrInternal, err)
		}

		return s.recomputeTotal(ctx, wo)
	})

	if err != nil {
		return err
	}

	s.logger.Info("RemovePart: removed usage id=%d from work order id=%d", usageID, workOrderID)
	return nil
}

// recomputeTotal пересчитывает производную стоимость заказ-наряда.
// Явно переопределенная стоимость не трогается.
func (s *Service) recomputeTotal(ctx context.Context, wo *domain.WorkOrder) error {
	if wo.TotalOverridden {
		return nil
	}

	total, err := s.woRepo.SumLines(ctx, wo.ID)
	if err != nil {
		return fmt.Errorf("%w: recomputeTotal - sum lines: %v", ErrInternal, err)
	}

	if err := s.woRepo.Update(ctx, wo.ID, woRepo.UpdateFields{TotalAmount: &total}); err != nil {
		return fmt.Errorf("%w: recomputeTotal - update total: %v", ErrInternal, err)
	}

	return nil
}

// checkWorkOrderAccess проверяет доступ: сотрудник или назначенный механик
func (s *Service) checkWorkOrderAccess(ctx context.Context, wo *domain.WorkOrder, callerID int64) error {
	account, err := s.accountClient.GetAccount(ctx, callerID)
	if err != nil {
		if errors.Is(err, accountClient.ErrAccountNotFound) {
			s.logger.Warn("checkWorkOrderAccess: account id=%d not found", callerID)
			return ErrAccessDenied
		}
		s.logger.Error("checkWorkOrderAccess: failed to get account id=%d: %v", callerID, err)
		return fmt.Errorf("%w: checkWorkOrderAccess - failed to get account: %v", ErrInternal, err)
	}

	if !account.Active {
		return ErrAccessDenied
	}
	if account.IsStaff() {
		return nil
	}
	if account.IsTechnician() && wo.TechnicianID == callerID {
		return nil
	}

	s.logger.Warn("checkWorkOrderAccess: access denied for account id=%d to work order id=%d", callerID, wo.ID)
	return ErrAccessDenied
}

// checkTechnician проверяет, что аккаунт - активный механик
func (s *Service) checkTechnician(ctx context.Context, technicianID int64) error {
	account, err := s.accountClient.GetAccount(ctx, technicianID)
	if err != nil {
		if errors.Is(err, accountClient.ErrAccountNotFound) {
			s.logger.Warn("checkTechnician: account id=%d not found", technicianID)
			return ErrNotTechnician
		}
		s.logger.Error("checkTechnician: failed to get account id=%d: %v", technicianID, err)
		return fmt.Errorf("%w: checkTechnician - failed to get account: %v", ErrInternal, err)
	}

	if !account.Active || !account.IsTechnician() {
		s.logger.Warn("checkTechnician: account id=%d is not an active technician", technicianID)
		return ErrNotTechnician
	}

	return nil
}
