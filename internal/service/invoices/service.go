package invoices

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	apptRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/appointment"
	invRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/invoice"
	woRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/workorder"
	accountClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	catalogClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/invoices/models"
)

// Service сервис выставления и сопровождения счетов
type Service struct {
	invRepo       InvoiceRepository
	apptRepo      AppointmentRepository
	woRepo        WorkOrderRepository
	accountClient AccountServiceClient
	catalogClient CatalogServiceClient
	txManager     TxManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса счетов
func NewService(
	invRepo InvoiceRepository,
	apptRepo AppointmentRepository,
	woRepo WorkOrderRepository,
	accountClient AccountServiceClient,
	catalogClient CatalogServiceClient,
	txManager TxManager,
	logger Logger,
) *Service {
	return &Service{
		invRepo:       invRepo,
		apptRepo:      apptRepo,
		woRepo:        woRepo,
		accountClient: accountClient,
		catalogClient: catalogClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// EnsureForAppointment выставляет счет по записи или возвращает существующий.
// Сумма берется из каталога услуг (явно указанная услуга имеет приоритет над
// услугой записи). Существующий неоплаченный счет с разошедшейся суммой
// корректируется на месте; оплаченный счет не трогается.
func (s *Service) EnsureForAppointment(ctx context.Context, req *models.EnsureInvoiceRequest) (*models.InvoiceResponse, error) {
	s.logger.Info("EnsureForAppointment: ensuring invoice for appointment=%d by staff=%d",
		req.AppointmentID, req.StaffID)

	if err := s.checkStaffAccess(ctx, req.StaffID); err != nil {
		return nil, err
	}

	appt, err := s.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("EnsureForAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: EnsureForAppointment - get appointment: %v", ErrInternal, err)
	}

	if !appt.IsActive() {
		s.logger.Warn("EnsureForAppointment: appointment id=%d is cancelled", req.AppointmentID)
		return nil, ErrAppointmentCancelled
	}

	serviceID := appt.ServiceID
	if req.ServiceID != nil {
		serviceID = *req.ServiceID
	}

	amount, err := s.resolveAmount(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	// Заказ-наряд привязывается к счету, если уже создан
	var workOrderID *int64
	if wo, woErr := s.woRepo.GetByAppointmentID(ctx, req.AppointmentID); woErr == nil {
		workOrderID = &wo.ID
	} else if !errors.Is(woErr, woRepo.ErrWorkOrderNotFound) {
		s.logger.Error("EnsureForAppointment: failed to get work order for appointment=%d: %v",
			req.AppointmentID, woErr)
		return nil, fmt.Errorf("%w: EnsureForAppointment - get work order: %v", ErrInternal, woErr)
	}

	var result *domain.Invoice
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.invRepo.GetByAppointmentID(ctx, req.AppointmentID)
		if err == nil {
			result = existing
			return s.reconcileExisting(ctx, existing, amount)
		}
		if !errors.Is(err, invRepo.ErrInvoiceNotFound) {
			return fmt.Errorf("%w: EnsureForAppointment - get invoice: %v", ErrInternal, err)
		}

		created, err := s.invRepo.Create(ctx, &domain.Invoice{
			AppointmentID: req.AppointmentID,
			WorkOrderID:   workOrderID,
			TotalAmount:   amount,
			PaymentStatus: domain.InvoiceUnpaid,
		})
		if err != nil {
			if errors.Is(err, invRepo.ErrDuplicateAppointment) {
				// Конкурентное выставление: перечитываем счет победителя
				existing, err = s.invRepo.GetByAppointmentID(ctx, req.AppointmentID)
				if err != nil {
					return fmt.Errorf("%w: EnsureForAppointment - re-fetch after duplicate: %v", ErrInternal, err)
				}
				result = existing
				return s.reconcileExisting(ctx, existing, amount)
			}
			return fmt.Errorf("%w: EnsureForAppointment - create invoice: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("EnsureForAppointment: invoice id=%d for appointment=%d, amount=%d",
		result.ID, req.AppointmentID, result.TotalAmount)
	return models.FromDomainInvoice(result), nil
}

// reconcileExisting корректирует сумму существующего неоплаченного счета
func (s *Service) reconcileExisting(ctx context.Context, inv *domain.Invoice, amount int64) error {
	if inv.IsPaid() || inv.TotalAmount == amount {
		return nil
	}

	s.logger.Info("reconcileExisting: correcting invoice id=%d amount %d -> %d", inv.ID, inv.TotalAmount, amount)

	if err := s.invRepo.UpdateTotal(ctx, inv.ID, amount); err != nil {
		return fmt.Errorf("%w: reconcileExisting - update total: %v", ErrInternal, err)
	}
	inv.TotalAmount = amount

	return nil
}

// GetByID получает счет. Доступно владельцу записи и сотрудникам.
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.InvoiceResponse, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkInvoiceAccess(ctx, inv, callerID); err != nil {
		return nil, err
	}

	return models.FromDomainInvoice(inv), nil
}

// SendToCustomer фиксирует отправку счета клиенту.
// Меняются только отметки отправки, статус оплаты не трогается.
func (s *Service) SendToCustomer(ctx context.Context, id int64, staffID int64) (*models.InvoiceResponse, error) {
	s.logger.Info("SendToCustomer: sending invoice id=%d by staff=%d", id, staffID)

	if err := s.checkStaffAccess(ctx, staffID); err != nil {
		return nil, err
	}

	if err := s.invRepo.MarkSent(ctx, id, staffID); err != nil {
		if errors.Is(err, invRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("SendToCustomer: failed to mark invoice id=%d sent: %v", id, err)
		return nil, fmt.Errorf("%w: SendToCustomer - mark sent: %v", ErrInternal, err)
	}

	return s.fetchResponse(ctx, id)
}

// SetPaymentStatus выставляет статус оплаты вручную (сотрудником).
// Повторная установка того же статуса - no-op.
func (s *Service) SetPaymentStatus(ctx context.Context, id int64, staffID int64, paid bool) (*models.InvoiceResponse, error) {
	status := domain.InvoiceUnpaid
	if paid {
		status = domain.InvoicePaid
	}

	s.logger.Info("SetPaymentStatus: setting invoice id=%d to %s by staff=%d", id, status, staffID)

	if err := s.checkStaffAccess(ctx, staffID); err != nil {
		return nil, err
	}

	if err := s.invRepo.UpdatePaymentStatus(ctx, id, status); err != nil {
		if errors.Is(err, invRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("SetPaymentStatus: failed to update invoice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetPaymentStatus - update status: %v", ErrInternal, err)
	}

	return s.fetchResponse(ctx, id)
}

// CustomerConfirmPaid фиксирует отметку клиента "я оплатил".
// Доступно только владельцу записи; авторитетный статус оплаты не меняется.
func (s *Service) CustomerConfirmPaid(ctx context.Context, id int64, callerID int64) (*models.InvoiceResponse, error) {
	s.logger.Info("CustomerConfirmPaid: customer=%d confirming payment of invoice id=%d", callerID, id)

	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	appt, err := s.apptRepo.GetByID(ctx, inv.AppointmentID)
	if err != nil {
		s.logger.Error("CustomerConfirmPaid: failed to get appointment id=%d: %v", inv.AppointmentID, err)
		return nil, fmt.Errorf("%w: CustomerConfirmPaid - get appointment: %v", ErrInternal, err)
	}

	if appt.AccountID != callerID {
		s.logger.Warn("CustomerConfirmPaid: caller=%d is not the owner of invoice id=%d", callerID, id)
		return nil, ErrAccessDenied
	}

	if err := s.invRepo.MarkCustomerPaid(ctx, id); err != nil {
		if errors.Is(err, invRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("CustomerConfirmPaid: failed to mark invoice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: CustomerConfirmPaid - mark customer paid: %v", ErrInternal, err)
	}

	return s.fetchResponse(ctx, id)
}

// Вспомогательные методы

// resolveAmount получает услугу из каталога и округляет стандартную стоимость
func (s *Service) resolveAmount(ctx context.Context, serviceID int64) (int64, error) {
	service, err := s.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			s.logger.Warn("resolveAmount: service id=%d not found in catalog", serviceID)
			return 0, ErrServiceNotFound
		}
		s.logger.Error("resolveAmount: failed to get service id=%d: %v", serviceID, err)
		return 0, fmt.Errorf("%w: resolveAmount - get service: %v", ErrInternal, err)
	}

	amount := int64(math.Round(service.StandardCost))
	if amount <= 0 {
		s.logger.Warn("resolveAmount: service id=%d has non-positive cost %f", serviceID, service.StandardCost)
		return 0, ErrInvalidAmount
	}

	return amount, nil
}

func (s *Service) getInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := s.invRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, invRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("getInvoice: repository error for invoice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getInvoice - repository error: %v", ErrInternal, err)
	}

	return inv, nil
}

func (s *Service) fetchResponse(ctx context.Context, id int64) (*models.InvoiceResponse, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainInvoice(inv), nil
}

// checkInvoiceAccess проверяет доступ: владелец записи или сотрудник
func (s *Service) checkInvoiceAccess(ctx context.Context, inv *domain.Invoice, callerID int64) error {
	appt, err := s.apptRepo.GetByID(ctx, inv.AppointmentID)
	if err != nil {
		s.logger.Error("checkInvoiceAccess: failed to get appointment id=%d: %v", inv.AppointmentID, err)
		return fmt.Errorf("%w: checkInvoiceAccess - get appointment: %v", ErrInternal, err)
	}

	if appt.AccountID == callerID {
		return nil
	}

	return s.checkStaffAccess(ctx, callerID)
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
