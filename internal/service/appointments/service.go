package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	apptRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/appointment"
	accountClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/appointments/models"
)

// Service сервис для работы с записями на обслуживание
type Service struct {
	apptRepo      AppointmentRepository
	accountClient AccountServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	apptRepo AppointmentRepository,
	accountClient AccountServiceClient,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:      apptRepo,
		accountClient: accountClient,
		logger:        logger,
	}
}

// GetByID получает запись по ID.
// Клиент видит только свои записи; сотрудники - любые.
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for caller=%d", id, callerID)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkCallerAccess(ctx, appt.AccountID, callerID); err != nil {
		s.logger.Warn("GetByID: access denied for caller=%d to appointment id=%d", callerID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetAccountAppointments получает историю записей клиента.
// Доступно владельцу аккаунта и сотрудникам.
func (s *Service) GetAccountAppointments(ctx context.Context, req *models.GetAccountAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetAccountAppointments: fetching appointments for account=%d, caller=%d", req.AccountID, req.CallerID)

	if err := s.checkCallerAccess(ctx, req.AccountID, req.CallerID); err != nil {
		return nil, err
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetAccountAppointments: invalid status=%s for account=%d", *req.Status, req.AccountID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.apptRepo.GetByAccountID(ctx, req.AccountID, domainStatus)
	if err != nil {
		s.logger.Error("GetAccountAppointments: repository error for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: GetAccountAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAccountAppointments: fetched %d appointments for account=%d", len(appointments), req.AccountID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись.
// Клиент может отменить свою запись, сотрудник - любую.
// Слот при этом не удаляется: место освобождается правилом подсчета,
// исключающим отмененные записи.
func (s *Service) Cancel(ctx context.Context, id int64, callerID int64) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by caller=%d", id, callerID)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkCallerAccess(ctx, appt.AccountID, callerID); err != nil {
		s.logger.Warn("Cancel: access denied for caller=%d to appointment id=%d", callerID, id)
		return err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, domain.AppointmentCancelled); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// Complete переводит подтвержденную запись в completed (выполняется сотрудником)
func (s *Service) Complete(ctx context.Context, id int64, staffID int64) error {
	s.logger.Info("Complete: completing appointment id=%d by staff=%d", id, staffID)

	if err := s.checkStaffAccess(ctx, staffID); err != nil {
		return err
	}

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCompleted() {
		s.logger.Warn("Complete: appointment id=%d cannot be completed, status=%s", id, appt.Status)
		return fmt.Errorf("%w: appointment is not confirmed", ErrInvalidInput)
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, domain.AppointmentCompleted); err != nil {
		s.logger.Error("Complete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", id)
	return nil
}

// Вспомогательные методы

// checkCallerAccess проверяет, что вызывающий - владелец аккаунта или сотрудник
func (s *Service) checkCallerAccess(ctx context.Context, ownerID, callerID int64) error {
	if ownerID == callerID {
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
