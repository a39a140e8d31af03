package create_checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	invRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/invoice"
	paymentRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/payment"
	accountClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vnpay"
)

// UseCase use case для создания платежной сессии VNPay
type UseCase struct {
	paymentRepo   PaymentRepository
	invRepo       InvoiceRepository
	apptRepo      AppointmentRepository
	accountClient AccountServiceClient
	gateway       GatewayClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	invRepo InvoiceRepository,
	apptRepo AppointmentRepository,
	accountClient AccountServiceClient,
	gateway GatewayClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:   paymentRepo,
		invRepo:       invRepo,
		apptRepo:      apptRepo,
		accountClient: accountClient,
		gateway:       gateway,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания платежной сессии.
// На пару (счет, способ оплаты) существует не больше одной pending-транзакции:
// поиск и создание идут в сериализуемой транзакции, частичный уникальный
// индекс закрывает гонку конкурентных checkout-запросов. Живая pending-сессия
// переиспользуется; просроченная получает новый URL и срок.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateCheckout: invoice=%d, caller=%d, method=%s",
		req.InvoiceID, req.CallerID, req.Method)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateCheckout: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем способ оплаты
	method, err := domain.NormalizePaymentMethod(req.Method)
	if err != nil {
		uc.logger.Warn("CreateCheckout: invalid method %q", req.Method)
		return nil, ErrInvalidMethod
	}

	// 3. Получаем счет и проверяем, что он не оплачен
	invoice, err := uc.invRepo.GetByID(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, invRepo.ErrInvoiceNotFound) {
			uc.logger.Warn("CreateCheckout: invoice id=%d not found", req.InvoiceID)
			return nil, ErrInvoiceNotFound
		}
		uc.logger.Error("CreateCheckout: failed to get invoice id=%d: %v", req.InvoiceID, err)
		return nil, fmt.Errorf("%w: failed to get invoice: %v", ErrInternal, err)
	}

	if invoice.IsPaid() {
		uc.logger.Warn("CreateCheckout: invoice id=%d is already paid", req.InvoiceID)
		return nil, ErrInvoiceAlreadyPaid
	}

	// 4. Доступ: владелец записи или сотрудник
	if err := uc.checkAccess(ctx, invoice.AppointmentID, req.CallerID); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()

	// Переменные для хранения результата
	var result *domain.PaymentTransaction
	var reused bool

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Перечитываем счет с блокировкой
		current, err := uc.invRepo.GetByID(txCtx, req.InvoiceID)
		if err != nil {
			if errors.Is(err, invRepo.ErrInvoiceNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("%w: failed to re-fetch invoice: %v", ErrInternal, err)
		}
		if current.IsPaid() {
			return ErrInvoiceAlreadyPaid
		}

		// 5.2. Ищем существующую pending-транзакцию
		existing, err := uc.paymentRepo.GetPendingByInvoiceAndMethod(txCtx, req.InvoiceID, method)
		if err == nil {
			// Живая сессия с URL переиспользуется как есть
			if existing.CheckoutURL != nil && existing.ExpiresAt != nil && existing.ExpiresAt.After(now) {
				uc.logger.Info("CreateCheckout: reusing pending transaction id=%d for invoice=%d",
					existing.ID, req.InvoiceID)
				result = existing
				reused = true
				return nil
			}
			// Просроченная или недостроенная сессия получает новый URL
			result, err = uc.attachCheckout(txCtx, existing, req)
			return err
		}
		if !errors.Is(err, paymentRepo.ErrTransactionNotFound) {
			return fmt.Errorf("%w: failed to get pending transaction: %v", ErrInternal, err)
		}

		// 5.3. Создаем pending-транзакцию
		created, err := uc.paymentRepo.Create(txCtx, &domain.PaymentTransaction{
			InvoiceID: req.InvoiceID,
			Amount:    current.TotalAmount,
			Method:    method,
			Status:    domain.TransactionPending,
			BankCode:  req.BankCode,
		})
		if err != nil {
			if errors.Is(err, paymentRepo.ErrDuplicatePending) {
				// Конкурентный checkout: переиспользуем транзакцию победителя
				existing, err = uc.paymentRepo.GetPendingByInvoiceAndMethod(txCtx, req.InvoiceID, method)
				if err != nil {
					return fmt.Errorf("%w: failed to re-fetch pending transaction: %v", ErrInternal, err)
				}
				result, err = uc.attachCheckout(txCtx, existing, req)
				return err
			}
			return fmt.Errorf("%w: failed to create transaction: %v", ErrInternal, err)
		}

		result, err = uc.attachCheckout(txCtx, created, req)
		return err
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateCheckout: transaction id=%d ready for invoice=%d, reused=%t",
		result.ID, req.InvoiceID, reused)

	// Конвертируем в response
	resp := &Response{
		TransactionID: result.ID,
		InvoiceID:     result.InvoiceID,
		Amount:        result.Amount,
		Method:        string(result.Method),
		Reused:        reused,
	}
	if result.CheckoutURL != nil {
		resp.CheckoutURL = *result.CheckoutURL
	}
	if result.ExpiresAt != nil {
		resp.ExpiresAt = *result.ExpiresAt
	}

	return resp, nil
}

// attachCheckout строит подписанный URL оплаты, сохраняет его в транзакции
// и возвращает обновленную транзакцию
func (uc *UseCase) attachCheckout(ctx context.Context, tx *domain.PaymentTransaction, req *Request) (*domain.PaymentTransaction, error) {
	checkout, err := uc.gateway.BuildCheckoutURL(vnpay.CheckoutRequest{
		TxnRef:    tx.TxnRef(),
		OrderInfo: fmt.Sprintf("Thanh toan hoa don %d", tx.InvoiceID),
		Amount:    tx.Amount,
		BankCode:  req.BankCode,
		ClientIP:  req.ClientIP,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build checkout URL: %v", ErrInternal, err)
	}

	expiresAt, err := checkout.ExpireTime()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse expire time: %v", ErrInternal, err)
	}

	meta, err := json.Marshal(map[string]string{
		"createDate": checkout.CreateAt,
		"expireDate": checkout.ExpireAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal gateway meta: %v", ErrInternal, err)
	}

	if err := uc.paymentRepo.UpdateCheckout(ctx, tx.ID, checkout.URL, string(meta), expiresAt); err != nil {
		return nil, fmt.Errorf("%w: failed to persist checkout: %v", ErrInternal, err)
	}

	tx.CheckoutURL = &checkout.URL
	tx.ExpiresAt = &expiresAt

	return tx, nil
}

// checkAccess проверяет доступ: владелец записи или сотрудник
func (uc *UseCase) checkAccess(ctx context.Context, appointmentID, callerID int64) error {
	appt, err := uc.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		uc.logger.Error("CreateCheckout: failed to get appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if appt.AccountID == callerID {
		return nil
	}

	account, err := uc.accountClient.GetAccount(ctx, callerID)
	if err != nil {
		if errors.Is(err, accountClient.ErrAccountNotFound) {
			uc.logger.Warn("CreateCheckout: account id=%d not found", callerID)
			return ErrAccessDenied
		}
		uc.logger.Error("CreateCheckout: failed to get account id=%d: %v", callerID, err)
		return fmt.Errorf("%w: failed to get account: %v", ErrInternal, err)
	}

	if !account.Active || !account.IsStaff() {
		uc.logger.Warn("CreateCheckout: caller id=%d has no access to invoice", callerID)
		return ErrAccessDenied
	}

	return nil
}
