package payment_callback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vnpay"
)

// UseCase use case сверки платежного callback'а.
// Один и тот же код обслуживает return-URL и IPN: оба канала могут прийти
// в любом порядке и повторно, исход должен быть одинаков.
type UseCase struct {
	paymentRepo PaymentRepository
	invRepo     InvoiceRepository
	gateway     GatewayClient
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	invRepo InvoiceRepository,
	gateway GatewayClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo: paymentRepo,
		invRepo:     invRepo,
		gateway:     gateway,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет сверку callback'а.
// Бизнес-исходы возвращаются в Result без ошибки; ошибка означает сбой,
// который обработчик транслирует в RspCode=99 или redirect на страницу
// неуспеха.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	// 1. Проверяем подпись
	data := uc.gateway.VerifyCallback(req.Params)
	if !data.IsValid {
		uc.logger.Warn("PaymentCallback: invalid signature, txnRef=%s", data.TxnRef)
		return &Result{Outcome: OutcomeInvalidSignature}, nil
	}

	// 2. Разбираем ссылку заказа "<invoiceID>-<transactionID>"
	invoiceID, transactionID, err := vnpay.ParseTxnRef(data.TxnRef)
	if err != nil {
		uc.logger.Warn("PaymentCallback: malformed txnRef=%q: %v", data.TxnRef, err)
		return &Result{Outcome: OutcomeNotFound}, nil
	}

	uc.logger.Info("PaymentCallback: txnRef=%s, responseCode=%s", data.TxnRef, data.ResponseCode)

	// 3. Получаем транзакцию и сверяем принадлежность счету
	tx, err := uc.paymentRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrTransactionNotFound) {
			uc.logger.Warn("PaymentCallback: transaction id=%d not found", transactionID)
			return &Result{Outcome: OutcomeNotFound, TransactionID: transactionID, InvoiceID: invoiceID}, nil
		}
		uc.logger.Error("PaymentCallback: failed to get transaction id=%d: %v", transactionID, err)
		return nil, fmt.Errorf("%w: failed to get transaction: %v", ErrInternal, err)
	}

	if tx.InvoiceID != invoiceID {
		uc.logger.Warn("PaymentCallback: txnRef invoice=%d does not match transaction invoice=%d",
			invoiceID, tx.InvoiceID)
		return &Result{Outcome: OutcomeNotFound, TransactionID: transactionID, InvoiceID: invoiceID}, nil
	}

	result := &Result{TransactionID: tx.ID, InvoiceID: tx.InvoiceID}

	// 4. Повторный callback по закрытой транзакции - no-op
	if tx.IsTerminal() {
		uc.logger.Info("PaymentCallback: transaction id=%d already resolved as %s", tx.ID, tx.Status)
		result.Outcome = OutcomeAlreadyResolved
		result.PaymentSuccess = tx.Status == domain.TransactionSuccess
		return result, nil
	}

	// 5. Сверяем сумму: шлюз присылает минорные единицы (x100)
	callbackAmount, err := strconv.ParseInt(data.Amount, 10, 64)
	if err != nil || callbackAmount != tx.Amount*100 {
		uc.logger.Warn("PaymentCallback: amount mismatch for transaction id=%d: got=%q, want=%d",
			tx.ID, data.Amount, tx.Amount*100)
		result.Outcome = OutcomeAmountMismatch
		return result, nil
	}

	// 6. Закрываем транзакцию и счет в одной транзакции БД
	success := data.IsSuccess()
	meta := uc.buildGatewayMeta(data)

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		status := domain.TransactionFailed
		if success {
			status = domain.TransactionSuccess
		}

		// Условие status = 'pending' входит в сам UPDATE: из двух
		// конкурентных callback'ов терминальный статус выставит один
		if err := uc.paymentRepo.Resolve(txCtx, tx.ID, status, meta); err != nil {
			if errors.Is(err, paymentRepo.ErrAlreadyResolved) {
				return errAlreadyResolvedInTx
			}
			return fmt.Errorf("%w: failed to resolve transaction: %v", ErrInternal, err)
		}

		invStatus := domain.InvoiceUnpaid
		if success {
			invStatus = domain.InvoicePaid
		}
		if err := uc.invRepo.UpdatePaymentStatus(txCtx, tx.InvoiceID, invStatus); err != nil {
			return fmt.Errorf("%w: failed to update invoice status: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, errAlreadyResolvedInTx) {
			// Проигравший из двух конкурентных callback'ов
			current, getErr := uc.paymentRepo.GetByID(ctx, tx.ID)
			if getErr != nil {
				return nil, fmt.Errorf("%w: failed to re-fetch transaction: %v", ErrInternal, getErr)
			}
			result.Outcome = OutcomeAlreadyResolved
			result.PaymentSuccess = current.Status == domain.TransactionSuccess
			return result, nil
		}
		return nil, err
	}

	if success {
		uc.logger.Info("PaymentCallback: transaction id=%d confirmed, invoice id=%d paid", tx.ID, tx.InvoiceID)
		result.Outcome = OutcomeConfirmed
		result.PaymentSuccess = true
	} else {
		uc.logger.Info("PaymentCallback: transaction id=%d failed with gateway code %s", tx.ID, data.ResponseCode)
		result.Outcome = OutcomeFailed
	}

	return result, nil
}

// errAlreadyResolvedInTx внутренний маркер гонки двух callback'ов
var errAlreadyResolvedInTx = errors.New("payment_callback: transaction resolved concurrently")

// buildGatewayMeta собирает метаданные шлюза для аудита.
// Сырая подпись в метаданные не попадает.
func (uc *UseCase) buildGatewayMeta(data *vnpay.CallbackData) *string {
	raw, err := json.Marshal(map[string]string{
		"responseCode":  data.ResponseCode,
		"transactionNo": data.TransactionNo,
		"bankCode":      data.BankCode,
		"payDate":       data.PayDate,
	})
	if err != nil {
		uc.logger.Warn("PaymentCallback: failed to marshal gateway meta: %v", err)
		return nil
	}

	meta := string(raw)
	return &meta
}
