package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

var transactionColumns = []string{
	"id",
	"invoice_id",
	"amount",
	"method",
	"status",
	"bank_code",
	"gateway_meta",
	"checkout_url",
	"expires_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежных транзакций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория транзакций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает pending-транзакцию.
// Частичный уникальный индекс (invoice_id, method) WHERE status = 'pending'
// не допускает дубликатов при конкурентных checkout-запросах:
// проигравший получает ErrDuplicatePending и переиспользует существующую.
func (r *Repository) Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_transactions").
		Columns(
			"invoice_id",
			"amount",
			"method",
			"status",
			"bank_code",
		).
		Values(
			tx.InvoiceID,
			tx.Amount,
			tx.Method,
			tx.Status,
			tx.BankCode,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicatePending
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time

	return tx, nil
}

// GetByID получает транзакцию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetPendingByInvoiceAndMethod получает незакрытую транзакцию
// для пары (счет, способ оплаты)
func (r *Repository) GetPendingByInvoiceAndMethod(ctx context.Context, invoiceID int64, method domain.PaymentMethod) (*domain.PaymentTransaction, error) {
	return r.getOne(ctx, squirrel.Eq{
		"invoice_id": invoiceID,
		"method":     method,
		"status":     domain.TransactionPending,
	})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(transactionColumns...).
		From("payment_transactions").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var tx domain.PaymentTransaction
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&tx.InvoiceID,
		&tx.Amount,
		&tx.Method,
		&tx.Status,
		&tx.BankCode,
		&tx.GatewayMeta,
		&tx.CheckoutURL,
		&tx.ExpiresAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan transaction: %v", ErrScanRow, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time

	return &tx, nil
}

// UpdateCheckout сохраняет подписанный URL оплаты и метаданные шлюза
func (r *Repository) UpdateCheckout(ctx context.Context, id int64, checkoutURL, gatewayMeta string, expiresAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("checkout_url", checkoutURL).
		Set("gateway_meta", gatewayMeta).
		Set("expires_at", expiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateCheckout - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateCheckout - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateCheckout - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// Resolve переводит pending-транзакцию в терминальный статус.
// Условие status = 'pending' входит в сам UPDATE: обработчики return-URL
// и IPN могут конкурировать, терминальный статус выставляется ровно один раз.
func (r *Repository) Resolve(ctx context.Context, id int64, status domain.TransactionStatus, gatewayMeta *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("payment_transactions").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.TransactionPending,
		})

	if gatewayMeta != nil {
		updateBuilder = updateBuilder.Set("gateway_meta", *gatewayMeta)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Resolve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Resolve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Resolve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо транзакции нет, либо она уже закрыта
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyResolved
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
