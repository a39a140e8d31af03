package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

var invoiceColumns = []string{
	"id",
	"appointment_id",
	"work_order_id",
	"total_amount",
	"payment_status",
	"sent_to_customer_at",
	"sent_by_staff_id",
	"customer_paid_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со счетами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает счет.
// Уникальный индекс по appointment_id реализует ensure-семантику:
// второй конкурентный Create получает ErrDuplicateAppointment
// и перечитывает существующий счет.
func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"appointment_id",
			"work_order_id",
			"total_amount",
			"payment_status",
		).
		Values(
			inv.AppointmentID,
			inv.WorkOrderID,
			inv.TotalAmount,
			inv.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAppointment
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time

	return inv, nil
}

// GetByID получает счет по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByAppointmentID получает счет записи
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Invoice, error) {
	return r.getOne(ctx, squirrel.Eq{"appointment_id": appointmentID})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var inv domain.Invoice
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID,
		&inv.AppointmentID,
		&inv.WorkOrderID,
		&inv.TotalAmount,
		&inv.PaymentStatus,
		&inv.SentToCustomerAt,
		&inv.SentByStaffID,
		&inv.CustomerPaidAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan invoice: %v", ErrScanRow, err)
	}

	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time

	return &inv, nil
}

// UpdateTotal корректирует сумму счета (пересчет из каталога услуг)
func (r *Repository) UpdateTotal(ctx context.Context, id int64, totalAmount int64) error {
	return r.update(ctx, id, "UpdateTotal", map[string]interface{}{
		"total_amount": totalAmount,
	})
}

// UpdatePaymentStatus выставляет статус оплаты.
// Вызов идемпотентен: повторная установка того же статуса не ошибка.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.InvoicePaymentStatus) error {
	return r.update(ctx, id, "UpdatePaymentStatus", map[string]interface{}{
		"payment_status": status,
	})
}

// MarkSent фиксирует отправку счета клиенту
func (r *Repository) MarkSent(ctx context.Context, id int64, staffID int64) error {
	return r.update(ctx, id, "MarkSent", map[string]interface{}{
		"sent_to_customer_at": squirrel.Expr("NOW()"),
		"sent_by_staff_id":    staffID,
	})
}

// MarkCustomerPaid фиксирует отметку клиента "я оплатил".
// Статус оплаты при этом не меняется - подтверждение клиента совещательное.
func (r *Repository) MarkCustomerPaid(ctx context.Context, id int64) error {
	return r.update(ctx, id, "MarkCustomerPaid", map[string]interface{}{
		"customer_paid_at": squirrel.Expr("NOW()"),
	})
}

func (r *Repository) update(ctx context.Context, id int64, method string, sets map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("invoices").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	for column, value := range sets {
		updateBuilder = updateBuilder.Set(column, value)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
