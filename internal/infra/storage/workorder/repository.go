package workorder

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

var workOrderColumns = []string{
	"id",
	"appointment_id",
	"technician_id",
	"status",
	"diagnosis",
	"estimated_completion_at",
	"total_amount",
	"total_overridden",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заказ-нарядами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказ-нарядов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заказ-наряд.
// Уникальный индекс по appointment_id гарантирует 1:1 с записью.
func (r *Repository) Create(ctx context.Context, wo *domain.WorkOrder) (*domain.WorkOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("work_orders").
		Columns(
			"appointment_id",
			"technician_id",
			"status",
			"diagnosis",
			"estimated_completion_at",
			"total_amount",
			"total_overridden",
		).
		Values(
			wo.AppointmentID,
			wo.TechnicianID,
			wo.Status,
			wo.Diagnosis,
			wo.EstimatedCompletionAt,
			wo.TotalAmount,
			wo.TotalOverridden,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&wo.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAppointment
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	wo.CreatedAt = createdAt.Time
	wo.UpdatedAt = updatedAt.Time

	return wo, nil
}

// GetByID получает заказ-наряд по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByAppointmentID получает заказ-наряд записи
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.WorkOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"appointment_id": appointmentID})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.WorkOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(workOrderColumns...).
		From("work_orders").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var wo domain.WorkOrder
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&wo.ID,
		&wo.AppointmentID,
		&wo.TechnicianID,
		&wo.Status,
		&wo.Diagnosis,
		&wo.EstimatedCompletionAt,
		&wo.TotalAmount,
		&wo.TotalOverridden,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrWorkOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan work order: %v", ErrScanRow, err)
	}

	wo.CreatedAt = createdAt.Time
	wo.UpdatedAt = updatedAt.Time

	return &wo, nil
}

// CountActiveByTechnician считает незавершенные заказ-наряды механика.
// Используется при подтверждении записи для проверки лимита нагрузки.
func (r *Repository) CountActiveByTechnician(ctx context.Context, technicianID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("work_orders").
		Where(squirrel.Eq{"technician_id": technicianID}).
		Where(squirrel.NotEq{"status": domain.WorkOrderDone}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTechnician - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTechnician - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateFields частично обновляет заказ-наряд
type UpdateFields struct {
	Status                *domain.WorkOrderStatus
	TechnicianID          *int64
	Diagnosis             *string
	EstimatedCompletionAt *time.Time
	TotalAmount           *int64
	TotalOverridden       *bool
}

// Update применяет частичное обновление заказ-наряда.
// Бизнес-правила переходов проверяются сервисом до вызова.
func (r *Repository) Update(ctx context.Context, id int64, fields UpdateFields) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("work_orders").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if fields.Status != nil {
		updateBuilder = updateBuilder.Set("status", *fields.Status)
	}
	if fields.TechnicianID != nil {
		updateBuilder = updateBuilder.Set("technician_id", *fields.TechnicianID)
	}
	if fields.Diagnosis != nil {
		updateBuilder = updateBuilder.Set("diagnosis", *fields.Diagnosis)
	}
	if fields.EstimatedCompletionAt != nil {
		updateBuilder = updateBuilder.Set("estimated_completion_at", *fields.EstimatedCompletionAt)
	}
	if fields.TotalAmount != nil {
		updateBuilder = updateBuilder.Set("total_amount", *fields.TotalAmount)
	}
	if fields.TotalOverridden != nil {
		updateBuilder = updateBuilder.Set("total_overridden", *fields.TotalOverridden)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrWorkOrderNotFound
	}

	return nil
}

// AddServiceDetail добавляет строку услуги в заказ-наряд
func (r *Repository) AddServiceDetail(ctx context.Context, detail *domain.ServiceDetail) (*domain.ServiceDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("work_order_services").
		Columns("work_order_id", "service_id", "description", "amount").
		Values(detail.WorkOrderID, detail.ServiceID, detail.Description, detail.Amount).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddServiceDetail - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&detail.ID); err != nil {
		return nil, fmt.Errorf("%w: AddServiceDetail - execute insert: %v", ErrExecQuery, err)
	}

	return detail, nil
}

// AddPartUsage добавляет списание запчасти.
// Уменьшение остатка на складе выполняется сервисом в той же транзакции.
func (r *Repository) AddPartUsage(ctx context.Context, usage *domain.PartUsage) (*domain.PartUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("part_usages").
		Columns("work_order_id", "part_id", "quantity", "amount").
		Values(usage.WorkOrderID, usage.PartID, usage.Quantity, usage.Amount).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddPartUsage - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&usage.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: AddPartUsage - execute insert: %v", ErrExecQuery, err)
	}

	usage.CreatedAt = createdAt.Time

	return usage, nil
}

// GetPartUsage получает списание запчасти по ID в рамках заказ-наряда
func (r *Repository) GetPartUsage(ctx context.Context, workOrderID, usageID int64) (*domain.PartUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "work_order_id", "part_id", "quantity", "amount", "created_at").
		From("part_usages").
		Where(squirrel.Eq{"id": usageID, "work_order_id": workOrderID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPartUsage - build select query: %v", ErrBuildQuery, err)
	}

	var usage domain.PartUsage
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&usage.ID,
		&usage.WorkOrderID,
		&usage.PartID,
		&usage.Quantity,
		&usage.Amount,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPartUsageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPartUsage - scan part usage: %v", ErrScanRow, err)
	}

	usage.CreatedAt = createdAt.Time

	return &usage, nil
}

// DeletePartUsage удаляет списание запчасти
func (r *Repository) DeletePartUsage(ctx context.Context, workOrderID, usageID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("part_usages").
		Where(squirrel.Eq{"id": usageID, "work_order_id": workOrderID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeletePartUsage - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeletePartUsage - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeletePartUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPartUsageNotFound
	}

	return nil
}

// SumLines считает производную стоимость заказ-наряда:
// сумма строк услуг плюс сумма списанных запчастей
func (r *Repository) SumLines(ctx context.Context, workOrderID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `
		SELECT COALESCE((SELECT SUM(amount) FROM work_order_services WHERE work_order_id = $1), 0)
		     + COALESCE((SELECT SUM(amount) FROM part_usages WHERE work_order_id = $1), 0)`

	var total int64
	if err := executor.QueryRowContext(ctx, query, workOrderID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: SumLines - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
