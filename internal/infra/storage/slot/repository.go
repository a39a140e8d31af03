package slot

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

// Код ошибки PostgreSQL unique_violation
const pqUniqueViolation = "23505"

var slotColumns = []string{
	"id",
	"staff_id",
	"start_time",
	"end_time",
	"capacity",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот.
// Уникальный индекс по start_time гарантирует, что два конкурентных
// EnsureSlot не создадут дубликат: проигравший получает ErrDuplicateStartTime
// и перечитывает существующий слот.
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"staff_id",
			"start_time",
			"end_time",
			"capacity",
			"status",
		).
		Values(
			slot.StaffID,
			slot.StartTime,
			slot.EndTime,
			slot.Capacity,
			slot.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateStartTime
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется через FOR UPDATE - проверка
// вместимости и вставка записи должны видеть один и тот же слот.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByStartTime получает слот по точному времени начала
func (r *Repository) GetByStartTime(ctx context.Context, startTime time.Time) (*domain.Slot, error) {
	return r.getOne(ctx, squirrel.Eq{"start_time": startTime})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.StaffID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Capacity,
		&slot.Status,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan slot: %v", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// Delete удаляет слот.
// Проверка на активные записи выполняется сервисом в одной транзакции
// с удалением.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
