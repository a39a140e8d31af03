package parts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MaintenanceService/internal/domain"
	"github.com/m04kA/SMC-MaintenanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceService/pkg/psqlbuilder"
)

// Repository репозиторий склада запчастей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория запчастей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает запчасть по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Part, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price", "stock").
		From("parts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var part domain.Part
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&part.ID,
		&part.Name,
		&part.Price,
		&part.Stock,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan part: %v", ErrScanRow, err)
	}

	return &part, nil
}

// DecrementStock атомарно уменьшает остаток.
// Условие stock >= quantity входит в сам UPDATE: проверка и списание
// не могут разъехаться между конкурентными запросами.
func (r *Repository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("parts").
		Set("stock", squirrel.Expr("stock - ?", quantity)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"stock": quantity}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementStock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementStock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо запчасти нет, либо остатка не хватает
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrInsufficientStock
	}

	return nil
}

// RestoreStock возвращает остаток при удалении списания
// (компенсирующее действие, не откат транзакции)
func (r *Repository) RestoreStock(ctx context.Context, id int64, quantity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("parts").
		Set("stock", squirrel.Expr("stock + ?", quantity)).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RestoreStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RestoreStock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RestoreStock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPartNotFound
	}

	return nil
}
