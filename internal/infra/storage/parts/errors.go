package parts

import "errors"

var (
	// ErrPartNotFound возвращается, когда запчасть не найдена
	ErrPartNotFound = errors.New("parts.repository: part not found")

	// ErrInsufficientStock возвращается, когда на складе недостаточно запчастей
	ErrInsufficientStock = errors.New("parts.repository: insufficient stock")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("parts.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("parts.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("parts.repository: failed to scan row")
)
