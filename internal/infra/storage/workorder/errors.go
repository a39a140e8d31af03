package workorder

import "errors"

var (
	// ErrWorkOrderNotFound возвращается, когда заказ-наряд не найден
	ErrWorkOrderNotFound = errors.New("workorder.repository: work order not found")

	// ErrPartUsageNotFound возвращается, когда списание запчасти не найдено
	ErrPartUsageNotFound = errors.New("workorder.repository: part usage not found")

	// ErrDuplicateAppointment возвращается при попытке создать второй
	// заказ-наряд для одной записи
	ErrDuplicateAppointment = errors.New("workorder.repository: work order for this appointment already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("workorder.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("workorder.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("workorder.repository: failed to scan row")
)
