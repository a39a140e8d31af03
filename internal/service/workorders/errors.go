package workorders

import "errors"

var (
	// ErrWorkOrderNotFound возвращается, когда заказ-наряд не найден
	ErrWorkOrderNotFound = errors.New("work order not found")

	// ErrPartNotFound возвращается, когда запчасть не найдена
	ErrPartNotFound = errors.New("part not found")

	// ErrPartUsageNotFound возвращается, когда списание запчасти не найдено
	ErrPartUsageNotFound = errors.New("part usage not found")

	// ErrInsufficientStock возвращается, когда остатка на складе не хватает
	ErrInsufficientStock = errors.New("insufficient part stock")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrReassignmentLocked возвращается, когда смена механика запрещена
	ErrReassignmentLocked = errors.New("technician reassignment is locked")

	// ErrTechnicianOverloaded возвращается при превышении лимита активных заказ-нарядов
	ErrTechnicianOverloaded = errors.New("technician has too many active work orders")

	// ErrNotTechnician возвращается, когда аккаунт не является механиком
	ErrNotTechnician = errors.New("account is not an active technician")

	// ErrWorkOrderClosed возвращается при изменении завершенного заказ-наряда
	ErrWorkOrderClosed = errors.New("work order is done")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
