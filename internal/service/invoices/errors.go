package invoices

import "errors"

var (
	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found in catalog")

	// ErrAppointmentCancelled возвращается при выставлении счета по отмененной записи
	ErrAppointmentCancelled = errors.New("appointment is cancelled")

	// ErrInvalidAmount возвращается при неположительной сумме счета
	ErrInvalidAmount = errors.New("invoice amount must be positive")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
