package create_checkout

import "errors"

var (
	// ErrInvoiceNotFound возвращается, когда счет не найден
	ErrInvoiceNotFound = errors.New("create_checkout: invoice not found")

	// ErrInvoiceAlreadyPaid возвращается, когда счет уже оплачен
	ErrInvoiceAlreadyPaid = errors.New("create_checkout: invoice is already paid")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("create_checkout: access denied")

	// ErrInvalidMethod возвращается при неизвестном способе оплаты
	ErrInvalidMethod = errors.New("create_checkout: invalid payment method")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_checkout: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_checkout: internal error")
)
