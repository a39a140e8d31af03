package payment_callback

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase.
	// Бизнес-исходы сверки (неверная подпись, дубликат, расхождение суммы)
	// ошибками не являются - их несет Result.Outcome.
	ErrInternal = errors.New("payment_callback: internal error")
)
