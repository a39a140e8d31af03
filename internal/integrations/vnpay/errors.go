package vnpay

import "errors"

var (
	// ErrInvalidTxnRef возвращается при некорректном формате vnp_TxnRef
	ErrInvalidTxnRef = errors.New("vnpay: invalid transaction reference")

	// ErrEmptyAmount возвращается при попытке подписать нулевую сумму
	ErrEmptyAmount = errors.New("vnpay: amount must be positive")
)
