package payment

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда транзакция не найдена
	ErrTransactionNotFound = errors.New("payment.repository: transaction not found")

	// ErrDuplicatePending возвращается при попытке создать вторую
	// pending-транзакцию для пары (счет, способ оплаты)
	ErrDuplicatePending = errors.New("payment.repository: pending transaction already exists")

	// ErrAlreadyResolved возвращается при попытке перевести в терминальный
	// статус транзакцию, которая уже не pending
	ErrAlreadyResolved = errors.New("payment.repository: transaction already resolved")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
