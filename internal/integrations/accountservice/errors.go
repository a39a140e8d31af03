package accountservice

import "errors"

var (
	// ErrAccountNotFound возвращается, когда аккаунт не найден
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoActiveStaff возвращается, когда в сервисе нет ни одного
	// активного сотрудника
	ErrNoActiveStaff = errors.New("no active staff available")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("accountservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("accountservice client: invalid response")
)
