package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotInUse возвращается при попытке удалить слот с активными записями
	ErrSlotInUse = errors.New("slot has active appointments")

	// ErrNoActiveStaff возвращается, когда нет ни одного активного сотрудника
	ErrNoActiveStaff = errors.New("no active staff available")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
