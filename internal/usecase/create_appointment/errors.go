package create_appointment

import "errors"

var (
	// ErrAccountNotFound возвращается, когда аккаунт не найден или неактивен
	ErrAccountNotFound = errors.New("create_appointment: account not found")

	// ErrVehicleNotFound возвращается, когда автомобиль не найден у аккаунта
	ErrVehicleNotFound = errors.New("create_appointment: vehicle not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrSlotNotAvailable возвращается, когда слот заполнен
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrSlotDisabled возвращается, когда слот отключен
	ErrSlotDisabled = errors.New("create_appointment: slot is disabled")

	// ErrNoStaffAvailable возвращается, когда некому назначить новый слот
	ErrNoStaffAvailable = errors.New("create_appointment: no active staff available")

	// ErrDateInPast возвращается при попытке записаться на прошедшее время
	ErrDateInPast = errors.New("create_appointment: scheduled time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
