package confirm_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("confirm_appointment: appointment not found")

	// ErrNotStaff возвращается, когда подтверждающий не является сотрудником
	ErrNotStaff = errors.New("confirm_appointment: caller is not an active staff member")

	// ErrNotTechnician возвращается, когда назначаемый аккаунт не механик
	ErrNotTechnician = errors.New("confirm_appointment: account is not an active technician")

	// ErrCannotConfirm возвращается, когда запись не в статусе pending
	ErrCannotConfirm = errors.New("confirm_appointment: appointment cannot be confirmed")

	// ErrTechnicianOverloaded возвращается при превышении лимита активных заказ-нарядов
	ErrTechnicianOverloaded = errors.New("confirm_appointment: technician has too many active work orders")

	// ErrWorkOrderExists возвращается, когда у записи уже есть заказ-наряд
	ErrWorkOrderExists = errors.New("confirm_appointment: appointment already has a work order")

	// ErrServiceNotFound возвращается, когда услуга записи не найдена в каталоге
	ErrServiceNotFound = errors.New("confirm_appointment: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_appointment: internal error")
)
