package confirm_appointment

import "time"

// Request модель запроса на подтверждение записи.
// TechnicianID = nil означает простое подтверждение без заказ-наряда.
type Request struct {
	AppointmentID int64  // ID записи
	StaffID       int64  // ID подтверждающего сотрудника
	TechnicianID  *int64 // ID механика (опционально)
}

// Response модель ответа с подтвержденной записью
type Response struct {
	ID                 int64     // ID записи
	AccountID          int64     // ID клиента
	SlotID             int64     // ID слота
	ServiceID          int64     // ID услуги
	ScheduledAt        time.Time // Время начала
	Status             string    // Статус записи
	ConfirmedByStaffID int64     // Подтвердивший сотрудник

	// Заказ-наряд (только при подтверждении с механиком)
	WorkOrder *WorkOrderInfo
}

// WorkOrderInfo созданный заказ-наряд
type WorkOrderInfo struct {
	ID           int64  // ID заказ-наряда
	TechnicianID int64  // Назначенный механик
	Status       string // Статус заказ-наряда
	TotalAmount  int64  // Начальная стоимость (строка услуги записи)
}
