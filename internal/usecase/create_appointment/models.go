package create_appointment

import "time"

// Request модель запроса на создание записи
type Request struct {
	AccountID   int64     // ID клиента
	VehicleID   int64     // ID автомобиля клиента
	ServiceID   int64     // ID услуги из каталога
	ScheduledAt time.Time // Время начала слота
	Notes       *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID          int64     // ID созданной записи
	AccountID   int64     // ID клиента
	VehicleID   int64     // ID автомобиля
	SlotID      int64     // ID слота
	ServiceID   int64     // ID услуги
	ScheduledAt time.Time // Время начала
	Status      string    // Статус записи
	Notes       *string   // Заметки

	// Денормализованные данные слота
	SlotStaffID  int64     // Сотрудник слота
	SlotEndTime  time.Time // Время окончания слота
	SlotCapacity int       // Вместимость слота

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
