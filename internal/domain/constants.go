package domain

// Default configuration values
const (
	DefaultSlotCapacity        = 4
	DefaultSlotDurationMinutes = 60
	DefaultMaxActiveWorkOrders = 5
	DefaultCheckoutExpiryMin   = 15
)

// Business validation constants
const (
	MinSlotCapacity    = 1
	MaxSlotCapacity    = 100
	MaxNotesLength     = 500
	MaxDiagnosisLength = 2000
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AppointmentActiveStatuses статусы записей, занимающих место в слоте.
// Используется при подсчете загруженности слота.
var AppointmentActiveStatuses = []AppointmentStatus{
	AppointmentPending,
	AppointmentConfirmed,
	AppointmentCompleted,
}

// WorkOrderActiveStatuses статусы незавершенных заказ-нарядов.
// Используется при проверке лимита нагрузки механика.
var WorkOrderActiveStatuses = []WorkOrderStatus{
	WorkOrderPending,
	WorkOrderInProgress,
	WorkOrderOnHold,
}
