package ensure_invoice

import "github.com/m04kA/SMC-MaintenanceService/internal/service/invoices/models"

// EnsureInvoiceRequest HTTP request model.
// serviceId опционален: без него сумма берется из услуги записи.
type EnsureInvoiceRequest struct {
	ServiceID *int64 `json:"serviceId,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервисного слоя
func (r *EnsureInvoiceRequest) ToServiceRequest(appointmentID, staffID int64) *models.EnsureInvoiceRequest {
	return &models.EnsureInvoiceRequest{
		StaffID:       staffID,
		AppointmentID: appointmentID,
		ServiceID:     r.ServiceID,
	}
}
