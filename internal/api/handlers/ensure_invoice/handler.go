package ensure_invoice

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	invoicesService "github.com/m04kA/SMC-MaintenanceService/internal/service/invoices"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgServiceNotFound      = "услуга не найдена в каталоге"
	msgAppointmentCancelled = "нельзя выставить счет по отмененной записи"
	msgInvalidAmount        = "стоимость услуги некорректна"
	msgAccessDenied         = "выставлять счета может только сотрудник"
)

type Handler struct {
	service InvoicesService
	logger  Logger
}

func NewHandler(service InvoicesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/invoice
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("POST /appointments/{id}/invoice - Invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Тело опционально
	var req EnsureInvoiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /appointments/{id}/invoice - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.EnsureForAppointment(r.Context(), req.ToServiceRequest(appointmentID, staffID))
	if err != nil {
		switch {
		case errors.Is(err, invoicesService.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/invoice - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, invoicesService.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/{id}/invoice - Service not found: appointment_id=%d, service_id=%v",
				appointmentID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, invoicesService.ErrAppointmentCancelled):
			h.logger.Warn("POST /appointments/{id}/invoice - Appointment cancelled: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAppointmentCancelled)

		case errors.Is(err, invoicesService.ErrInvalidAmount):
			h.logger.Warn("POST /appointments/{id}/invoice - Invalid amount: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidAmount)

		case errors.Is(err, invoicesService.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/invoice - Access denied: staff_id=%d", staffID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("POST /appointments/{id}/invoice - Failed to ensure invoice: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/invoice - Invoice ensured: appointment_id=%d, invoice_id=%d, amount=%d",
		appointmentID, result.ID, result.TotalAmount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
