package confirm_appointment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	confirmAppointment "github.com/m04kA/SMC-MaintenanceService/internal/usecase/confirm_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgNotStaff             = "подтверждать записи может только сотрудник"
	msgNotTechnician        = "указанный аккаунт не является механиком"
	msgCannotConfirm        = "запись нельзя подтвердить в текущем статусе"
	msgTechnicianOverloaded = "у механика слишком много активных заказ-нарядов"
	msgWorkOrderExists      = "у записи уже есть заказ-наряд"
	msgServiceNotFound      = "услуга записи не найдена в каталоге"
)

type Handler struct {
	useCase ConfirmAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgNotStaff)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("POST /appointments/{id}/confirm - Invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Тело опционально: простое подтверждение идет без него
	var req ConfirmAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /appointments/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmAppointment.Request{
		AppointmentID: appointmentID,
		StaffID:       staffID,
		TechnicianID:  req.TechnicianID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/confirm - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, confirmAppointment.ErrNotStaff):
			h.logger.Warn("POST /appointments/{id}/confirm - Not staff: staff_id=%d", staffID)
			handlers.RespondForbidden(w, msgNotStaff)

		case errors.Is(err, confirmAppointment.ErrNotTechnician):
			h.logger.Warn("POST /appointments/{id}/confirm - Not technician: technician_id=%v", req.TechnicianID)
			handlers.RespondBadRequest(w, msgNotTechnician)

		case errors.Is(err, confirmAppointment.ErrCannotConfirm):
			h.logger.Warn("POST /appointments/{id}/confirm - Cannot confirm: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotConfirm)

		case errors.Is(err, confirmAppointment.ErrTechnicianOverloaded):
			h.logger.Warn("POST /appointments/{id}/confirm - Technician overloaded: technician_id=%v", req.TechnicianID)
			handlers.RespondError(w, http.StatusConflict, msgTechnicianOverloaded)

		case errors.Is(err, confirmAppointment.ErrWorkOrderExists):
			h.logger.Warn("POST /appointments/{id}/confirm - Work order exists: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgWorkOrderExists)

		case errors.Is(err, confirmAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/{id}/confirm - Service not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, confirmAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/{id}/confirm - Failed to confirm: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/confirm - Appointment confirmed: appointment_id=%d, staff_id=%d",
		appointmentID, staffID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
