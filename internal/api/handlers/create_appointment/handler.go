package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-MaintenanceService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidScheduledAt = "некорректный формат scheduledAt, ожидается RFC3339"
	msgAccountNotFound    = "аккаунт не найден"
	msgVehicleNotFound    = "автомобиль не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotDisabled       = "выбранный временной слот отключен"
	msgNoStaffAvailable   = "нет доступных сотрудников для записи"
	msgDateInPast         = "время записи в прошлом"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgInvalidRequestBody)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(accountID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse scheduledAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduledAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: account_id=%d", accountID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrSlotDisabled):
			h.logger.Warn("POST /appointments - Slot disabled: account_id=%d", accountID)
			handlers.RespondError(w, http.StatusConflict, msgSlotDisabled)

		case errors.Is(err, createAppointment.ErrAccountNotFound):
			h.logger.Warn("POST /appointments - Account not found: account_id=%d", accountID)
			handlers.RespondNotFound(w, msgAccountNotFound)

		case errors.Is(err, createAppointment.ErrVehicleNotFound):
			h.logger.Warn("POST /appointments - Vehicle not found: account_id=%d, vehicle_id=%d",
				accountID, req.VehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrNoStaffAvailable):
			h.logger.Warn("POST /appointments - No staff available: account_id=%d", accountID)
			handlers.RespondError(w, http.StatusConflict, msgNoStaffAvailable)

		case errors.Is(err, createAppointment.ErrDateInPast):
			h.logger.Warn("POST /appointments - Scheduled time in the past: account_id=%d", accountID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: account_id=%d, error=%v",
				accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, account_id=%d",
		result.ID, accountID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
