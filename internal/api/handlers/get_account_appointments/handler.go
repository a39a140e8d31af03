package get_account_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	appointmentsService "github.com/m04kA/SMC-MaintenanceService/internal/service/appointments"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/appointments/models"
)

const (
	msgInvalidAccountID = "некорректный ID аккаунта"
	msgInvalidStatus    = "некорректный статус записи"
	msgAccessDenied     = "нет доступа к записям аккаунта"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/accounts/{accountId}/appointments?status=pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	accountID, err := strconv.ParseInt(vars["accountId"], 10, 64)
	if err != nil || accountID <= 0 {
		h.logger.Warn("GET /accounts/{id}/appointments - Invalid account ID: %s", vars["accountId"])
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	req := &models.GetAccountAppointmentsRequest{
		CallerID:  callerID,
		AccountID: accountID,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetAccountAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrAccessDenied):
			h.logger.Warn("GET /accounts/{id}/appointments - Access denied: account_id=%d, caller_id=%d",
				accountID, callerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("GET /accounts/{id}/appointments - Invalid status filter: account_id=%d", accountID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /accounts/{id}/appointments - Failed to get appointments: account_id=%d, error=%v",
				accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
