package delete_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	slotsService "github.com/m04kA/SMC-MaintenanceService/internal/service/slots"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgSlotNotFound  = "слот не найден"
	msgSlotInUse     = "слот содержит активные записи"
	msgAccessDenied  = "удалять слоты может только сотрудник"
)

type Handler struct {
	service SlotsService
	logger  Logger
}

func NewHandler(service SlotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("DELETE /slots/{id} - Invalid slot ID: %s", vars["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), slotID, staffID); err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("DELETE /slots/{id} - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotsService.ErrSlotInUse):
			h.logger.Warn("DELETE /slots/{id} - Slot has active appointments: slot_id=%d", slotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotInUse)

		case errors.Is(err, slotsService.ErrAccessDenied):
			h.logger.Warn("DELETE /slots/{id} - Access denied: slot_id=%d, staff_id=%d", slotID, staffID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /slots/{id} - Failed to delete: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/{id} - Slot deleted: slot_id=%d, staff_id=%d", slotID, staffID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
