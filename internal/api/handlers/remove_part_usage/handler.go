package remove_part_usage

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	workordersService "github.com/m04kA/SMC-MaintenanceService/internal/service/workorders"
)

const (
	msgInvalidWorkOrderID = "некорректный ID заказ-наряда"
	msgInvalidUsageID     = "некорректный ID списания"
	msgWorkOrderNotFound  = "заказ-наряд не найден"
	msgUsageNotFound      = "списание не найдено"
	msgWorkOrderClosed    = "заказ-наряд закрыт, отмена списания невозможна"
	msgAccessDenied       = "нет доступа к заказ-наряду"
)

type Handler struct {
	service WorkOrdersService
	logger  Logger
}

func NewHandler(service WorkOrdersService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/workorders/{workOrderId}/parts/{usageId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	workOrderID, err := strconv.ParseInt(vars["workOrderId"], 10, 64)
	if err != nil || workOrderID <= 0 {
		h.logger.Warn("DELETE /workorders/{id}/parts/{usageId} - Invalid work order ID: %s", vars["workOrderId"])
		handlers.RespondBadRequest(w, msgInvalidWorkOrderID)
		return
	}

	usageID, err := strconv.ParseInt(vars["usageId"], 10, 64)
	if err != nil || usageID <= 0 {
		h.logger.Warn("DELETE /workorders/{id}/parts/{usageId} - Invalid usage ID: %s", vars["usageId"])
		handlers.RespondBadRequest(w, msgInvalidUsageID)
		return
	}

	if err := h.service.RemovePart(r.Context(), workOrderID, usageID, callerID); err != nil {
		switch {
		case errors.Is(err, workordersService.ErrWorkOrderNotFound):
			h.logger.Warn("DELETE /workorders/{id}/parts/{usageId} - Work order not found: work_order_id=%d",
				workOrderID)
			handlers.RespondNotFound(w, msgWorkOrderNotFound)

		case errors.Is(err, workordersService.ErrPartUsageNotFound):
			h.logger.Warn("DELETE /workorders/{id}/parts/{usageId} - Usage not found: usage_id=%d", usageID)
			handlers.RespondNotFound(w, msgUsageNotFound)

		case errors.Is(err, workordersService.ErrWorkOrderClosed):
			h.logger.Warn("DELETE /workorders/{id}/parts/{usageId} - Work order closed: work_order_id=%d",
				workOrderID)
			handlers.RespondError(w, http.StatusConflict, msgWorkOrderClosed)

		case errors.Is(err, workordersService.ErrAccessDenied):
			h.logger.Warn("DELETE /workorders/{id}/parts/{usageId} - Access denied: work_order_id=%d, caller_id=%d",
				workOrderID, callerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /workorders/{id}/parts/{usageId} - Failed to remove part: usage_id=%d, error=%v",
				usageID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /workorders/{id}/parts/{usageId} - Part usage removed: work_order_id=%d, usage_id=%d",
		workOrderID, usageID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
