package get_workorder

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
	msgWorkOrderNotFound  = "заказ-наряд не найден"
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

// Handle GET /api/v1/workorders/{workOrderId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	workOrderID, err := strconv.ParseInt(vars["workOrderId"], 10, 64)
	if err != nil || workOrderID <= 0 {
		h.logger.Warn("GET /workorders/{id} - Invalid work order ID: %s", vars["workOrderId"])
		handlers.RespondBadRequest(w, msgInvalidWorkOrderID)
		return
	}

	result, err := h.service.GetByID(r.Context(), workOrderID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, workordersService.ErrWorkOrderNotFound):
			h.logger.Warn("GET /workorders/{id} - Work order not found: work_order_id=%d", workOrderID)
			handlers.RespondNotFound(w, msgWorkOrderNotFound)

		case errors.Is(err, workordersService.ErrAccessDenied):
			h.logger.Warn("GET /workorders/{id} - Access denied: work_order_id=%d, caller_id=%d",
				workOrderID, callerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /workorders/{id} - Failed to get work order: work_order_id=%d, error=%v",
				workOrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workorders/{id} - Work order retrieved: work_order_id=%d", workOrderID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
