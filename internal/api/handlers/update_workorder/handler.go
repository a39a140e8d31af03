package update_workorder

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	workordersService "github.com/m04kA/SMC-MaintenanceService/internal/service/workorders"
	"github.com/m04kA/SMC-MaintenanceService/internal/service/workorders/models"
)

const (
	msgInvalidWorkOrderID   = "некорректный ID заказ-наряда"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgWorkOrderNotFound    = "заказ-наряд не найден"
	msgAccessDenied         = "нет доступа к заказ-наряду"
	msgInvalidTransition    = "недопустимый переход статуса"
	msgReassignmentLocked   = "переназначить механика можно только до начала работ"
	msgTechnicianOverloaded = "у механика слишком много активных заказ-нарядов"
	msgNotTechnician        = "указанный аккаунт не является механиком"
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

// Handle PATCH /api/v1/workorders/{workOrderId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	workOrderID, err := strconv.ParseInt(vars["workOrderId"], 10, 64)
	if err != nil || workOrderID <= 0 {
		h.logger.Warn("PATCH /workorders/{id} - Invalid work order ID: %s", vars["workOrderId"])
		handlers.RespondBadRequest(w, msgInvalidWorkOrderID)
		return
	}

	var req models.UpdateWorkOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /workorders/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), workOrderID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, workordersService.ErrWorkOrderNotFound):
			h.logger.Warn("PATCH /workorders/{id} - Work order not found: work_order_id=%d", workOrderID)
			handlers.RespondNotFound(w, msgWorkOrderNotFound)

		case errors.Is(err, workordersService.ErrAccessDenied):
			h.logger.Warn("PATCH /workorders/{id} - Access denied: work_order_id=%d, caller_id=%d",
				workOrderID, callerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, workordersService.ErrInvalidTransition):
			h.logger.Warn("PATCH /workorders/{id} - Invalid status transition: work_order_id=%d", workOrderID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, workordersService.ErrReassignmentLocked):
			h.logger.Warn("PATCH /workorders/{id} - Reassignment locked: work_order_id=%d", workOrderID)
			handlers.RespondError(w, http.StatusConflict, msgReassignmentLocked)

		case errors.Is(err, workordersService.ErrTechnicianOverloaded):
			h.logger.Warn("PATCH /workorders/{id} - Technician overloaded: work_order_id=%d", workOrderID)
			handlers.RespondError(w, http.StatusConflict, msgTechnicianOverloaded)

		case errors.Is(err, workordersService.ErrNotTechnician):
			h.logger.Warn("PATCH /workorders/{id} - Not technician: work_order_id=%d", workOrderID)
			handlers.RespondBadRequest(w, msgNotTechnician)

		case errors.Is(err, workordersService.ErrInvalidInput):
			h.logger.Warn("PATCH /workorders/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /workorders/{id} - Failed to update: work_order_id=%d, error=%v",
				workOrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /workorders/{id} - Work order updated: work_order_id=%d, caller_id=%d",
		workOrderID, callerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
