package add_part_usage

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
	msgInvalidWorkOrderID = "некорректный ID заказ-наряда"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgWorkOrderNotFound  = "заказ-наряд не найден"
	msgPartNotFound       = "запчасть не найдена"
	msgInsufficientStock  = "недостаточно запчастей на складе"
	msgWorkOrderClosed    = "заказ-наряд закрыт, списание невозможно"
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

// Handle POST /api/v1/workorders/{workOrderId}/parts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	workOrderID, err := strconv.ParseInt(vars["workOrderId"], 10, 64)
	if err != nil || workOrderID <= 0 {
		h.logger.Warn("POST /workorders/{id}/parts - Invalid work order ID: %s", vars["workOrderId"])
		handlers.RespondBadRequest(w, msgInvalidWorkOrderID)
		return
	}

	var req models.AddPartRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /workorders/{id}/parts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddPart(r.Context(), workOrderID, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, workordersService.ErrWorkOrderNotFound):
			h.logger.Warn("POST /workorders/{id}/parts - Work order not found: work_order_id=%d", workOrderID)
			handlers.RespondNotFound(w, msgWorkOrderNotFound)

		case errors.Is(err, workordersService.ErrPartNotFound):
			h.logger.Warn("POST /workorders/{id}/parts - Part not found: work_order_id=%d, part_id=%d",
				workOrderID, req.PartID)
			handlers.RespondNotFound(w, msgPartNotFound)

		case errors.Is(err, workordersService.ErrInsufficientStock):
			h.logger.Warn("POST /workorders/{id}/parts - Insufficient stock: part_id=%d, quantity=%d",
				req.PartID, req.Quantity)
			handlers.RespondError(w, http.StatusConflict, msgInsufficientStock)

		case errors.Is(err, workordersService.ErrWorkOrderClosed):
			h.logger.Warn("POST /workorders/{id}/parts - Work order closed: work_order_id=%d", workOrderID)
			handlers.RespondError(w, http.StatusConflict, msgWorkOrderClosed)

		case errors.Is(err, workordersService.ErrAccessDenied):
			h.logger.Warn("POST /workorders/{id}/parts - Access denied: work_order_id=%d, caller_id=%d",
				workOrderID, callerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, workordersService.ErrInvalidInput):
			h.logger.Warn("POST /workorders/{id}/parts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /workorders/{id}/parts - Failed to add part: work_order_id=%d, error=%v",
				workOrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /workorders/{id}/parts - Part added: work_order_id=%d, part_id=%d, quantity=%d",
		workOrderID, req.PartID, req.Quantity)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
