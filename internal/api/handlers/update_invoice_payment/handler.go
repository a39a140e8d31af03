package update_invoice_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	invoicesService "github.com/m04kA/SMC-MaintenanceService/internal/service/invoices"
)

const (
	msgInvalidInvoiceID   = "некорректный ID счета"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvoiceNotFound    = "счет не найден"
	msgAccessDenied       = "менять статус оплаты может только сотрудник"
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

// Handle PATCH /api/v1/invoices/{invoiceId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	invoiceID, err := strconv.ParseInt(vars["invoiceId"], 10, 64)
	if err != nil || invoiceID <= 0 {
		h.logger.Warn("PATCH /invoices/{id}/payment - Invalid invoice ID: %s", vars["invoiceId"])
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return
	}

	var req UpdatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /invoices/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetPaymentStatus(r.Context(), invoiceID, staffID, req.Paid)
	if err != nil {
		switch {
		case errors.Is(err, invoicesService.ErrInvoiceNotFound):
			h.logger.Warn("PATCH /invoices/{id}/payment - Invoice not found: invoice_id=%d", invoiceID)
			handlers.RespondNotFound(w, msgInvoiceNotFound)

		case errors.Is(err, invoicesService.ErrAccessDenied):
			h.logger.Warn("PATCH /invoices/{id}/payment - Access denied: invoice_id=%d, staff_id=%d",
				invoiceID, staffID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("PATCH /invoices/{id}/payment - Failed to update payment status: invoice_id=%d, error=%v",
				invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /invoices/{id}/payment - Payment status updated: invoice_id=%d, paid=%t, staff_id=%d",
		invoiceID, req.Paid, staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
