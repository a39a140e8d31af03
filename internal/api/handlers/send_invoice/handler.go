package send_invoice

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
	msgInvalidInvoiceID = "некорректный ID счета"
	msgInvoiceNotFound  = "счет не найден"
	msgAccessDenied     = "отправлять счета может только сотрудник"
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

// Handle POST /api/v1/invoices/{invoiceId}/send
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	invoiceID, err := strconv.ParseInt(vars["invoiceId"], 10, 64)
	if err != nil || invoiceID <= 0 {
		h.logger.Warn("POST /invoices/{id}/send - Invalid invoice ID: %s", vars["invoiceId"])
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return
	}

	result, err := h.service.SendToCustomer(r.Context(), invoiceID, staffID)
	if err != nil {
		switch {
		case errors.Is(err, invoicesService.ErrInvoiceNotFound):
			h.logger.Warn("POST /invoices/{id}/send - Invoice not found: invoice_id=%d", invoiceID)
			handlers.RespondNotFound(w, msgInvoiceNotFound)

		case errors.Is(err, invoicesService.ErrAccessDenied):
			h.logger.Warn("POST /invoices/{id}/send - Access denied: invoice_id=%d, staff_id=%d", invoiceID, staffID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("POST /invoices/{id}/send - Failed to send invoice: invoice_id=%d, error=%v",
				invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /invoices/{id}/send - Invoice sent to customer: invoice_id=%d, staff_id=%d",
		invoiceID, staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
