package get_invoice

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
	msgAccessDenied     = "нет доступа к счету"
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

// Handle GET /api/v1/invoices/{invoiceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	invoiceID, err := strconv.ParseInt(vars["invoiceId"], 10, 64)
	if err != nil || invoiceID <= 0 {
		h.logger.Warn("GET /invoices/{id} - Invalid invoice ID: %s", vars["invoiceId"])
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return
	}

	result, err := h.service.GetByID(r.Context(), invoiceID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, invoicesService.ErrInvoiceNotFound):
			h.logger.Warn("GET /invoices/{id} - Invoice not found: invoice_id=%d", invoiceID)
			handlers.RespondNotFound(w, msgInvoiceNotFound)

		case errors.Is(err, invoicesService.ErrAccessDenied):
			h.logger.Warn("GET /invoices/{id} - Access denied: invoice_id=%d, caller_id=%d", invoiceID, callerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /invoices/{id} - Failed to get invoice: invoice_id=%d, error=%v", invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /invoices/{id} - Invoice retrieved: invoice_id=%d", invoiceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
