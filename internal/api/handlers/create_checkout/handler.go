package create_checkout

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	createCheckout "github.com/m04kA/SMC-MaintenanceService/internal/usecase/create_checkout"
)

const (
	msgInvalidInvoiceID   = "некорректный ID счета"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvoiceNotFound    = "счет не найден"
	msgInvoiceAlreadyPaid = "счет уже оплачен"
	msgInvalidMethod      = "неизвестный способ оплаты"
	msgAccessDenied       = "нет доступа к счету"
)

type Handler struct {
	useCase CreateCheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CreateCheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/invoices/{invoiceId}/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	invoiceID, err := strconv.ParseInt(vars["invoiceId"], 10, 64)
	if err != nil || invoiceID <= 0 {
		h.logger.Warn("POST /invoices/{id}/checkout - Invalid invoice ID: %s", vars["invoiceId"])
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return
	}

	var req CreateCheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /invoices/{id}/checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(invoiceID, callerID, clientIP(r)))
	if err != nil {
		switch {
		case errors.Is(err, createCheckout.ErrInvoiceNotFound):
			h.logger.Warn("POST /invoices/{id}/checkout - Invoice not found: invoice_id=%d", invoiceID)
			handlers.RespondNotFound(w, msgInvoiceNotFound)

		case errors.Is(err, createCheckout.ErrInvoiceAlreadyPaid):
			h.logger.Warn("POST /invoices/{id}/checkout - Invoice already paid: invoice_id=%d", invoiceID)
			handlers.RespondError(w, http.StatusConflict, msgInvoiceAlreadyPaid)

		case errors.Is(err, createCheckout.ErrInvalidMethod):
			h.logger.Warn("POST /invoices/{id}/checkout - Invalid method: method=%s", req.Method)
			handlers.RespondBadRequest(w, msgInvalidMethod)

		case errors.Is(err, createCheckout.ErrAccessDenied):
			h.logger.Warn("POST /invoices/{id}/checkout - Access denied: invoice_id=%d, caller_id=%d",
				invoiceID, callerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, createCheckout.ErrInvalidInput):
			h.logger.Warn("POST /invoices/{id}/checkout - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /invoices/{id}/checkout - Failed to create checkout: invoice_id=%d, error=%v",
				invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /invoices/{id}/checkout - Checkout created: invoice_id=%d, transaction_id=%d, reused=%t",
		invoiceID, result.TransactionID, result.Reused)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// clientIP извлекает IP клиента для передачи шлюзу
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// Первый адрес в цепочке - исходный клиент
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
