package vnpay_ipn

import (
	"net/http"

	"github.com/m04kA/SMC-MaintenanceService/internal/api/handlers"
	paymentCallback "github.com/m04kA/SMC-MaintenanceService/internal/usecase/payment_callback"
)

// Handler обрабатывает server-to-server IPN уведомление шлюза.
// Протокол VNPay: всегда HTTP 200, исход в RspCode.
type Handler struct {
	useCase PaymentCallbackUseCase
	logger  Logger
}

func NewHandler(useCase PaymentCallbackUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /payments/vnpay-ipn
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.useCase.Execute(r.Context(), &paymentCallback.Request{Params: params})
	if err != nil {
		h.logger.Error("GET /payments/vnpay-ipn - Reconciliation failed: error=%v", err)
		handlers.RespondJSON(w, http.StatusOK, IPNResponse{RspCode: codeUnknownError, Message: "Unknown error"})
		return
	}

	h.logger.Info("GET /payments/vnpay-ipn - Reconciled: outcome=%s, transaction_id=%d, invoice_id=%d",
		result.Outcome, result.TransactionID, result.InvoiceID)

	handlers.RespondJSON(w, http.StatusOK, toIPNResponse(result))
}

// toIPNResponse отображает исход сверки на код ответа IPN.
// Неуспешный платеж - тоже подтвержденное уведомление: мерчант
// принял информацию, шлюзу перепосылать нечего.
func toIPNResponse(result *paymentCallback.Result) IPNResponse {
	switch result.Outcome {
	case paymentCallback.OutcomeConfirmed, paymentCallback.OutcomeFailed:
		return IPNResponse{RspCode: codeSuccess, Message: "Confirm Success"}
	case paymentCallback.OutcomeNotFound:
		return IPNResponse{RspCode: codeOrderNotFound, Message: "Order not found"}
	case paymentCallback.OutcomeAlreadyResolved:
		return IPNResponse{RspCode: codeAlreadyConfirmed, Message: "Order already confirmed"}
	case paymentCallback.OutcomeAmountMismatch:
		return IPNResponse{RspCode: codeAmountMismatch, Message: "Invalid amount"}
	case paymentCallback.OutcomeInvalidSignature:
		return IPNResponse{RspCode: codeInvalidSignature, Message: "Invalid signature"}
	default:
		return IPNResponse{RspCode: codeUnknownError, Message: "Unknown error"}
	}
}
