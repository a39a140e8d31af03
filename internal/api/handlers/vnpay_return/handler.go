package vnpay_return

import (
	"net/http"

	paymentCallback "github.com/m04kA/SMC-MaintenanceService/internal/usecase/payment_callback"
)

// Handler обрабатывает browser-redirect шлюза после оплаты.
// Пользователь всегда уезжает на страницу результата: состояние
// уже выверено (или будет выверено IPN'ом), ошибок наружу нет.
type Handler struct {
	useCase    PaymentCallbackUseCase
	successURL string
	failURL    string
	logger     Logger
}

func NewHandler(useCase PaymentCallbackUseCase, successURL, failURL string, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		successURL: successURL,
		failURL:    failURL,
		logger:     logger,
	}
}

// Handle GET /payments/vnpay-return
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.useCase.Execute(r.Context(), &paymentCallback.Request{Params: params})
	if err != nil {
		h.logger.Error("GET /payments/vnpay-return - Reconciliation failed: error=%v", err)
		http.Redirect(w, r, h.failURL, http.StatusFound)
		return
	}

	h.logger.Info("GET /payments/vnpay-return - Reconciled: outcome=%s, transaction_id=%d, invoice_id=%d",
		result.Outcome, result.TransactionID, result.InvoiceID)

	if result.PaymentSuccess {
		http.Redirect(w, r, h.successURL, http.StatusFound)
		return
	}
	http.Redirect(w, r, h.failURL, http.StatusFound)
}
