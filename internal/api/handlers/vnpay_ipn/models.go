package vnpay_ipn

// IPNResponse ответ шлюзу в формате VNPay
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// Коды ответа IPN протокола VNPay
const (
	codeSuccess          = "00"
	codeOrderNotFound    = "01"
	codeAlreadyConfirmed = "02"
	codeAmountMismatch   = "04"
	codeInvalidSignature = "97"
	codeUnknownError     = "99"
)
