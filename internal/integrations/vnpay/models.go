package vnpay

import "time"

// Параметры протокола VNPay (v2.1.0)
const (
	paramVersion      = "vnp_Version"
	paramCommand      = "vnp_Command"
	paramTmnCode      = "vnp_TmnCode"
	paramAmount       = "vnp_Amount"
	paramBankCode     = "vnp_BankCode"
	paramCreateDate   = "vnp_CreateDate"
	paramExpireDate   = "vnp_ExpireDate"
	paramCurrCode     = "vnp_CurrCode"
	paramIPAddr       = "vnp_IpAddr"
	paramLocale       = "vnp_Locale"
	paramOrderInfo    = "vnp_OrderInfo"
	paramOrderType    = "vnp_OrderType"
	paramReturnURL    = "vnp_ReturnUrl"
	paramTxnRef       = "vnp_TxnRef"
	paramSecureHash   = "vnp_SecureHash"
	paramHashType     = "vnp_SecureHashType"
	paramResponseCode = "vnp_ResponseCode"

	valueVersion   = "2.1.0"
	valueCommand   = "pay"
	valueCurrCode  = "VND"
	valueLocale    = "vn"
	valueOrderType = "other"
	valueHashType  = "HMACSHA512"
)

// ResponseCodeSuccess код успешной оплаты в callback'ах шлюза
const ResponseCodeSuccess = "00"

// Формат дат шлюза: yyyyMMddHHmmss
const dateFormat = "20060102150405"

// CheckoutRequest параметры построения платежного URL
type CheckoutRequest struct {
	// TxnRef ссылка заказа "<invoiceID>-<transactionID>"
	TxnRef    string
	OrderInfo string
	// Amount в целых единицах валюты; шлюз получает минорные единицы (x100)
	Amount   int64
	BankCode *string
	ClientIP string
}

// Checkout результат построения платежного URL
type Checkout struct {
	URL      string
	CreateAt string
	ExpireAt string
	SignData string
}

// ExpireTime разбирает ExpireAt обратно в time.Time
func (c *Checkout) ExpireTime() (time.Time, error) {
	return time.ParseInLocation(dateFormat, c.ExpireAt, time.Local)
}

// CallbackData разобранный и проверенный callback шлюза.
// IsValid = false означает несовпадение подписи; остальные поля
// при этом заполнены из сырых параметров и пригодны только для логов.
type CallbackData struct {
	IsValid       bool
	TxnRef        string
	ResponseCode  string
	TransactionNo string
	BankCode      string
	// Amount в минорных единицах, как прислал шлюз
	Amount  string
	PayDate string
	Raw     map[string]string
}

// IsSuccess возвращает true для успешного кода ответа шлюза
func (d *CallbackData) IsSuccess() bool {
	return d.ResponseCode == ResponseCodeSuccess
}
