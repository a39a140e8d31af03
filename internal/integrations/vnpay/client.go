package vnpay

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config настройки платежного шлюза
type Config struct {
	TmnCode       string
	HashSecret    string
	PayURL        string
	ReturnURL     string
	ExpireMinutes int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client адаптер платежного шлюза VNPay: построение подписанных
// checkout-URL и проверка входящих callback'ов (return + IPN)
type Client struct {
	cfg Config
	log Logger
	now func() time.Time
}

// NewClient создает новый экземпляр адаптера VNPay
func NewClient(cfg Config, log Logger) *Client {
	return &Client{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// BuildCheckoutURL строит подписанный платежный URL.
// Подпись и hash-тип добавляются в конец query после канонической формы.
func (c *Client) BuildCheckoutURL(req CheckoutRequest) (*Checkout, error) {
	if req.Amount <= 0 {
		return nil, ErrEmptyAmount
	}

	createAt := c.now()
	expireAt := createAt.Add(time.Duration(c.cfg.ExpireMinutes) * time.Minute)

	params := map[string]string{
		paramVersion:    valueVersion,
		paramCommand:    valueCommand,
		paramTmnCode:    c.cfg.TmnCode,
		paramLocale:     valueLocale,
		paramCurrCode:   valueCurrCode,
		paramTxnRef:     req.TxnRef,
		paramOrderInfo:  req.OrderInfo,
		paramOrderType:  valueOrderType,
		// Шлюз принимает сумму в минорных единицах
		paramAmount:     strconv.FormatInt(req.Amount*100, 10),
		paramReturnURL:  c.cfg.ReturnURL,
		paramIPAddr:     req.ClientIP,
		paramCreateDate: createAt.Format(dateFormat),
		paramExpireDate: expireAt.Format(dateFormat),
	}

	if req.BankCode != nil && *req.BankCode != "" {
		params[paramBankCode] = *req.BankCode
	}

	signData, hash := SignParams(params, c.cfg.HashSecret)

	url := fmt.Sprintf("%s?%s&%s=%s&%s=%s",
		c.cfg.PayURL, signData, paramHashType, valueHashType, paramSecureHash, hash)

	return &Checkout{
		URL:      url,
		CreateAt: params[paramCreateDate],
		ExpireAt: params[paramExpireDate],
		SignData: signData,
	}, nil
}

// VerifyCallback проверяет подпись callback'а и разбирает его поля.
// Не возвращает ошибку: решение о судьбе транзакции принимает
// reconciliation usecase по флагу IsValid.
func (c *Client) VerifyCallback(params map[string]string) *CallbackData {
	data := &CallbackData{
		IsValid:       VerifyParams(params, c.cfg.HashSecret),
		TxnRef:        params[paramTxnRef],
		ResponseCode:  params[paramResponseCode],
		TransactionNo: params["vnp_TransactionNo"],
		BankCode:      params[paramBankCode],
		Amount:        params[paramAmount],
		PayDate:       params["vnp_PayDate"],
		Raw:           params,
	}

	if !data.IsValid {
		// Сырую подпись в логи не пишем
		c.log.Warn("VerifyCallback: signature mismatch for txnRef=%s", data.TxnRef)
	}

	return data
}

// ParseTxnRef разбирает ссылку заказа "<invoiceID>-<transactionID>"
func ParseTxnRef(ref string) (invoiceID, transactionID int64, err error) {
	parts := strings.SplitN(ref, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTxnRef, ref)
	}

	invoiceID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invoice part of %q", ErrInvalidTxnRef, ref)
	}

	transactionID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: transaction part of %q", ErrInvalidTxnRef, ref)
	}

	return invoiceID, transactionID, nil
}
