package payment_callback

// Outcome исход сверки callback'а со шлюзом
type Outcome string

const (
	// OutcomeConfirmed платеж успешен, транзакция и счет закрыты
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeFailed шлюз сообщил о неуспехе, транзакция закрыта как failed
	OutcomeFailed Outcome = "failed"
	// OutcomeAlreadyResolved транзакция уже была в терминальном статусе
	OutcomeAlreadyResolved Outcome = "already_resolved"
	// OutcomeNotFound транзакция не найдена или ссылка заказа не разобрана
	OutcomeNotFound Outcome = "not_found"
	// OutcomeAmountMismatch сумма callback'а не совпала с суммой транзакции
	OutcomeAmountMismatch Outcome = "amount_mismatch"
	// OutcomeInvalidSignature подпись callback'а не прошла проверку
	OutcomeInvalidSignature Outcome = "invalid_signature"
)

// Request модель запроса сверки: сырые query-параметры callback'а
type Request struct {
	Params map[string]string
}

// Result исход сверки.
// Состояние БД меняется только при Confirmed и Failed.
type Result struct {
	Outcome       Outcome
	TransactionID int64 // 0, если ссылка заказа не разобрана
	InvoiceID     int64 // 0, если ссылка заказа не разобрана
	// PaymentSuccess = true только при Outcome = Confirmed, либо
	// AlreadyResolved по успешной транзакции
	PaymentSuccess bool
}
