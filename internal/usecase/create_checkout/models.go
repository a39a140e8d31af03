package create_checkout

import "time"

// Request модель запроса на создание платежной сессии
type Request struct {
	InvoiceID int64   // ID счета
	CallerID  int64   // ID вызывающего (владелец записи или сотрудник)
	Method    string  // Способ оплаты: banking | card
	BankCode  *string // Код банка (опционально)
	ClientIP  string  // IP клиента для шлюза
}

// Response модель ответа с платежной сессией
type Response struct {
	TransactionID int64     // ID платежной транзакции
	InvoiceID     int64     // ID счета
	Amount        int64     // Сумма в целых единицах валюты
	Method        string    // Нормализованный способ оплаты
	CheckoutURL   string    // Подписанный URL оплаты
	ExpiresAt     time.Time // Срок действия платежной сессии
	Reused        bool      // true, если переиспользована существующая pending-транзакция
}
