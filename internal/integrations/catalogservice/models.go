package catalogservice

// Service модель услуги из каталога
type Service struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// StandardCost стандартная стоимость услуги в целых единицах валюты
	StandardCost float64 `json:"standard_cost"`
	Active       bool    `json:"active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
