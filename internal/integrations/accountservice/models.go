package accountservice

// Роли аккаунтов в AccountService
const (
	RoleCustomer   = "customer"
	RoleStaff      = "staff"
	RoleTechnician = "technician"
)

// Account модель аккаунта из AccountService
type Account struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// IsStaff возвращает true для сотрудников сервиса
func (a *Account) IsStaff() bool {
	return a.Role == RoleStaff
}

// IsTechnician возвращает true для механиков
func (a *Account) IsTechnician() bool {
	return a.Role == RoleTechnician
}

// ErrorResponse модель ошибки от AccountService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
