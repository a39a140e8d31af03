package create_checkout

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.InvoiceID <= 0 {
		return fmt.Errorf("%w: invoiceID must be positive", ErrInvalidInput)
	}

	if req.CallerID <= 0 {
		return fmt.Errorf("%w: callerID must be positive", ErrInvalidInput)
	}

	if req.Method == "" {
		return fmt.Errorf("%w: method is required", ErrInvalidInput)
	}

	return nil
}
