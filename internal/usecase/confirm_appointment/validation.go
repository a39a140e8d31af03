package confirm_appointment

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.TechnicianID != nil && *req.TechnicianID <= 0 {
		return fmt.Errorf("%w: technicianID must be positive", ErrInvalidInput)
	}

	return nil
}
