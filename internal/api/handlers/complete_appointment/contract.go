package complete_appointment

import "context"

type AppointmentsService interface {
	Complete(ctx context.Context, id int64, staffID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
