package cancel_appointment

import "context"

type AppointmentsService interface {
	Cancel(ctx context.Context, id int64, callerID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
