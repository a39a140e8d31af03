package remove_part_usage

import "context"

type WorkOrdersService interface {
	RemovePart(ctx context.Context, workOrderID, usageID int64, callerID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
