package get_workorder

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/service/workorders/models"
)

type WorkOrdersService interface {
	GetByID(ctx context.Context, id int64, callerID int64) (*models.WorkOrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
