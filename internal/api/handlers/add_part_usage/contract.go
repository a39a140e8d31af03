package add_part_usage

import (
	"context"

	"github.com/m04kA/SMC-MaintenanceService/internal/service/workorders/models"
)

type WorkOrdersService interface {
	AddPart(ctx context.Context, workOrderID int64, callerID int64, req *models.AddPartRequest) (*models.PartUsageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
