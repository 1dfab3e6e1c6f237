package worker

import (
	"github.com/spec-kit/blood-donation-service/internal/service"
)

// StartActivityWorker registers the lifecycle activity log handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
