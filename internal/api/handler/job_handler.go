package handler

import (
	"courtyard/internal/pkg/response"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
)

// JobHandler exposes the scheduled maintenance work to external
// schedulers. The same sweeps also run on the in-process cron engine;
// this surface exists for deployments that drive them from outside.
type JobHandler struct {
	adSvc *service.AdService
}

func NewJobHandler(adSvc *service.AdService) *JobHandler {
	return &JobHandler{adSvc: adSvc}
}

// SweepExpiredAds deactivates listings past the expiry window.
func (s *JobHandler) SweepExpiredAds(c *gin.Context) {
	count, err := s.adSvc.SweepExpired(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deactivated": count})
}
