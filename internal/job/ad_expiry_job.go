package job

import (
	"context"
	log "log/slog"
	"time"

	"courtyard/internal/pkg/consts"
	"courtyard/internal/pkg/logger"
	"courtyard/internal/pkg/redis"
	"courtyard/internal/service"

	"github.com/google/uuid"
)

// AdExpiryJob deactivates listings that outlived the configured window.
type AdExpiryJob struct {
	adSvc *service.AdService
}

func NewAdExpiryJob(adSvc *service.AdService) *AdExpiryJob {
	return &AdExpiryJob{adSvc: adSvc}
}

func (s *AdExpiryJob) Run() {
	traceID := "job-ad-expiry-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// One instance sweeps at a time.
	locked, err := redis.TryLock(ctx, consts.AdExpiryLockKey, traceID, 10*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "ad expiry lock failed", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "ad expiry sweep already running elsewhere, skipping")
		return
	}
	defer redis.UnLock(ctx, consts.AdExpiryLockKey, traceID)

	count, err := s.adSvc.SweepExpired(ctx)
	if err != nil {
		log.ErrorContext(ctx, "ad expiry sweep failed", "err", err)
		return
	}
	log.InfoContext(ctx, "ad expiry sweep finished", "deactivated", count)
}
