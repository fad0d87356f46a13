package job

import (
	"context"
	log "log/slog"

	"courtyard/internal/pkg/logger"
	"courtyard/internal/service"

	"github.com/google/uuid"
)

// MetricBootstrapJob creates the counter row for the new day so reports
// read a real row even before the first event.
type MetricBootstrapJob struct {
	metricSvc *service.MetricService
}

func NewMetricBootstrapJob(metricSvc *service.MetricService) *MetricBootstrapJob {
	return &MetricBootstrapJob{metricSvc: metricSvc}
}

func (s *MetricBootstrapJob) Run() {
	traceID := "job-metric-bootstrap-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	if err := s.metricSvc.EnsureToday(ctx); err != nil {
		log.ErrorContext(ctx, "metric bootstrap failed", "err", err)
		return
	}
	log.InfoContext(ctx, "metric row ensured for today")
}
