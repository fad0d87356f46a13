package handler

import (
	"time"

	"courtyard/internal/pkg/response"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricHandler struct {
	metricSvc *service.MetricService
}

func NewMetricHandler(metricSvc *service.MetricService) *MetricHandler {
	return &MetricHandler{metricSvc: metricSvc}
}

func (s *MetricHandler) Today(c *gin.Context) {
	metric, err := s.metricSvc.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, metric)
}

// Range reports counters between two YYYY-MM-DD dates inclusive.
func (s *MetricHandler) Range(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	metrics, err := s.metricSvc.Range(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, metrics)
}
