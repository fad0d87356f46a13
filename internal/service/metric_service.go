package service

import (
	"context"
	"time"

	"courtyard/internal/model"
	"courtyard/internal/repository"
)

// MetricService reads the daily usage counters for the reporting surface.
type MetricService struct {
	metricRepo repository.MetricRepo
}

func NewMetricService(metricRepo repository.MetricRepo) *MetricService {
	return &MetricService{metricRepo: metricRepo}
}

// Today returns the current day's counters, zero-valued when nothing has
// happened yet.
func (s *MetricService) Today(ctx context.Context) (*model.Metric, error) {
	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	metric, err := s.metricRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, ErrPersistence
	}
	if metric == nil {
		metric = &model.Metric{Date: date}
	}
	return metric, nil
}

// EnsureToday makes sure the current day's counter row exists.
func (s *MetricService) EnsureToday(ctx context.Context) error {
	if err := s.metricRepo.EnsureDate(ctx); err != nil {
		return ErrPersistence
	}
	return nil
}

// Range returns counters between two dates inclusive.
func (s *MetricService) Range(ctx context.Context, from, to time.Time) ([]*model.Metric, error) {
	if to.Before(from) {
		return nil, ErrParamInvalid
	}
	metrics, err := s.metricRepo.GetRange(ctx, from, to)
	if err != nil {
		return nil, ErrPersistence
	}
	return metrics, nil
}
