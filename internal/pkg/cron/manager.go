package cron

import (
	log "log/slog"

	"courtyard/internal/job"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine             *cron.Cron
	adExpiryJob        *job.AdExpiryJob
	metricBootstrapJob *job.MetricBootstrapJob
}

func NewCronManager(adExpiryJob *job.AdExpiryJob, metricBootstrapJob *job.MetricBootstrapJob) *Manager {
	return &Manager{
		engine:             cron.New(cron.WithSeconds()),
		adExpiryJob:        adExpiryJob,
		metricBootstrapJob: metricBootstrapJob,
	}
}

func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@daily", s.adExpiryJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.metricBootstrapJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("cron engine started")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("cron engine stopped")
	s.engine.Stop()
}
