// Package scheduler publishes periodic sync requests. It never runs a pass
// itself; the consumer owns execution and serialisation.
package scheduler

import (
	"context"
	"fmt"

	"tg-content-bot/internal/pkg/logger"
	"tg-content-bot/internal/service"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron      *cron.Cron
	publisher service.IPublisherService
	spec      string
	log       logger.ILogger
}

// New accepts a cron spec like "@every 10m" or "0 */6 * * *".
func New(spec string, publisher service.IPublisherService, log logger.ILogger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		publisher: publisher,
		spec:      spec,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.publisher.RequestSync(context.Background(), "scheduled"); err != nil {
			s.log.Error("scheduler", "Failed to publish sync request", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info("scheduler", "Sync schedule registered", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop halts scheduling; a pass already handed to the consumer still runs
// to completion.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
