// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/onews-go/internal/content"
)

// rewarmTimeout bounds one re-warm pass.
const rewarmTimeout = 30 * time.Second

// Scheduler runs periodic maintenance jobs, currently a cache re-warm that
// keeps the public read path hot after invalidations.
type Scheduler struct {
	repo   content.Repository
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(repo content.Repository, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduler with a cache re-warm job every five minutes.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("*/5 * * * *", func() {
		if err := s.rewarmCache(); err != nil {
			s.logger.Error("cache re-warm failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// rewarmCache touches the public list so that when the repository is cached,
// the next visitor gets a warm snapshot instead of paying for the recompute.
func (s *Scheduler) rewarmCache() error {
	ctx, cancel := context.WithTimeout(context.Background(), rewarmTimeout)
	defer cancel()

	posts, err := s.repo.FindAllPublic(ctx)
	if err != nil {
		return err
	}

	s.logger.Debug("cache re-warm complete", "published_posts", len(posts))
	return nil
}
