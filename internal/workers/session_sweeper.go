// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package workers

import (
	"context"
	"time"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
)

// sessionSweeper periodically deletes expired session rows so that stale
// refresh tokens do not accumulate in the local store. Expiry is already
// enforced lazily on every refresh; the sweeper only reclaims rows that
// would otherwise never be touched again.
type sessionSweeper struct {
	sessionRepository store.SessionRepository
	interval          time.Duration

	stop chan struct{}
	done chan struct{}

	logger *logger.Logger
}

func newSessionSweeper(sessionRepository store.SessionRepository, interval time.Duration, logger *logger.Logger) *sessionSweeper {
	return &sessionSweeper{
		sessionRepository: sessionRepository,
		interval:          interval,
		stop:              make(chan struct{}),
		done:              make(chan struct{}),
		logger:            logger,
	}
}

func (s *sessionSweeper) Run() {
	go s.loop()
}

func (s *sessionSweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *sessionSweeper) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("session sweeper started")

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			s.logger.Info().Msg("session sweeper stopped")
			return
		}
	}
}

func (s *sessionSweeper) sweep() {
	ctx := s.logger.WithContext(context.Background())

	deleted, err := s.sessionRepository.DeleteExpiredSessions(ctx)
	if err != nil {
		s.logger.Err(err).Msg("sweeping expired sessions failed")
		return
	}

	if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Msg("expired sessions swept")
	}
}
