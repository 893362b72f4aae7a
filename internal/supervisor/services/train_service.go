// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Trainer runs one training pipeline. It is satisfied by *recommend.Engine.
type Trainer interface {
	Train(ctx context.Context) error
}

// TrainService retrains on a fixed interval.
//
// Runs go through the same single-flight guard as POST /train, so a tick
// that lands while a manual run is in flight is skipped, not queued.
type TrainService struct {
	trainer  Trainer
	interval time.Duration
	isBusy   func(error) bool
	logger   zerolog.Logger
}

// NewTrainService creates the scheduler. isBusy reports whether a Train
// error means another run holds the lock; it may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainService(trainer Trainer, interval time.Duration, isBusy func(error) bool, logger zerolog.Logger) *TrainService {
	if isBusy == nil {
		isBusy = func(error) bool { return false }
	}
	return &TrainService{
		trainer:  trainer,
		interval: interval,
		isBusy:   isBusy,
		logger:   logger.With().Str("service", "training-scheduler").Logger(),
	}
}

// Serve implements suture.Service. Training failures are logged and never
// returned, a failed run must not make suture restart the scheduler.
func (s *TrainService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info().Msg("scheduled training disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().Dur("interval", s.interval).Msg("training scheduler running")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *TrainService) runOnce(ctx context.Context) {
	start := time.Now()
	err := s.trainer.Train(ctx)
	switch {
	case err == nil:
		s.logger.Info().Dur("duration", time.Since(start)).Msg("scheduled training complete")
	case s.isBusy(err):
		s.logger.Debug().Msg("scheduled training skipped, run already in progress")
	case errors.Is(err, context.Canceled):
		s.logger.Debug().Msg("scheduled training canceled")
	default:
		s.logger.Warn().Err(err).Msg("scheduled training failed")
	}
}

// String implements fmt.Stringer.
func (s *TrainService) String() string {
	return "training-scheduler"
}
