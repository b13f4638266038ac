package cleanup

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type UndoSweeper interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type SessionSweeper interface {
	EndStale(ctx context.Context) (int64, error)
}

// Job sweeps expired undo slots and stale swipe sessions. Each sweep is one
// store call; correctness never depends on the sweep because undo checks
// expiry itself and session reads treat idle sessions as absent.
type Job struct {
	undo     UndoSweeper
	sessions SessionSweeper
	logger   *zap.Logger
}

func New(undo UndoSweeper, sessions SessionSweeper, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		undo:     undo,
		sessions: sessions,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.undo != nil {
		removed, err := j.undo.CleanupExpired(ctx)
		if err != nil {
			return fmt.Errorf("sweep expired undo slots: %w", err)
		}
		if removed > 0 {
			j.logger.Info("swept expired undo slots", zap.Int64("removed", removed))
		}
	}

	if j.sessions != nil {
		ended, err := j.sessions.EndStale(ctx)
		if err != nil {
			return fmt.Errorf("sweep stale swipe sessions: %w", err)
		}
		if ended > 0 {
			j.logger.Info("completed stale swipe sessions", zap.Int64("ended", ended))
		}
	}

	return nil
}
