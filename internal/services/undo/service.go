package undo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrUndoUnavailable = errors.New("no swipe to undo")
	ErrUndoExpired     = errors.New("undo window expired")
)

type UndoStore interface {
	Save(ctx context.Context, tx pgx.Tx, state model.UndoState) error
	GetByUser(ctx context.Context, userID int64) (model.UndoState, error)
	ClaimByUser(ctx context.Context, tx pgx.Tx, userID int64) (model.UndoState, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type SwipeStore interface {
	DeleteByID(ctx context.Context, tx pgx.Tx, swipeID int64) error
}

type MatchStore interface {
	DeleteByID(ctx context.Context, tx pgx.Tx, matchID int64) (bool, error)
}

type Config struct {
	Window time.Duration
}

// Status reports whether the user's last swipe is still revocable.
type Status struct {
	Available        bool                 `json:"available"`
	TargetUserID     int64                `json:"target_user_id,omitempty"`
	Direction        enums.SwipeDirection `json:"direction,omitempty"`
	SecondsRemaining float64              `json:"seconds_remaining"`
}

// Result describes what an undo reverted.
type Result struct {
	TargetUserID int64                `json:"target_user_id"`
	Direction    enums.SwipeDirection `json:"direction"`
	RemovedMatch bool                 `json:"removed_match"`
}

// Service holds a single undo slot per user: only the latest swipe can be
// taken back, within a short window, exactly once.
type Service struct {
	undoStore  UndoStore
	swipeStore SwipeStore
	matchStore MatchStore
	cfg        Config
	now        func() time.Time
	runTx      pgrepo.TxRunner
}

func NewService(runTx pgrepo.TxRunner, undoStore UndoStore, swipeStore SwipeStore, matchStore MatchStore, cfg Config) *Service {
	if cfg.Window <= 0 {
		cfg.Window = 30 * time.Second
	}

	return &Service{
		undoStore:  undoStore,
		swipeStore: swipeStore,
		matchStore: matchStore,
		cfg:        cfg,
		now:        time.Now,
		runTx:      runTx,
	}
}

func (s *Service) Window() time.Duration {
	return s.cfg.Window
}

// Record replaces the user's undo slot with the swipe just taken. Runs inside
// the swipe transaction so the slot and the swipe commit together.
func (s *Service) Record(ctx context.Context, tx pgx.Tx, swipe model.Swipe, matchID *int64) error {
	if swipe.ID <= 0 || swipe.ActorUserID <= 0 || swipe.TargetUserID <= 0 {
		return ErrValidation
	}
	if s.undoStore == nil {
		return fmt.Errorf("undo store is not configured")
	}

	return s.undoStore.Save(ctx, tx, model.UndoState{
		UserID:       swipe.ActorUserID,
		SwipeID:      swipe.ID,
		TargetUserID: swipe.TargetUserID,
		Direction:    swipe.Direction,
		MatchID:      matchID,
		ExpiresAt:    swipe.CreatedAt.Add(s.cfg.Window),
		CreatedAt:    swipe.CreatedAt,
	})
}

// GetStatus reports the current slot without consuming it.
func (s *Service) GetStatus(ctx context.Context, userID int64) (Status, error) {
	if userID <= 0 {
		return Status{}, ErrValidation
	}
	if s.undoStore == nil {
		return Status{}, fmt.Errorf("undo store is not configured")
	}

	state, err := s.undoStore.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUndoStateNotFound) {
			return Status{}, nil
		}
		return Status{}, err
	}

	now := s.now().UTC()
	if state.Expired(now) {
		return Status{}, nil
	}

	return Status{
		Available:        true,
		TargetUserID:     state.TargetUserID,
		Direction:        state.Direction,
		SecondsRemaining: state.ExpiresAt.Sub(now).Seconds(),
	}, nil
}

func (s *Service) CanUndo(ctx context.Context, userID int64) (bool, error) {
	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	return status.Available, nil
}

// Undo reverts the user's last swipe: the slot is claimed single-use, the
// swipe row is deleted (which also refunds its quota slot), and a match the
// swipe created is erased. An expired slot is consumed without reverting
// anything.
func (s *Service) Undo(ctx context.Context, userID int64) (Result, error) {
	if userID <= 0 {
		return Result{}, ErrValidation
	}
	if s.runTx == nil || s.undoStore == nil || s.swipeStore == nil || s.matchStore == nil {
		return Result{}, fmt.Errorf("undo dependencies are not configured")
	}

	now := s.now().UTC()

	var (
		result  Result
		expired bool
	)
	err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		state, err := s.undoStore.ClaimByUser(txCtx, tx, userID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrUndoStateNotFound) {
				return ErrUndoUnavailable
			}
			return err
		}

		if state.Expired(now) {
			// Keep the claim so the dead slot is gone, but revert nothing.
			expired = true
			return nil
		}

		if err := s.swipeStore.DeleteByID(txCtx, tx, state.SwipeID); err != nil {
			if !errors.Is(err, pgrepo.ErrSwipeNotFound) {
				return err
			}
		}

		removedMatch := false
		if state.MatchID != nil {
			removed, err := s.matchStore.DeleteByID(txCtx, tx, *state.MatchID)
			if err != nil {
				return err
			}
			removedMatch = removed
		}

		result = Result{
			TargetUserID: state.TargetUserID,
			Direction:    state.Direction,
			RemovedMatch: removedMatch,
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if expired {
		return Result{}, ErrUndoExpired
	}

	return result, nil
}

// CleanupExpired removes slots whose window has closed. Advisory only; Undo
// checks expiry itself.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	if s.undoStore == nil {
		return 0, fmt.Errorf("undo store is not configured")
	}
	return s.undoStore.DeleteExpired(ctx, s.now().UTC())
}
