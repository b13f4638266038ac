package swipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
	quotasvc "github.com/TomShtern/Date-Program-sub013/internal/services/quota"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidTarget = errors.New("invalid swipe target")
	ErrQuotaExceeded = errors.New("daily swipe limit reached")
)

// TooFastError is returned when the burst limiter throttles a swipe.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return fmt.Sprintf("swiping too fast, retry after %ds", e.RetryAfterSec)
}

type SwipeStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, direction enums.SwipeDirection, now time.Time) (model.Swipe, error)
	HasReverseLike(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (bool, error)
}

type MatchStore interface {
	CreateActive(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (model.Match, bool, error)
}

type BlockStore interface {
	ExistsBetween(ctx context.Context, userID, targetID int64) (bool, error)
}

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.User, error)
}

type QuotaView interface {
	CanLike(ctx context.Context, userID int64) (bool, error)
	CanPass(ctx context.Context, userID int64) (bool, error)
	Status(ctx context.Context, userID int64) (quotasvc.Snapshot, error)
}

type UndoRecorder interface {
	Record(ctx context.Context, tx pgx.Tx, swipe model.Swipe, matchID *int64) error
}

type SessionRecorder interface {
	RecordSwipe(ctx context.Context, tx pgx.Tx, userID int64, direction enums.SwipeDirection, matched bool, now time.Time) (string, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type SwipeResult struct {
	Matched bool
	Match   *model.Match
	Quota   quotasvc.Snapshot
}

type Dependencies struct {
	RunTx       pgrepo.TxRunner
	SwipeStore  SwipeStore
	MatchStore  MatchStore
	BlockStore  BlockStore
	UserStore   UserStore
	Quota       QuotaView
	Undo        UndoRecorder
	Sessions    SessionRecorder
	RateLimiter RateLimiter
}

// Service records swipes. Everything a swipe touches (the swipe row, the
// match, the undo slot, the session counters) commits in one transaction, so
// a crash can never leave a mutual like without its match or an undo slot
// pointing at a missing swipe.
type Service struct {
	swipeStore  SwipeStore
	matchStore  MatchStore
	blockStore  BlockStore
	userStore   UserStore
	quota       QuotaView
	undo        UndoRecorder
	sessions    SessionRecorder
	rateLimiter RateLimiter
	now         func() time.Time
	runTx       pgrepo.TxRunner
	lockPair    func(context.Context, pgx.Tx, int64, int64) error
}

func NewService(deps Dependencies) *Service {
	return &Service{
		swipeStore:  deps.SwipeStore,
		matchStore:  deps.MatchStore,
		blockStore:  deps.BlockStore,
		userStore:   deps.UserStore,
		quota:       deps.Quota,
		undo:        deps.Undo,
		sessions:    deps.Sessions,
		rateLimiter: deps.RateLimiter,
		now:         time.Now,
		runTx:       deps.RunTx,
		lockPair:    pgrepo.LockPair,
	}
}

func (s *Service) Swipe(ctx context.Context, userID, targetID int64, direction enums.SwipeDirection) (SwipeResult, error) {
	if userID <= 0 || targetID <= 0 || !direction.Valid() {
		return SwipeResult{}, ErrValidation
	}
	if userID == targetID {
		return SwipeResult{}, ErrInvalidTarget
	}
	if s.swipeStore == nil || s.matchStore == nil || s.blockStore == nil || s.userStore == nil || s.quota == nil || s.runTx == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	target, err := s.userStore.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return SwipeResult{}, ErrInvalidTarget
		}
		return SwipeResult{}, err
	}
	if target.State != enums.UserStateActive {
		return SwipeResult{}, ErrInvalidTarget
	}

	blocked, err := s.blockStore.ExistsBetween(ctx, userID, targetID)
	if err != nil {
		return SwipeResult{}, err
	}
	if blocked {
		return SwipeResult{}, ErrInvalidTarget
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, userID)
		if err != nil {
			return SwipeResult{}, fmt.Errorf("apply swipe rate limiter: %w", err)
		}
		if !allowed {
			return SwipeResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	// Cheap pre-check so an over-quota swipe fails before opening a
	// transaction. The count runs again under the pair lock inside the tx.
	if err := s.checkQuota(ctx, userID, direction); err != nil {
		return SwipeResult{}, err
	}

	now := s.now().UTC()

	var (
		matched bool
		match   model.Match
	)
	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.lockPair(txCtx, tx, userID, targetID); err != nil {
			return err
		}
		if err := s.checkQuota(txCtx, userID, direction); err != nil {
			return err
		}

		swipe, err := s.swipeStore.Upsert(txCtx, tx, userID, targetID, direction, now)
		if err != nil {
			return err
		}

		var matchID *int64
		if direction == enums.SwipeDirectionLike {
			mutual, err := s.swipeStore.HasReverseLike(txCtx, tx, userID, targetID)
			if err != nil {
				return err
			}
			if mutual {
				created, _, err := s.matchStore.CreateActive(txCtx, tx, userID, targetID, now)
				if err != nil {
					return err
				}
				matched = true
				match = created
				matchID = &created.ID
			}
		}

		if s.undo != nil {
			if err := s.undo.Record(txCtx, tx, swipe, matchID); err != nil {
				return err
			}
		}
		if s.sessions != nil {
			if _, err := s.sessions.RecordSwipe(txCtx, tx, userID, direction, matched, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return SwipeResult{}, err
	}

	snapshot, err := s.quota.Status(ctx, userID)
	if err != nil {
		return SwipeResult{}, err
	}

	result := SwipeResult{Matched: matched, Quota: snapshot}
	if matched {
		result.Match = &match
	}
	return result, nil
}

func (s *Service) checkQuota(ctx context.Context, userID int64, direction enums.SwipeDirection) error {
	var (
		ok  bool
		err error
	)
	if direction == enums.SwipeDirectionLike {
		ok, err = s.quota.CanLike(ctx, userID)
	} else {
		ok, err = s.quota.CanPass(ctx, userID)
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrQuotaExceeded
	}
	return nil
}
