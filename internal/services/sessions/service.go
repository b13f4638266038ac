package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNoActiveSession = errors.New("no active swipe session")
)

type SessionStore interface {
	GetActiveForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (model.SwipeSession, error)
	GetActive(ctx context.Context, userID int64) (model.SwipeSession, error)
	Create(ctx context.Context, tx pgx.Tx, session model.SwipeSession) error
	ApplySwipe(ctx context.Context, tx pgx.Tx, sessionID string, direction enums.SwipeDirection, matched bool, now time.Time) error
	End(ctx context.Context, tx pgx.Tx, sessionID string, endedAt time.Time) error
	EndActiveFor(ctx context.Context, userID int64, endedAt time.Time) (bool, error)
	EndStale(ctx context.Context, cutoff time.Time) (int64, error)
	Aggregates(ctx context.Context, userID int64) (pgrepo.SessionAggregates, error)
}

type Config struct {
	IdleTimeout         time.Duration
	MaxSwipesPerSession int
}

// Stats summarizes a user's completed sessions, including overall swipe
// velocity. Total duration under a minute is floored to one minute so a
// handful of instant swipes does not read as a bot-grade rate.
type Stats struct {
	SessionCount        int     `json:"session_count"`
	TotalSwipes         int     `json:"total_swipes"`
	TotalLikes          int     `json:"total_likes"`
	TotalPasses         int     `json:"total_passes"`
	TotalMatches        int     `json:"total_matches"`
	AvgSwipesPerSession float64 `json:"avg_swipes_per_session"`
	AvgDurationSeconds  float64 `json:"avg_duration_seconds"`
	SwipesPerMinute     float64 `json:"swipes_per_minute"`
}

// Service groups consecutive swipes into sessions. A session ends when the
// user goes idle past the timeout, hits the per-session cap, or ends it
// explicitly.
type Service struct {
	store SessionStore
	cfg   Config
	now   func() time.Time
	newID func() string
}

func NewService(store SessionStore, cfg Config) *Service {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 5 * time.Minute
	}
	if cfg.MaxSwipesPerSession <= 0 {
		cfg.MaxSwipesPerSession = 500
	}

	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// RecordSwipe extends the user's active session with one swipe, rolling the
// session over first when it went idle or hit the swipe cap. Runs inside the
// swipe transaction; the row lock from GetActiveForUpdate keeps concurrent
// swipes from splitting one session.
func (s *Service) RecordSwipe(ctx context.Context, tx pgx.Tx, userID int64, direction enums.SwipeDirection, matched bool, now time.Time) (string, error) {
	if userID <= 0 || !direction.Valid() {
		return "", ErrValidation
	}
	if s.store == nil {
		return "", fmt.Errorf("session store is not configured")
	}
	if now.IsZero() {
		now = s.now().UTC()
	}

	session, err := s.store.GetActiveForUpdate(ctx, tx, userID)
	switch {
	case err == nil:
		if s.stale(session, now) || session.SwipeCount >= s.cfg.MaxSwipesPerSession {
			endedAt := session.LastActivityAt
			if session.SwipeCount >= s.cfg.MaxSwipesPerSession {
				endedAt = now
			}
			if err := s.store.End(ctx, tx, session.ID, endedAt); err != nil {
				return "", err
			}
			session, err = s.startSession(ctx, tx, userID, now)
			if err != nil {
				return "", err
			}
		}
	case errors.Is(err, pgrepo.ErrSessionNotFound):
		session, err = s.startSession(ctx, tx, userID, now)
		if err != nil {
			return "", err
		}
	default:
		return "", err
	}

	if err := s.store.ApplySwipe(ctx, tx, session.ID, direction, matched, now); err != nil {
		return "", err
	}

	return session.ID, nil
}

func (s *Service) startSession(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (model.SwipeSession, error) {
	session := model.SwipeSession{
		ID:             s.newID(),
		UserID:         userID,
		StartedAt:      now,
		LastActivityAt: now,
		State:          model.SwipeSessionActive,
	}
	if err := s.store.Create(ctx, tx, session); err != nil {
		return model.SwipeSession{}, err
	}
	return session, nil
}

// Active returns the user's current session. A session idle past the timeout
// is reported as absent even before the sweep completes it.
func (s *Service) Active(ctx context.Context, userID int64) (model.SwipeSession, error) {
	if userID <= 0 {
		return model.SwipeSession{}, ErrValidation
	}
	if s.store == nil {
		return model.SwipeSession{}, fmt.Errorf("session store is not configured")
	}

	session, err := s.store.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSessionNotFound) {
			return model.SwipeSession{}, ErrNoActiveSession
		}
		return model.SwipeSession{}, err
	}

	if s.stale(session, s.now().UTC()) {
		return model.SwipeSession{}, ErrNoActiveSession
	}

	return session, nil
}

func (s *Service) EndSession(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, fmt.Errorf("session store is not configured")
	}

	return s.store.EndActiveFor(ctx, userID, s.now().UTC())
}

// EndStale completes sessions idle past the timeout. Run periodically by the
// cleanup job.
func (s *Service) EndStale(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, fmt.Errorf("session store is not configured")
	}

	cutoff := s.now().UTC().Add(-s.cfg.IdleTimeout)
	return s.store.EndStale(ctx, cutoff)
}

func (s *Service) GetStats(ctx context.Context, userID int64) (Stats, error) {
	if userID <= 0 {
		return Stats{}, ErrValidation
	}
	if s.store == nil {
		return Stats{}, fmt.Errorf("session store is not configured")
	}

	agg, err := s.store.Aggregates(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	totalSeconds := agg.AvgDurationSeconds * float64(agg.SessionCount)
	velocity := 0.0
	if agg.TotalSwipes > 0 {
		if totalSeconds < 60 {
			totalSeconds = 60
		}
		velocity = float64(agg.TotalSwipes) * 60.0 / totalSeconds
	}

	return Stats{
		SessionCount:        agg.SessionCount,
		TotalSwipes:         agg.TotalSwipes,
		TotalLikes:          agg.TotalLikes,
		TotalPasses:         agg.TotalPasses,
		TotalMatches:        agg.TotalMatches,
		AvgSwipesPerSession: agg.AvgSwipesPerSession,
		AvgDurationSeconds:  agg.AvgDurationSeconds,
		SwipesPerMinute:     velocity,
	}, nil
}

func (s *Service) stale(session model.SwipeSession, now time.Time) bool {
	return now.Sub(session.LastActivityAt) >= s.cfg.IdleTimeout
}
