package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("match not found")
)

type MatchStore interface {
	ListActiveForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.ActiveMatchRecord, error)
	End(ctx context.Context, matchID, endedBy int64, reason enums.MatchEndReason, now time.Time) error
}

type Config struct {
	ListLimit int
}

type Service struct {
	store MatchStore
	cfg   Config
	now   func() time.Time
}

func NewService(store MatchStore, cfg Config) *Service {
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}

	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID int64) ([]pgrepo.ActiveMatchRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("match store is not configured")
	}

	return s.store.ListActiveForUser(ctx, userID, s.cfg.ListLimit)
}

// Unmatch ends an active match. The row is kept for history; only a new
// mutual like can pair the two users again.
func (s *Service) Unmatch(ctx context.Context, userID, matchID int64) error {
	if userID <= 0 || matchID <= 0 {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("match store is not configured")
	}

	err := s.store.End(ctx, matchID, userID, enums.MatchEndReasonUnmatched, s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}
