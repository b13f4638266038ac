package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/rules"
)

var (
	ErrValidation = errors.New("validation error")
	ErrDailyLimit = errors.New("daily limit reached")
)

// Unlimited disables a daily limit. A limit of zero blocks the direction
// entirely.
const Unlimited = -1

type SwipeCounter interface {
	CountDirectionSince(ctx context.Context, actorUserID int64, direction enums.SwipeDirection, since time.Time) (int, error)
}

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.User, error)
}

type Config struct {
	DailyLikeLimit  int
	DailyPassLimit  int
	DefaultTimezone string
}

// Snapshot is the quota state for one user at one instant. Remaining is
// Unlimited when the limit is.
type Snapshot struct {
	LikesUsed       int       `json:"likes_used"`
	LikeLimit       int       `json:"like_limit"`
	LikesRemaining  int       `json:"likes_remaining"`
	PassesUsed      int       `json:"passes_used"`
	PassLimit       int       `json:"pass_limit"`
	PassesRemaining int       `json:"passes_remaining"`
	ResetsAt        time.Time `json:"resets_at"`
}

// Service counts swipes since local midnight in the user's timezone. The
// day boundary is recomputed on every call, so usage rolls over without any
// reset job, and undone swipes stop counting the moment their row is gone.
type Service struct {
	counter SwipeCounter
	users   UserStore
	cfg     Config
	now     func() time.Time
}

func NewService(counter SwipeCounter, users UserStore, cfg Config) *Service {
	if strings.TrimSpace(cfg.DefaultTimezone) == "" {
		cfg.DefaultTimezone = "UTC"
	}

	return &Service{
		counter: counter,
		users:   users,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Service) CanLike(ctx context.Context, userID int64) (bool, error) {
	used, err := s.usedToday(ctx, userID, enums.SwipeDirectionLike)
	if err != nil {
		return false, err
	}
	return allowed(s.cfg.DailyLikeLimit, used), nil
}

func (s *Service) CanPass(ctx context.Context, userID int64) (bool, error) {
	used, err := s.usedToday(ctx, userID, enums.SwipeDirectionPass)
	if err != nil {
		return false, err
	}
	return allowed(s.cfg.DailyPassLimit, used), nil
}

func (s *Service) Status(ctx context.Context, userID int64) (Snapshot, error) {
	if userID <= 0 {
		return Snapshot{}, ErrValidation
	}
	if s.counter == nil {
		return Snapshot{}, fmt.Errorf("quota counter is not configured")
	}

	now := s.now().UTC()
	loc := s.resolveLocation(ctx, userID)
	since := rules.StartOfDay(now, loc)

	likesUsed, err := s.counter.CountDirectionSince(ctx, userID, enums.SwipeDirectionLike, since)
	if err != nil {
		return Snapshot{}, fmt.Errorf("count likes: %w", err)
	}
	passesUsed, err := s.counter.CountDirectionSince(ctx, userID, enums.SwipeDirectionPass, since)
	if err != nil {
		return Snapshot{}, fmt.Errorf("count passes: %w", err)
	}

	return Snapshot{
		LikesUsed:       likesUsed,
		LikeLimit:       s.cfg.DailyLikeLimit,
		LikesRemaining:  remaining(s.cfg.DailyLikeLimit, likesUsed),
		PassesUsed:      passesUsed,
		PassLimit:       s.cfg.DailyPassLimit,
		PassesRemaining: remaining(s.cfg.DailyPassLimit, passesUsed),
		ResetsAt:        rules.NextResetAt(now, loc),
	}, nil
}

func (s *Service) usedToday(ctx context.Context, userID int64, direction enums.SwipeDirection) (int, error) {
	if userID <= 0 {
		return 0, ErrValidation
	}
	if s.counter == nil {
		return 0, fmt.Errorf("quota counter is not configured")
	}

	now := s.now().UTC()
	since := rules.StartOfDay(now, s.resolveLocation(ctx, userID))

	used, err := s.counter.CountDirectionSince(ctx, userID, direction, since)
	if err != nil {
		return 0, fmt.Errorf("count swipes: %w", err)
	}
	return used, nil
}

// resolveLocation prefers the user's profile timezone and falls back to the
// configured default. An unknown zone name degrades to UTC rather than
// failing the call.
func (s *Service) resolveLocation(ctx context.Context, userID int64) *time.Location {
	tzName := s.cfg.DefaultTimezone
	if s.users != nil {
		if user, err := s.users.Get(ctx, userID); err == nil && strings.TrimSpace(user.Timezone) != "" {
			tzName = user.Timezone
		}
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return time.UTC
	}
	return loc
}

func allowed(limit, used int) bool {
	if limit < 0 {
		return true
	}
	return used < limit
}

func remaining(limit, used int) int {
	if limit < 0 {
		return Unlimited
	}
	left := limit - used
	if left < 0 {
		return 0
	}
	return left
}
