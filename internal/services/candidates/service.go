package candidates

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/rules"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrSeekerNotFound    = errors.New("seeker not found")
	ErrSeekerNotEligible = errors.New("seeker is not active")
)

type UserStore interface {
	Get(ctx context.Context, userID int64) (model.User, error)
	ListActiveExcept(ctx context.Context, userID int64) ([]model.User, error)
}

type SwipeStore interface {
	SwipedUserIDs(ctx context.Context, actorUserID int64) (map[int64]struct{}, error)
}

type BlockStore interface {
	BlockedUserIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

type Config struct {
	Limit int
}

// Candidate is a discoverable profile. DistanceKM is nil when either side has
// no coordinates.
type Candidate struct {
	User       model.User `json:"user"`
	DistanceKM *float64   `json:"distance_km"`
}

// Service assembles the discovery feed. Exclusion sets come from storage;
// the filtering itself is pure, so the same inputs always produce the same
// feed and nothing is mutated by looking.
type Service struct {
	users  UserStore
	swipes SwipeStore
	blocks BlockStore
	cfg    Config
}

func NewService(users UserStore, swipes SwipeStore, blocks BlockStore, cfg Config) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}

	return &Service{
		users:  users,
		swipes: swipes,
		blocks: blocks,
		cfg:    cfg,
	}
}

func (s *Service) FindCandidates(ctx context.Context, seekerID int64) ([]Candidate, error) {
	if seekerID <= 0 {
		return nil, ErrValidation
	}
	if s.users == nil || s.swipes == nil || s.blocks == nil {
		return nil, fmt.Errorf("candidate dependencies are not configured")
	}

	seeker, err := s.users.Get(ctx, seekerID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return nil, ErrSeekerNotFound
		}
		return nil, err
	}
	if seeker.State != enums.UserStateActive {
		return nil, ErrSeekerNotEligible
	}

	pool, err := s.users.ListActiveExcept(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	swiped, err := s.swipes.SwipedUserIDs(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.blocks.BlockedUserIDs(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	results := make([]Candidate, 0, s.cfg.Limit)
	for _, candidate := range pool {
		if candidate.ID == seekerID {
			continue
		}
		if _, ok := blocked[candidate.ID]; ok {
			continue
		}
		if _, ok := swiped[candidate.ID]; ok {
			continue
		}
		if candidate.State != enums.UserStateActive {
			continue
		}
		if !mutualGenderInterest(seeker, candidate) {
			continue
		}
		if !mutualAgeFit(seeker, candidate) {
			continue
		}

		distance, ok := distanceWithinRadius(seeker, candidate)
		if !ok {
			continue
		}
		if !rules.PassesDealbreakers(seeker, candidate) {
			continue
		}

		results = append(results, Candidate{User: candidate, DistanceKM: distance})
	}

	sort.SliceStable(results, func(i, j int) bool {
		di, dj := results[i].DistanceKM, results[j].DistanceKM
		switch {
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		case di == nil && dj != nil:
			return false
		case di != nil && dj == nil:
			return true
		}
		return results[i].User.ID < results[j].User.ID
	})

	if len(results) > s.cfg.Limit {
		results = results[:s.cfg.Limit]
	}

	return results, nil
}

func mutualGenderInterest(seeker, candidate model.User) bool {
	return seeker.InterestedInGender(candidate.Gender) && candidate.InterestedInGender(seeker.Gender)
}

// mutualAgeFit requires each side's age to land inside the other's preferred
// range. A zero bound means no preference on that edge.
func mutualAgeFit(seeker, candidate model.User) bool {
	return ageInRange(candidate.Age, seeker.MinAge, seeker.MaxAge) &&
		ageInRange(seeker.Age, candidate.MinAge, candidate.MaxAge)
}

func ageInRange(age, min, max int) bool {
	if age <= 0 {
		return true
	}
	if min > 0 && age < min {
		return false
	}
	if max > 0 && age > max {
		return false
	}
	return true
}

// distanceWithinRadius computes the seeker-to-candidate distance and checks
// it against the seeker's radius. Missing coordinates on either side skip the
// check entirely and leave the distance unknown.
func distanceWithinRadius(seeker, candidate model.User) (*float64, bool) {
	if !seeker.HasLocation() || !candidate.HasLocation() {
		return nil, true
	}

	distance := rules.HaversineKM(seeker.Lat, seeker.Lon, candidate.Lat, candidate.Lon)
	if seeker.MaxDistanceKM > 0 && distance > seeker.MaxDistanceKM {
		return nil, false
	}

	return &distance, true
}
