package candidates

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
)

type userStoreStub struct {
	users map[int64]model.User
}

func (s *userStoreStub) Get(_ context.Context, userID int64) (model.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *userStoreStub) ListActiveExcept(_ context.Context, userID int64) ([]model.User, error) {
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	// Deterministic id order, like the query's ORDER BY id.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}

	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		user := s.users[id]
		if user.ID == userID || user.State != enums.UserStateActive {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

type swipeStoreStub struct {
	swiped map[int64]struct{}
}

func (s *swipeStoreStub) SwipedUserIDs(context.Context, int64) (map[int64]struct{}, error) {
	if s.swiped == nil {
		return map[int64]struct{}{}, nil
	}
	return s.swiped, nil
}

type blockStoreStub struct {
	blocked map[int64]struct{}
}

func (s *blockStoreStub) BlockedUserIDs(context.Context, int64) (map[int64]struct{}, error) {
	if s.blocked == nil {
		return map[int64]struct{}{}, nil
	}
	return s.blocked, nil
}

func activeUser(id int64, gender enums.Gender, interestedIn ...enums.Gender) model.User {
	return model.User{
		ID:           id,
		Age:          30,
		Gender:       gender,
		InterestedIn: interestedIn,
		State:        enums.UserStateActive,
	}
}

func candidateIDs(results []Candidate) []int64 {
	ids := make([]int64, 0, len(results))
	for _, c := range results {
		ids = append(ids, c.User.ID)
	}
	return ids
}

func newTestService(users map[int64]model.User, swiped, blocked map[int64]struct{}, limit int) *Service {
	return NewService(
		&userStoreStub{users: users},
		&swipeStoreStub{swiped: swiped},
		&blockStoreStub{blocked: blocked},
		Config{Limit: limit},
	)
}

func TestFindCandidatesExcludesSwipedBlockedInactive(t *testing.T) {
	users := map[int64]model.User{
		1: activeUser(1, enums.GenderFemale, enums.GenderMale),
		2: activeUser(2, enums.GenderMale, enums.GenderFemale),
		3: activeUser(3, enums.GenderMale, enums.GenderFemale), // already swiped
		4: activeUser(4, enums.GenderMale, enums.GenderFemale), // blocked
		5: activeUser(5, enums.GenderMale, enums.GenderFemale),
	}
	paused := activeUser(6, enums.GenderMale, enums.GenderFemale)
	paused.State = enums.UserStatePaused
	users[6] = paused

	svc := newTestService(users, map[int64]struct{}{3: {}}, map[int64]struct{}{4: {}}, 50)

	results, err := svc.FindCandidates(context.Background(), 1)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if got, want := candidateIDs(results), []int64{2, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected feed: got %v want %v", got, want)
	}
}

func TestFindCandidatesRequiresMutualGenderInterest(t *testing.T) {
	users := map[int64]model.User{
		1: activeUser(1, enums.GenderFemale, enums.GenderMale),
		// Wants the seeker's gender but is not wanted back.
		2: activeUser(2, enums.GenderFemale, enums.GenderFemale),
		// Wanted by the seeker but does not want the seeker's gender.
		3: activeUser(3, enums.GenderMale, enums.GenderMale),
		// Mutual.
		4: activeUser(4, enums.GenderMale, enums.GenderFemale),
	}

	svc := newTestService(users, nil, nil, 50)

	results, err := svc.FindCandidates(context.Background(), 1)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if got, want := candidateIDs(results), []int64{4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected feed: got %v want %v", got, want)
	}
}

func TestFindCandidatesRequiresMutualAgeFit(t *testing.T) {
	seeker := activeUser(1, enums.GenderFemale, enums.GenderMale)
	seeker.Age = 30
	seeker.MinAge = 25
	seeker.MaxAge = 35

	tooOld := activeUser(2, enums.GenderMale, enums.GenderFemale)
	tooOld.Age = 40

	rejectsSeeker := activeUser(3, enums.GenderMale, enums.GenderFemale)
	rejectsSeeker.Age = 30
	rejectsSeeker.MaxAge = 25

	noPrefs := activeUser(4, enums.GenderMale, enums.GenderFemale)
	noPrefs.Age = 34

	svc := newTestService(map[int64]model.User{1: seeker, 2: tooOld, 3: rejectsSeeker, 4: noPrefs}, nil, nil, 50)

	results, err := svc.FindCandidates(context.Background(), 1)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if got, want := candidateIDs(results), []int64{4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected feed: got %v want %v", got, want)
	}
}

func TestFindCandidatesDistanceFilterAndOrdering(t *testing.T) {
	// Seeker in central Paris with a 50km radius.
	seeker := activeUser(1, enums.GenderFemale, enums.GenderMale)
	seeker.Lat, seeker.Lon = 48.8566, 2.3522
	seeker.MaxDistanceKM = 50

	near := activeUser(2, enums.GenderMale, enums.GenderFemale)
	near.Lat, near.Lon = 48.86, 2.36 // well under a kilometre

	versailles := activeUser(3, enums.GenderMale, enums.GenderFemale)
	versailles.Lat, versailles.Lon = 48.8049, 2.1204 // ~18km

	london := activeUser(4, enums.GenderMale, enums.GenderFemale)
	london.Lat, london.Lon = 51.5074, -0.1278 // ~344km, outside the radius

	noLocation := activeUser(5, enums.GenderMale, enums.GenderFemale)

	svc := newTestService(map[int64]model.User{1: seeker, 2: near, 3: versailles, 4: london, 5: noLocation}, nil, nil, 50)

	results, err := svc.FindCandidates(context.Background(), 1)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}

	// Nearest first, unknown distance last.
	if got, want := candidateIDs(results), []int64{2, 3, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected feed order: got %v want %v", got, want)
	}
	if results[0].DistanceKM == nil || *results[0].DistanceKM > 1 {
		t.Fatalf("unexpected distance for nearest candidate: %+v", results[0].DistanceKM)
	}
	if results[2].DistanceKM != nil {
		t.Fatalf("candidate without coordinates must have unknown distance")
	}
}

func TestFindCandidatesRadiusIsSeekerSided(t *testing.T) {
	// The candidate's own radius would exclude the seeker, but only the
	// seeker's radius applies to the seeker's feed.
	seeker := activeUser(1, enums.GenderFemale, enums.GenderMale)
	seeker.Lat, seeker.Lon = 48.8566, 2.3522
	seeker.MaxDistanceKM = 500

	strict := activeUser(2, enums.GenderMale, enums.GenderFemale)
	strict.Lat, strict.Lon = 51.5074, -0.1278
	strict.MaxDistanceKM = 5

	svc := newTestService(map[int64]model.User{1: seeker, 2: strict}, nil, nil, 50)

	results, err := svc.FindCandidates(context.Background(), 1)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if got, want := candidateIDs(results), []int64{2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected feed: got %v want %v", got, want)
	}
}

func TestFindCandidatesAppliesDealbreakers(t *testing.T) {
	smokes := enums.SmokingRegularly
	never := enums.SmokingNever

	seeker := activeUser(1, enums.GenderFemale, enums.GenderMale)
	seeker.Dealbreakers = model.Dealbreakers{AcceptableSmoking: []enums.Smoking{never}}

	smoker := activeUser(2, enums.GenderMale, enums.GenderFemale)
	smoker.Smoking = &smokes

	nonSmoker := activeUser(3, enums.GenderMale, enums.GenderFemale)
	nonSmoker.Smoking = &never

	// Unset attribute never fails a dealbreaker.
	unknown := activeUser(4, enums.GenderMale, enums.GenderFemale)

	svc := newTestService(map[int64]model.User{1: seeker, 2: smoker, 3: nonSmoker, 4: unknown}, nil, nil, 50)

	results, err := svc.FindCandidates(context.Background(), 1)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if got, want := candidateIDs(results), []int64{3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected feed: got %v want %v", got, want)
	}
}

func TestFindCandidatesLimit(t *testing.T) {
	users := map[int64]model.User{1: activeUser(1, enums.GenderFemale, enums.GenderMale)}
	for id := int64(2); id <= 10; id++ {
		users[id] = activeUser(id, enums.GenderMale, enums.GenderFemale)
	}

	svc := newTestService(users, nil, nil, 3)

	results, err := svc.FindCandidates(context.Background(), 1)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if got, want := candidateIDs(results), []int64{2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected feed: got %v want %v", got, want)
	}
}

func TestFindCandidatesIsIdempotent(t *testing.T) {
	users := map[int64]model.User{
		1: activeUser(1, enums.GenderFemale, enums.GenderMale),
		2: activeUser(2, enums.GenderMale, enums.GenderFemale),
		3: activeUser(3, enums.GenderMale, enums.GenderFemale),
	}
	svc := newTestService(users, nil, nil, 50)

	ctx := context.Background()
	first, err := svc.FindCandidates(ctx, 1)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.FindCandidates(ctx, 1)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(candidateIDs(first), candidateIDs(second)) {
		t.Fatalf("feed changed between identical calls: %v vs %v", candidateIDs(first), candidateIDs(second))
	}
}

func TestFindCandidatesSeekerChecks(t *testing.T) {
	banned := activeUser(1, enums.GenderFemale, enums.GenderMale)
	banned.State = enums.UserStateBanned

	svc := newTestService(map[int64]model.User{1: banned}, nil, nil, 50)

	ctx := context.Background()
	if _, err := svc.FindCandidates(ctx, 99); !errors.Is(err, ErrSeekerNotFound) {
		t.Fatalf("expected ErrSeekerNotFound, got %v", err)
	}
	if _, err := svc.FindCandidates(ctx, 1); !errors.Is(err, ErrSeekerNotEligible) {
		t.Fatalf("expected ErrSeekerNotEligible, got %v", err)
	}
}
