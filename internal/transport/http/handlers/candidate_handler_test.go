package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
	candsvc "github.com/TomShtern/Date-Program-sub013/internal/services/candidates"
)

type candidatePoolStub struct {
	seeker model.User
	pool   []model.User
	found  bool
}

func (s candidatePoolStub) Get(context.Context, int64) (model.User, error) {
	if !s.found {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return s.seeker, nil
}

func (s candidatePoolStub) ListActiveExcept(context.Context, int64) ([]model.User, error) {
	return s.pool, nil
}

type swipedIDsStub struct{}

func (swipedIDsStub) SwipedUserIDs(context.Context, int64) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}

type blockedIDsStub struct{}

func (blockedIDsStub) BlockedUserIDs(context.Context, int64) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}

func newCandidateHandler(users candidatePoolStub) *CandidateHandler {
	return NewCandidateHandler(candsvc.NewService(users, swipedIDsStub{}, blockedIDsStub{}, candsvc.Config{}))
}

func TestCandidateList(t *testing.T) {
	seeker := model.User{
		ID:           101,
		Gender:       enums.GenderFemale,
		InterestedIn: []enums.Gender{enums.GenderMale},
		State:        enums.UserStateActive,
	}
	match := model.User{
		ID:           202,
		DisplayName:  "Sam",
		Age:          29,
		Gender:       enums.GenderMale,
		InterestedIn: []enums.Gender{enums.GenderFemale},
		State:        enums.UserStateActive,
	}

	h := newCandidateHandler(candidatePoolStub{seeker: seeker, pool: []model.User{match}, found: true})

	rr := httptest.NewRecorder()
	h.List(rr, authenticatedGet("/candidates"))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Items []struct {
			UserID      int64  `json:"user_id"`
			DisplayName string `json:"display_name"`
			Age         int    `json:"age"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected one candidate, got %d", len(payload.Items))
	}
	if payload.Items[0].UserID != 202 || payload.Items[0].DisplayName != "Sam" {
		t.Fatalf("unexpected candidate: %+v", payload.Items[0])
	}
}

func TestCandidateListSeekerNotFound(t *testing.T) {
	h := newCandidateHandler(candidatePoolStub{})

	rr := httptest.NewRecorder()
	h.List(rr, authenticatedGet("/candidates"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCandidateListSeekerNotEligible(t *testing.T) {
	h := newCandidateHandler(candidatePoolStub{
		seeker: model.User{ID: 101, State: enums.UserStatePaused},
		found:  true,
	})

	rr := httptest.NewRecorder()
	h.List(rr, authenticatedGet("/candidates"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}
	if code := decodeErrorCode(t, rr); code != "SEEKER_NOT_ELIGIBLE" {
		t.Fatalf("unexpected error code: %q", code)
	}
}
