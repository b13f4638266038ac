package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	matchessvc "github.com/TomShtern/Date-Program-sub013/internal/services/matches"
)

type matchListStoreStub struct {
	records []pgrepo.ActiveMatchRecord
	endErr  error
}

func (s *matchListStoreStub) ListActiveForUser(context.Context, int64, int) ([]pgrepo.ActiveMatchRecord, error) {
	return s.records, nil
}

func (s *matchListStoreStub) End(context.Context, int64, int64, enums.MatchEndReason, time.Time) error {
	return s.endErr
}

func newMatchesRouter(store *matchListStoreStub) http.Handler {
	h := NewMatchesHandler(matchessvc.NewService(store, matchessvc.Config{}))

	r := chi.NewRouter()
	r.Get("/matches", h.List)
	r.Post("/matches/{id}/unmatch", h.Unmatch)
	return r
}

func withTestIdentity(req *http.Request) *http.Request {
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: 101,
		SID:    "sid-101",
	}))
}

func TestMatchesList(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &matchListStoreStub{records: []pgrepo.ActiveMatchRecord{
		{ID: 77, TargetUserID: 202, DisplayName: "Sam", Age: 29, CreatedAt: created},
	}}
	router := newMatchesRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withTestIdentity(httptest.NewRequest(http.MethodGet, "/matches", nil)))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Items []struct {
			MatchID     int64  `json:"match_id"`
			UserID      int64  `json:"user_id"`
			DisplayName string `json:"display_name"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected one match, got %d", len(payload.Items))
	}
	if payload.Items[0].MatchID != 77 || payload.Items[0].UserID != 202 || payload.Items[0].DisplayName != "Sam" {
		t.Fatalf("unexpected match item: %+v", payload.Items[0])
	}
}

func TestUnmatchUnknownMatch(t *testing.T) {
	store := &matchListStoreStub{endErr: pgrepo.ErrMatchNotFound}
	router := newMatchesRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withTestIdentity(httptest.NewRequest(http.MethodPost, "/matches/77/unmatch", nil)))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
	if code := decodeErrorCode(t, rr); code != "MATCH_NOT_FOUND" {
		t.Fatalf("unexpected error code: %q", code)
	}
}

func TestUnmatchInvalidID(t *testing.T) {
	router := newMatchesRouter(&matchListStoreStub{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withTestIdentity(httptest.NewRequest(http.MethodPost, "/matches/abc/unmatch", nil)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}
