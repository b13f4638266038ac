package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	quotasvc "github.com/TomShtern/Date-Program-sub013/internal/services/quota"
	swipesvc "github.com/TomShtern/Date-Program-sub013/internal/services/swipes"
)

type swipeStoreStub struct{}

func (swipeStoreStub) Upsert(_ context.Context, _ pgx.Tx, actorUserID, targetUserID int64, direction enums.SwipeDirection, now time.Time) (model.Swipe, error) {
	return model.Swipe{ID: 1, ActorUserID: actorUserID, TargetUserID: targetUserID, Direction: direction, CreatedAt: now}, nil
}

func (swipeStoreStub) HasReverseLike(context.Context, pgx.Tx, int64, int64) (bool, error) {
	return false, nil
}

type matchStoreStub struct{}

func (matchStoreStub) CreateActive(context.Context, pgx.Tx, int64, int64, time.Time) (model.Match, bool, error) {
	return model.Match{}, false, nil
}

type blockStoreStub struct {
	blocked bool
}

func (s blockStoreStub) ExistsBetween(context.Context, int64, int64) (bool, error) {
	return s.blocked, nil
}

type userStoreStub struct {
	users map[int64]model.User
}

func (s userStoreStub) Get(_ context.Context, userID int64) (model.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

type quotaViewStub struct {
	allowLike bool
}

func (s quotaViewStub) CanLike(context.Context, int64) (bool, error) { return s.allowLike, nil }
func (s quotaViewStub) CanPass(context.Context, int64) (bool, error) { return true, nil }
func (s quotaViewStub) Status(context.Context, int64) (quotasvc.Snapshot, error) {
	return quotasvc.Snapshot{}, nil
}

type rateLimiterStub struct {
	retryAfter int64
	allowed    bool
}

func (s rateLimiterStub) AllowSwipe(context.Context, int64) (int64, bool, error) {
	return s.retryAfter, s.allowed, nil
}

func newSwipeHandler(quota quotaViewStub, limiter rateLimiterStub, blocked bool) *SwipeHandler {
	svc := swipesvc.NewService(swipesvc.Dependencies{
		RunTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return fn(ctx, nil)
		},
		SwipeStore: swipeStoreStub{},
		MatchStore: matchStoreStub{},
		BlockStore: blockStoreStub{blocked: blocked},
		UserStore: userStoreStub{users: map[int64]model.User{
			202: {ID: 202, State: enums.UserStateActive},
		}},
		Quota:       quota,
		RateLimiter: limiter,
	})
	return NewSwipeHandler(svc)
}

func swipeRequest(t *testing.T, authenticated bool, body map[string]any) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/swipes", bytes.NewReader(raw))
	if authenticated {
		req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
			UserID: 101,
			SID:    "sid-101",
		}))
	}
	return req
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload.Code
}

func TestSwipeRequiresAuth(t *testing.T) {
	h := newSwipeHandler(quotaViewStub{allowLike: true}, rateLimiterStub{allowed: true}, false)

	rr := httptest.NewRecorder()
	h.Handle(rr, swipeRequest(t, false, map[string]any{"target_id": 202, "direction": "LIKE"}))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSwipeRejectsUnknownDirection(t *testing.T) {
	h := newSwipeHandler(quotaViewStub{allowLike: true}, rateLimiterStub{allowed: true}, false)

	rr := httptest.NewRecorder()
	h.Handle(rr, swipeRequest(t, true, map[string]any{"target_id": 202, "direction": "SUPERLIKE"}))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	if code := decodeErrorCode(t, rr); code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code: %q", code)
	}
}

func TestSwipeQuotaExceeded(t *testing.T) {
	h := newSwipeHandler(quotaViewStub{allowLike: false}, rateLimiterStub{allowed: true}, false)

	rr := httptest.NewRecorder()
	h.Handle(rr, swipeRequest(t, true, map[string]any{"target_id": 202, "direction": "LIKE"}))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}
	if code := decodeErrorCode(t, rr); code != "QUOTA_EXCEEDED" {
		t.Fatalf("unexpected error code: %q", code)
	}
}

func TestSwipeTooFastCarriesRetryAfter(t *testing.T) {
	h := newSwipeHandler(quotaViewStub{allowLike: true}, rateLimiterStub{retryAfter: 9, allowed: false}, false)

	rr := httptest.NewRecorder()
	h.Handle(rr, swipeRequest(t, true, map[string]any{"target_id": 202, "direction": "LIKE"}))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_FAST" {
		t.Fatalf("unexpected error code: %q", payload.Code)
	}
	if payload.RetryAfterSec != 9 {
		t.Fatalf("unexpected retry_after_sec: got %d want 9", payload.RetryAfterSec)
	}
}

func TestSwipeInvalidTarget(t *testing.T) {
	h := newSwipeHandler(quotaViewStub{allowLike: true}, rateLimiterStub{allowed: true}, false)

	for name, body := range map[string]map[string]any{
		"self":    {"target_id": 101, "direction": "LIKE"},
		"unknown": {"target_id": 999, "direction": "LIKE"},
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Handle(rr, swipeRequest(t, true, body))

			if rr.Code != http.StatusConflict {
				t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusConflict)
			}
			if code := decodeErrorCode(t, rr); code != "INVALID_TARGET" {
				t.Fatalf("unexpected error code: %q", code)
			}
		})
	}
}

func TestSwipeBlockedTarget(t *testing.T) {
	h := newSwipeHandler(quotaViewStub{allowLike: true}, rateLimiterStub{allowed: true}, true)

	rr := httptest.NewRecorder()
	h.Handle(rr, swipeRequest(t, true, map[string]any{"target_id": 202, "direction": "LIKE"}))

	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusConflict)
	}
	if code := decodeErrorCode(t, rr); code != "INVALID_TARGET" {
		t.Fatalf("unexpected error code: %q", code)
	}
}
