package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	quotasvc "github.com/TomShtern/Date-Program-sub013/internal/services/quota"
	swipesvc "github.com/TomShtern/Date-Program-sub013/internal/services/swipes"
	"github.com/TomShtern/Date-Program-sub013/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub013/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TargetID <= 0 || strings.TrimSpace(req.Direction) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and direction are required")
		return
	}

	direction, err := enums.ParseSwipeDirection(req.Direction)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "direction must be LIKE or PASS")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, direction)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrInvalidTarget):
			writeConflict(w, "INVALID_TARGET", "target cannot be swiped")
		case errors.Is(err, swipesvc.ErrQuotaExceeded):
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{
				Code:    "QUOTA_EXCEEDED",
				Message: "daily swipe limit reached",
			})
		default:
			var tooFast swipesvc.TooFastError
			if errors.As(err, &tooFast) {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "TOO_FAST",
					Message:       "too many swipes, slow down",
					RetryAfterSec: tooFast.RetryAfterSec,
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	resp := dto.SwipeResponse{
		OK:      true,
		Matched: result.Matched,
		Quota:   mapQuotaSnapshot(result.Quota),
	}
	if result.Match != nil {
		resp.MatchID = &result.Match.ID
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func mapQuotaSnapshot(s quotasvc.Snapshot) dto.QuotaPayload {
	return dto.QuotaPayload{
		LikesUsed:       s.LikesUsed,
		LikeLimit:       s.LikeLimit,
		LikesRemaining:  s.LikesRemaining,
		PassesUsed:      s.PassesUsed,
		PassLimit:       s.PassLimit,
		PassesRemaining: s.PassesRemaining,
		ResetsAt:        s.ResetsAt,
	}
}
