package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	sessionsvc "github.com/TomShtern/Date-Program-sub013/internal/services/sessions"
	"github.com/TomShtern/Date-Program-sub013/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub013/internal/transport/http/errors"
)

type SessionHandler struct {
	service *sessionsvc.Service
}

func NewSessionHandler(service *sessionsvc.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SESSION_SERVICE_UNAVAILABLE", "session service is unavailable")
		return
	}

	session, err := h.service.Active(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, sessionsvc.ErrNoActiveSession) {
			writeNotFound(w, "NO_ACTIVE_SESSION", "no active swipe session")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to read session")
		return
	}

	now := time.Now().UTC()
	httperrors.Write(w, http.StatusOK, dto.ActiveSessionResponse{
		SessionID:       session.ID,
		StartedAt:       session.StartedAt,
		LastActivityAt:  session.LastActivityAt,
		SwipeCount:      session.SwipeCount,
		LikeCount:       session.LikeCount,
		PassCount:       session.PassCount,
		MatchCount:      session.MatchCount,
		SwipesPerMinute: session.SwipesPerMinute(now),
	})
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SESSION_SERVICE_UNAVAILABLE", "session service is unavailable")
		return
	}

	ended, err := h.service.EndSession(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to end session")
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK    bool `json:"ok"`
		Ended bool `json:"ended"`
	}{OK: true, Ended: ended})
}

func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SESSION_SERVICE_UNAVAILABLE", "session service is unavailable")
		return
	}

	stats, err := h.service.GetStats(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to read session stats")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SessionStatsResponse{
		SessionCount:        stats.SessionCount,
		TotalSwipes:         stats.TotalSwipes,
		TotalLikes:          stats.TotalLikes,
		TotalPasses:         stats.TotalPasses,
		TotalMatches:        stats.TotalMatches,
		AvgSwipesPerSession: stats.AvgSwipesPerSession,
		AvgDurationSeconds:  stats.AvgDurationSeconds,
		SwipesPerMinute:     stats.SwipesPerMinute,
	})
}
