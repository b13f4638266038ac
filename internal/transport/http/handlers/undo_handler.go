package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	undosvc "github.com/TomShtern/Date-Program-sub013/internal/services/undo"
	"github.com/TomShtern/Date-Program-sub013/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub013/internal/transport/http/errors"
)

type UndoHandler struct {
	service *undosvc.Service
}

func NewUndoHandler(service *undosvc.Service) *UndoHandler {
	return &UndoHandler{service: service}
}

func (h *UndoHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "UNDO_SERVICE_UNAVAILABLE", "undo service is unavailable")
		return
	}

	status, err := h.service.GetStatus(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to read undo status")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UndoStatusResponse{
		Available:        status.Available,
		TargetUserID:     status.TargetUserID,
		Direction:        string(status.Direction),
		SecondsRemaining: status.SecondsRemaining,
	})
}

func (h *UndoHandler) Undo(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "UNDO_SERVICE_UNAVAILABLE", "undo service is unavailable")
		return
	}

	result, err := h.service.Undo(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, undosvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid undo request")
		case errors.Is(err, undosvc.ErrUndoUnavailable):
			writeConflict(w, "UNDO_UNAVAILABLE", "no swipe to undo")
		case errors.Is(err, undosvc.ErrUndoExpired):
			httperrors.Write(w, http.StatusGone, httperrors.APIError{
				Code:    "UNDO_EXPIRED",
				Message: "undo window has expired",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to undo swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UndoResponse{
		OK:           true,
		TargetUserID: result.TargetUserID,
		Direction:    string(result.Direction),
		RemovedMatch: result.RemovedMatch,
	})
}
