package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	candsvc "github.com/TomShtern/Date-Program-sub013/internal/services/candidates"
	"github.com/TomShtern/Date-Program-sub013/internal/transport/http/dto"
	httperrors "github.com/TomShtern/Date-Program-sub013/internal/transport/http/errors"
)

type CandidateHandler struct {
	service *candsvc.Service
}

func NewCandidateHandler(service *candsvc.Service) *CandidateHandler {
	return &CandidateHandler{service: service}
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CANDIDATE_SERVICE_UNAVAILABLE", "candidate service is unavailable")
		return
	}

	found, err := h.service.FindCandidates(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, candsvc.ErrSeekerNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, candsvc.ErrSeekerNotEligible):
			httperrors.Write(w, http.StatusForbidden, httperrors.APIError{
				Code:    "SEEKER_NOT_ELIGIBLE",
				Message: "profile must be active to discover candidates",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to find candidates")
		}
		return
	}

	items := make([]dto.CandidateItem, 0, len(found))
	for _, c := range found {
		items = append(items, dto.CandidateItem{
			UserID:      c.User.ID,
			DisplayName: c.User.DisplayName,
			Age:         c.User.Age,
			Gender:      string(c.User.Gender),
			DistanceKM:  c.DistanceKM,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.CandidatesResponse{Items: items})
}
