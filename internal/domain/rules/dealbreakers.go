package rules

import (
	"slices"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
)

// PassesDealbreakers checks the candidate against every dealbreaker axis the
// seeker has set. An unset candidate attribute never fails a check: absence
// is not a violation.
func PassesDealbreakers(seeker, candidate model.User) bool {
	db := seeker.Dealbreakers
	if !db.HasAny() {
		return true
	}

	if len(db.AcceptableSmoking) > 0 && candidate.Smoking != nil {
		if !slices.Contains(db.AcceptableSmoking, *candidate.Smoking) {
			return false
		}
	}
	if len(db.AcceptableDrinking) > 0 && candidate.Drinking != nil {
		if !slices.Contains(db.AcceptableDrinking, *candidate.Drinking) {
			return false
		}
	}
	if len(db.AcceptableKidsStance) > 0 && candidate.WantsKids != nil {
		if !slices.Contains(db.AcceptableKidsStance, *candidate.WantsKids) {
			return false
		}
	}
	if len(db.AcceptableLookingFor) > 0 && candidate.LookingFor != nil {
		if !slices.Contains(db.AcceptableLookingFor, *candidate.LookingFor) {
			return false
		}
	}
	if len(db.AcceptableEducation) > 0 && candidate.Education != nil {
		if !slices.Contains(db.AcceptableEducation, *candidate.Education) {
			return false
		}
	}

	if candidate.HeightCM != nil {
		if db.MinHeightCM != nil && *candidate.HeightCM < *db.MinHeightCM {
			return false
		}
		if db.MaxHeightCM != nil && *candidate.HeightCM > *db.MaxHeightCM {
			return false
		}
	}

	if db.MaxAgeDifference != nil && seeker.Age > 0 && candidate.Age > 0 {
		diff := seeker.Age - candidate.Age
		if diff < 0 {
			diff = -diff
		}
		if diff > *db.MaxAgeDifference {
			return false
		}
	}

	return true
}
