package rules

import (
	"testing"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
)

func smokingPtr(v enums.Smoking) *enums.Smoking { return &v }
func intPtr(v int) *int                         { return &v }

func TestNoDealbreakersPassesEveryone(t *testing.T) {
	seeker := model.User{ID: 1}
	candidate := model.User{ID: 2, Smoking: smokingPtr(enums.SmokingRegularly)}

	if !PassesDealbreakers(seeker, candidate) {
		t.Fatalf("expected pass when seeker has no dealbreakers")
	}
}

func TestSmokingDealbreakerRejectsMismatch(t *testing.T) {
	seeker := model.User{
		ID: 1,
		Dealbreakers: model.Dealbreakers{
			AcceptableSmoking: []enums.Smoking{enums.SmokingNever},
		},
	}

	smoker := model.User{ID: 2, Smoking: smokingPtr(enums.SmokingRegularly)}
	if PassesDealbreakers(seeker, smoker) {
		t.Fatalf("expected regular smoker to be rejected")
	}

	nonSmoker := model.User{ID: 3, Smoking: smokingPtr(enums.SmokingNever)}
	if !PassesDealbreakers(seeker, nonSmoker) {
		t.Fatalf("expected non-smoker to pass")
	}
}

func TestUnsetCandidateAttributeNeverFails(t *testing.T) {
	seeker := model.User{
		ID: 1,
		Dealbreakers: model.Dealbreakers{
			AcceptableSmoking:   []enums.Smoking{enums.SmokingNever},
			AcceptableEducation: []enums.Education{enums.EducationMasters},
			MinHeightCM:         intPtr(170),
		},
	}

	blank := model.User{ID: 2}
	if !PassesDealbreakers(seeker, blank) {
		t.Fatalf("expected candidate with unset attributes to pass")
	}
}

func TestHeightBounds(t *testing.T) {
	seeker := model.User{
		ID: 1,
		Dealbreakers: model.Dealbreakers{
			MinHeightCM: intPtr(165),
			MaxHeightCM: intPtr(190),
		},
	}

	short := model.User{ID: 2, HeightCM: intPtr(160)}
	tall := model.User{ID: 3, HeightCM: intPtr(195)}
	ok := model.User{ID: 4, HeightCM: intPtr(178)}

	if PassesDealbreakers(seeker, short) {
		t.Fatalf("expected candidate below minimum height to be rejected")
	}
	if PassesDealbreakers(seeker, tall) {
		t.Fatalf("expected candidate above maximum height to be rejected")
	}
	if !PassesDealbreakers(seeker, ok) {
		t.Fatalf("expected candidate within height bounds to pass")
	}
}

func TestMaxAgeDifference(t *testing.T) {
	seeker := model.User{
		ID:  1,
		Age: 30,
		Dealbreakers: model.Dealbreakers{
			MaxAgeDifference: intPtr(5),
		},
	}

	tooYoung := model.User{ID: 2, Age: 22}
	if PassesDealbreakers(seeker, tooYoung) {
		t.Fatalf("expected 8 year gap to be rejected")
	}

	within := model.User{ID: 3, Age: 34}
	if !PassesDealbreakers(seeker, within) {
		t.Fatalf("expected 4 year gap to pass")
	}

	unknownAge := model.User{ID: 4, Age: 0}
	if !PassesDealbreakers(seeker, unknownAge) {
		t.Fatalf("expected unknown age to skip the age-difference check")
	}
}
