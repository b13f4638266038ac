package model

import "github.com/TomShtern/Date-Program-sub013/internal/domain/enums"

// Dealbreakers are a user's hard filters. An empty set or nil bound means
// "no preference" on that axis. Dealbreakers are one-way: they shape what
// their owner sees, not who can see the owner.
type Dealbreakers struct {
	AcceptableSmoking    []enums.Smoking    `json:"acceptable_smoking"`
	AcceptableDrinking   []enums.Drinking   `json:"acceptable_drinking"`
	AcceptableKidsStance []enums.WantsKids  `json:"acceptable_kids_stance"`
	AcceptableLookingFor []enums.LookingFor `json:"acceptable_looking_for"`
	AcceptableEducation  []enums.Education  `json:"acceptable_education"`

	MinHeightCM *int `json:"min_height_cm"`
	MaxHeightCM *int `json:"max_height_cm"`

	MaxAgeDifference *int `json:"max_age_difference"`
}

func (d Dealbreakers) HasAny() bool {
	return len(d.AcceptableSmoking) > 0 ||
		len(d.AcceptableDrinking) > 0 ||
		len(d.AcceptableKidsStance) > 0 ||
		len(d.AcceptableLookingFor) > 0 ||
		len(d.AcceptableEducation) > 0 ||
		d.MinHeightCM != nil ||
		d.MaxHeightCM != nil ||
		d.MaxAgeDifference != nil
}
