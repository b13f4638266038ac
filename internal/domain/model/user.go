package model

import (
	"time"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
)

type User struct {
	ID            int64           `json:"id"`
	DisplayName   string          `json:"display_name"`
	Age           int             `json:"age"`
	Gender        enums.Gender    `json:"gender"`
	InterestedIn  []enums.Gender  `json:"interested_in"`
	State         enums.UserState `json:"state"`
	Timezone      string          `json:"timezone"`
	Lat           float64         `json:"lat"`
	Lon           float64         `json:"lon"`
	MaxDistanceKM float64         `json:"max_distance_km"`
	MinAge        int             `json:"min_age"`
	MaxAge        int             `json:"max_age"`

	Smoking    *enums.Smoking    `json:"smoking"`
	Drinking   *enums.Drinking   `json:"drinking"`
	WantsKids  *enums.WantsKids  `json:"wants_kids"`
	LookingFor *enums.LookingFor `json:"looking_for"`
	Education  *enums.Education  `json:"education"`
	HeightCM   *int              `json:"height_cm"`

	Dealbreakers Dealbreakers `json:"dealbreakers"`
	CreatedAt    time.Time    `json:"created_at"`
}

// HasLocation reports whether the user has set coordinates. The zero
// coordinate pair means "not set", matching the profile subsystem.
func (u User) HasLocation() bool {
	return u.Lat != 0 || u.Lon != 0
}

func (u User) InterestedInGender(g enums.Gender) bool {
	for _, want := range u.InterestedIn {
		if want == g {
			return true
		}
	}
	return false
}
