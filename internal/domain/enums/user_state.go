package enums

type UserState string

const (
	UserStateIncomplete UserState = "incomplete"
	UserStateActive     UserState = "active"
	UserStatePaused     UserState = "paused"
	UserStateBanned     UserState = "banned"
)
