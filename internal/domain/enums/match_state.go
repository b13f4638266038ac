package enums

type MatchState string

const (
	MatchStateActive MatchState = "active"
	MatchStateEnded  MatchState = "ended"
)

type MatchEndReason string

const (
	MatchEndReasonUnmatched MatchEndReason = "unmatched"
	MatchEndReasonBlocked   MatchEndReason = "blocked"
	MatchEndReasonUndone    MatchEndReason = "undone"
)
