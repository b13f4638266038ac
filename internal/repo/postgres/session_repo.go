package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
)

var ErrSessionNotFound = errors.New("swipe session not found")

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// SessionAggregates summarizes a user's completed swipe sessions.
type SessionAggregates struct {
	SessionCount        int
	TotalSwipes         int
	TotalLikes          int
	TotalPasses         int
	TotalMatches        int
	AvgSwipesPerSession float64
	AvgDurationSeconds  float64
}

const sessionColumns = `
	id, user_id, started_at, last_activity_at, ended_at, state,
	swipe_count, like_count, pass_count, match_count
`

// GetActiveForUpdate loads the user's active session and locks the row for
// the duration of the swipe transaction.
func (r *SessionRepo) GetActiveForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (model.SwipeSession, error) {
	if userID <= 0 {
		return model.SwipeSession{}, fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return model.SwipeSession{}, fmt.Errorf("transaction is required")
	}

	row := tx.QueryRow(ctx, `
SELECT `+sessionColumns+`
FROM swipe_sessions
WHERE user_id = $1 AND state = 'active'
FOR UPDATE
`, userID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SwipeSession{}, ErrSessionNotFound
		}
		return model.SwipeSession{}, fmt.Errorf("get active session: %w", err)
	}

	return session, nil
}

func (r *SessionRepo) GetActive(ctx context.Context, userID int64) (model.SwipeSession, error) {
	if userID <= 0 {
		return model.SwipeSession{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.SwipeSession{}, ErrSessionNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+sessionColumns+`
FROM swipe_sessions
WHERE user_id = $1 AND state = 'active'
`, userID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SwipeSession{}, ErrSessionNotFound
		}
		return model.SwipeSession{}, fmt.Errorf("get active session: %w", err)
	}

	return session, nil
}

func (r *SessionRepo) Create(ctx context.Context, tx pgx.Tx, session model.SwipeSession) error {
	if session.ID == "" || session.UserID <= 0 {
		return fmt.Errorf("invalid session payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	_, err := tx.Exec(ctx, `
INSERT INTO swipe_sessions (
	id,
	user_id,
	started_at,
	last_activity_at,
	state,
	swipe_count,
	like_count,
	pass_count,
	match_count
) VALUES ($1, $2, $3, $4, 'active', $5, $6, $7, $8)
`, session.ID, session.UserID, session.StartedAt.UTC(), session.LastActivityAt.UTC(),
		session.SwipeCount, session.LikeCount, session.PassCount, session.MatchCount)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// ApplySwipe bumps the session counters for one recorded swipe.
func (r *SessionRepo) ApplySwipe(ctx context.Context, tx pgx.Tx, sessionID string, direction enums.SwipeDirection, matched bool, now time.Time) error {
	if sessionID == "" || !direction.Valid() {
		return fmt.Errorf("invalid session swipe payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	likeDelta := 0
	passDelta := 0
	if direction == enums.SwipeDirectionLike {
		likeDelta = 1
	} else {
		passDelta = 1
	}
	matchDelta := 0
	if matched {
		matchDelta = 1
	}

	result, err := tx.Exec(ctx, `
UPDATE swipe_sessions
SET
	swipe_count = swipe_count + 1,
	like_count = like_count + $2,
	pass_count = pass_count + $3,
	match_count = match_count + $4,
	last_activity_at = $5
WHERE id = $1 AND state = 'active'
`, sessionID, likeDelta, passDelta, matchDelta, now.UTC())
	if err != nil {
		return fmt.Errorf("apply session swipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *SessionRepo) End(ctx context.Context, tx pgx.Tx, sessionID string, endedAt time.Time) error {
	if sessionID == "" {
		return fmt.Errorf("invalid session id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE swipe_sessions
SET state = 'completed', ended_at = $2
WHERE id = $1 AND state = 'active'
`, sessionID, endedAt.UTC())
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// EndActiveFor completes the user's active session outside any transaction.
func (r *SessionRepo) EndActiveFor(ctx context.Context, userID int64, endedAt time.Time) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return false, nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE swipe_sessions
SET state = 'completed', ended_at = $2
WHERE user_id = $1 AND state = 'active'
`, userID, endedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("end active session: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// EndStale completes every active session idle since before the cutoff. The
// session is stamped as ending at its last activity, not at sweep time.
func (r *SessionRepo) EndStale(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE swipe_sessions
SET state = 'completed', ended_at = last_activity_at
WHERE state = 'active' AND last_activity_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("end stale sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

// Aggregates summarizes all of the user's sessions, a still-open one
// included. An open session has no end yet, so it contributes zero duration.
func (r *SessionRepo) Aggregates(ctx context.Context, userID int64) (SessionAggregates, error) {
	if userID <= 0 {
		return SessionAggregates{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return SessionAggregates{}, nil
	}

	var agg SessionAggregates
	err := r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COALESCE(SUM(swipe_count), 0),
	COALESCE(SUM(like_count), 0),
	COALESCE(SUM(pass_count), 0),
	COALESCE(SUM(match_count), 0),
	COALESCE(AVG(swipe_count), 0),
	COALESCE(AVG(COALESCE(EXTRACT(EPOCH FROM (ended_at - started_at)), 0)), 0)
FROM swipe_sessions
WHERE user_id = $1
`, userID).Scan(
		&agg.SessionCount,
		&agg.TotalSwipes,
		&agg.TotalLikes,
		&agg.TotalPasses,
		&agg.TotalMatches,
		&agg.AvgSwipesPerSession,
		&agg.AvgDurationSeconds,
	)
	if err != nil {
		return SessionAggregates{}, fmt.Errorf("aggregate sessions: %w", err)
	}

	return agg, nil
}

func scanSession(row pgx.Row) (model.SwipeSession, error) {
	var (
		session model.SwipeSession
		state   string
	)

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.StartedAt,
		&session.LastActivityAt,
		&session.EndedAt,
		&state,
		&session.SwipeCount,
		&session.LikeCount,
		&session.PassCount,
		&session.MatchCount,
	)
	if err != nil {
		return model.SwipeSession{}, err
	}

	session.State = model.SwipeSessionState(state)
	return session, nil
}
