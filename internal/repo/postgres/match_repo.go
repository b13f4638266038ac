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

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

type ActiveMatchRecord struct {
	ID           int64
	TargetUserID int64
	DisplayName  string
	Age          int
	CreatedAt    time.Time
}

// CreateActive inserts an active match for the pair in canonical order. The
// partial unique index on active pairs makes concurrent mutual swipes collapse
// into one row; when the insert loses the race the surviving row is read back,
// so both callers see the same match and exactly one sees created=true.
func (r *MatchRepo) CreateActive(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (model.Match, bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return model.Match{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	userA, userB := orderPair(userID, targetID)

	var rec model.Match
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	user_a_id,
	user_b_id,
	state,
	created_at
) VALUES ($1, $2, 'active', $3)
ON CONFLICT (user_a_id, user_b_id) WHERE state = 'active' DO NOTHING
RETURNING id, user_a_id, user_b_id, state, created_at
`, userA, userB, now.UTC()).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.State,
		&rec.CreatedAt,
	)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Match{}, false, fmt.Errorf("create match: %w", err)
	}

	rec, err = r.getActiveByPairTx(ctx, tx, userA, userB)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("read back active match: %w", err)
	}
	return rec, false, nil
}

func (r *MatchRepo) getActiveByPairTx(ctx context.Context, tx pgx.Tx, userA, userB int64) (model.Match, error) {
	var rec model.Match
	err := tx.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, state, created_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2 AND state = 'active'
`, userA, userB).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.State,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, err
	}
	return rec, nil
}

func (r *MatchRepo) GetActiveByPair(ctx context.Context, userID, targetID int64) (model.Match, error) {
	if userID <= 0 || targetID <= 0 {
		return model.Match{}, fmt.Errorf("invalid match lookup")
	}
	if r.pool == nil {
		return model.Match{}, ErrMatchNotFound
	}

	userA, userB := orderPair(userID, targetID)

	var rec model.Match
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, state, created_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2 AND state = 'active'
`, userA, userB).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.State,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get active match by pair: %w", err)
	}

	return rec, nil
}

// DeleteByID removes a match row outright. Used by undo, where the match is
// erased as if it never happened rather than transitioned to ended.
func (r *MatchRepo) DeleteByID(ctx context.Context, tx pgx.Tx, matchID int64) (bool, error) {
	if matchID <= 0 {
		return false, fmt.Errorf("invalid match id")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM matches
WHERE id = $1
`, matchID)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// End transitions an active match to ended. Only a participant may end it.
func (r *MatchRepo) End(ctx context.Context, matchID, endedBy int64, reason enums.MatchEndReason, now time.Time) error {
	if matchID <= 0 || endedBy <= 0 {
		return fmt.Errorf("invalid match end payload")
	}
	if r.pool == nil {
		return ErrMatchNotFound
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := r.pool.Exec(ctx, `
UPDATE matches
SET state = 'ended', ended_at = $3, ended_by = $2, end_reason = $4
WHERE id = $1
	AND state = 'active'
	AND (user_a_id = $2 OR user_b_id = $2)
`, matchID, endedBy, now.UTC(), string(reason))
	if err != nil {
		return fmt.Errorf("end match: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID int64, limit int) ([]ActiveMatchRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []ActiveMatchRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END AS target_user_id,
	COALESCE(u.display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), u.birthdate::timestamp))::int, 0),
	m.created_at
FROM matches m
JOIN users u ON u.id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE
	(m.user_a_id = $1 OR m.user_b_id = $1)
	AND m.state = 'active'
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	defer rows.Close()

	items := make([]ActiveMatchRecord, 0, limit)
	for rows.Next() {
		var item ActiveMatchRecord
		if err := rows.Scan(
			&item.ID,
			&item.TargetUserID,
			&item.DisplayName,
			&item.Age,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan active match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active matches: %w", rows.Err())
	}

	return items, nil
}

func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
