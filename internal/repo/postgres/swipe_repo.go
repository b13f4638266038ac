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

var ErrSwipeNotFound = errors.New("swipe not found")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Upsert records a swipe from actor to target. A repeat swipe on the same
// target replaces the previous direction instead of inserting a second row.
func (r *SwipeRepo) Upsert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, direction enums.SwipeDirection, now time.Time) (model.Swipe, error) {
	if actorUserID <= 0 || targetUserID <= 0 || !direction.Valid() {
		return model.Swipe{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return model.Swipe{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec model.Swipe
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	actor_user_id,
	target_user_id,
	direction,
	created_at
) VALUES ($1, $2, $3, $4)
ON CONFLICT (actor_user_id, target_user_id) DO UPDATE SET
	direction = EXCLUDED.direction,
	created_at = EXCLUDED.created_at
RETURNING id, actor_user_id, target_user_id, direction, created_at
`, actorUserID, targetUserID, string(direction), now.UTC()).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		return model.Swipe{}, fmt.Errorf("upsert swipe: %w", err)
	}

	return rec, nil
}

func (r *SwipeRepo) Get(ctx context.Context, actorUserID, targetUserID int64) (model.Swipe, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return model.Swipe{}, fmt.Errorf("invalid swipe lookup")
	}
	if r.pool == nil {
		return model.Swipe{}, ErrSwipeNotFound
	}

	var rec model.Swipe
	err := r.pool.QueryRow(ctx, `
SELECT id, actor_user_id, target_user_id, direction, created_at
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2
`, actorUserID, targetUserID).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Swipe{}, ErrSwipeNotFound
		}
		return model.Swipe{}, fmt.Errorf("get swipe: %w", err)
	}

	return rec, nil
}

// HasReverseLike reports whether target already liked actor. Runs inside the
// swipe transaction so the mutual-match decision sees the latest committed row.
func (r *SwipeRepo) HasReverseLike(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (bool, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid swipe lookup")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2 AND direction = 'LIKE'
LIMIT 1
`, targetUserID, actorUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reverse like: %w", err)
	}

	return true, nil
}

func (r *SwipeRepo) DeleteByID(ctx context.Context, tx pgx.Tx, swipeID int64) error {
	if swipeID <= 0 {
		return fmt.Errorf("invalid swipe id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM swipes
WHERE id = $1
`, swipeID)
	if err != nil {
		return fmt.Errorf("delete swipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSwipeNotFound
	}
	return nil
}

// CountDirectionSince counts committed swipes of one direction since the given
// instant. Undone swipes are deleted rows, so they never count against quota.
func (r *SwipeRepo) CountDirectionSince(ctx context.Context, actorUserID int64, direction enums.SwipeDirection, since time.Time) (int, error) {
	if actorUserID <= 0 || !direction.Valid() {
		return 0, fmt.Errorf("invalid swipe count lookup")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM swipes
WHERE actor_user_id = $1 AND direction = $2 AND created_at >= $3
`, actorUserID, string(direction), since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count swipes since: %w", err)
	}

	return count, nil
}

// SwipedUserIDs returns every target the actor has ever swiped, used to
// exclude them from candidate discovery.
func (r *SwipeRepo) SwipedUserIDs(ctx context.Context, actorUserID int64) (map[int64]struct{}, error) {
	if actorUserID <= 0 {
		return nil, fmt.Errorf("invalid actor user id")
	}
	if r.pool == nil {
		return map[int64]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT target_user_id
FROM swipes
WHERE actor_user_id = $1
`, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("list swiped user ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swiped user id: %w", err)
		}
		ids[id] = struct{}{}
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swiped user ids: %w", rows.Err())
	}

	return ids, nil
}
