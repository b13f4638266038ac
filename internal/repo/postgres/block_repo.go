package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BlockRepo reads the block graph maintained by the safety subsystem. The
// matching engine only consumes blocks; it never writes them.
type BlockRepo struct {
	pool *pgxpool.Pool
}

func NewBlockRepo(pool *pgxpool.Pool) *BlockRepo {
	return &BlockRepo{pool: pool}
}

// ExistsBetween reports whether either user has blocked the other.
func (r *BlockRepo) ExistsBetween(ctx context.Context, userID, targetID int64) (bool, error) {
	if userID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid block lookup")
	}
	if r.pool == nil {
		return false, nil
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM blocks
WHERE (actor_user_id = $1 AND target_user_id = $2)
	OR (actor_user_id = $2 AND target_user_id = $1)
LIMIT 1
`, userID, targetID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup block: %w", err)
	}

	return true, nil
}

// BlockedUserIDs returns every user blocked by or blocking the given user.
func (r *BlockRepo) BlockedUserIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return map[int64]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT CASE WHEN actor_user_id = $1 THEN target_user_id ELSE actor_user_id END
FROM blocks
WHERE actor_user_id = $1 OR target_user_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list blocked user ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blocked user id: %w", err)
		}
		ids[id] = struct{}{}
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate blocked user ids: %w", rows.Err())
	}

	return ids, nil
}
