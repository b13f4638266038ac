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

var ErrUndoStateNotFound = errors.New("undo state not found")

// UndoRepo stores the single undo slot each user holds. The table is keyed by
// user id, so saving a new slot overwrites the previous one in place.
type UndoRepo struct {
	pool *pgxpool.Pool
}

func NewUndoRepo(pool *pgxpool.Pool) *UndoRepo {
	return &UndoRepo{pool: pool}
}

func (r *UndoRepo) Save(ctx context.Context, tx pgx.Tx, state model.UndoState) error {
	if state.UserID <= 0 || state.SwipeID <= 0 || state.TargetUserID <= 0 {
		return fmt.Errorf("invalid undo state payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	var matchID any
	if state.MatchID != nil {
		matchID = *state.MatchID
	}

	_, err := tx.Exec(ctx, `
INSERT INTO undo_states (
	user_id,
	swipe_id,
	target_user_id,
	direction,
	match_id,
	expires_at,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
	swipe_id = EXCLUDED.swipe_id,
	target_user_id = EXCLUDED.target_user_id,
	direction = EXCLUDED.direction,
	match_id = EXCLUDED.match_id,
	expires_at = EXCLUDED.expires_at,
	created_at = EXCLUDED.created_at
`, state.UserID, state.SwipeID, state.TargetUserID, string(state.Direction), matchID, state.ExpiresAt.UTC(), state.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save undo state: %w", err)
	}

	return nil
}

func (r *UndoRepo) GetByUser(ctx context.Context, userID int64) (model.UndoState, error) {
	if userID <= 0 {
		return model.UndoState{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.UndoState{}, ErrUndoStateNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT user_id, swipe_id, target_user_id, direction, match_id, expires_at, created_at
FROM undo_states
WHERE user_id = $1
`, userID)

	state, err := scanUndoState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UndoState{}, ErrUndoStateNotFound
		}
		return model.UndoState{}, fmt.Errorf("get undo state: %w", err)
	}

	return state, nil
}

// ClaimByUser atomically removes and returns the user's undo slot. The delete
// takes the row lock, so two concurrent undo calls cannot both claim it.
func (r *UndoRepo) ClaimByUser(ctx context.Context, tx pgx.Tx, userID int64) (model.UndoState, error) {
	if userID <= 0 {
		return model.UndoState{}, fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return model.UndoState{}, fmt.Errorf("transaction is required")
	}

	row := tx.QueryRow(ctx, `
DELETE FROM undo_states
WHERE user_id = $1
RETURNING user_id, swipe_id, target_user_id, direction, match_id, expires_at, created_at
`, userID)

	state, err := scanUndoState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UndoState{}, ErrUndoStateNotFound
		}
		return model.UndoState{}, fmt.Errorf("claim undo state: %w", err)
	}

	return state, nil
}

func (r *UndoRepo) DeleteByUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM undo_states
WHERE user_id = $1
`, userID); err != nil {
		return fmt.Errorf("delete undo state: %w", err)
	}

	return nil
}

// DeleteExpired sweeps slots whose window closed before the cutoff.
func (r *UndoRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM undo_states
WHERE expires_at <= $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired undo states: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanUndoState(row pgx.Row) (model.UndoState, error) {
	var (
		state     model.UndoState
		direction string
	)

	err := row.Scan(
		&state.UserID,
		&state.SwipeID,
		&state.TargetUserID,
		&direction,
		&state.MatchID,
		&state.ExpiresAt,
		&state.CreatedAt,
	)
	if err != nil {
		return model.UndoState{}, err
	}

	state.Direction = enums.SwipeDirection(direction)
	return state, nil
}
