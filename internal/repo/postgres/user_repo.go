package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
	"github.com/TomShtern/Date-Program-sub013/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
	u.id,
	COALESCE(u.display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), u.birthdate::timestamp))::int, 0),
	COALESCE(u.gender, ''),
	COALESCE(u.interested_in, '{}'::text[]),
	u.state,
	COALESCE(u.timezone, ''),
	COALESCE(u.lat, 0),
	COALESCE(u.lon, 0),
	COALESCE(u.max_distance_km, 0),
	COALESCE(u.min_age, 0),
	COALESCE(u.max_age, 0),
	u.smoking,
	u.drinking,
	u.wants_kids,
	u.looking_for,
	u.education,
	u.height_cm,
	COALESCE(u.dealbreakers, '{}'::jsonb),
	u.created_at
`

func (r *UserRepo) Get(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.User{}, ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users u
WHERE u.id = $1
`, userID)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// ListActiveExcept returns every active user other than the given one.
// Discovery filtering happens in the candidates service, not in SQL, so the
// filter pipeline stays testable without a database.
func (r *UserRepo) ListActiveExcept(ctx context.Context, userID int64) ([]model.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []model.User{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users u
WHERE u.state = 'active' AND u.id <> $1
ORDER BY u.id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, 64)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active users: %w", rows.Err())
	}

	return users, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user         model.User
		gender       string
		interestedIn []string
		state        string
		smoking      *string
		drinking     *string
		wantsKids    *string
		lookingFor   *string
		education    *string
		dealbreakers []byte
	)

	err := row.Scan(
		&user.ID,
		&user.DisplayName,
		&user.Age,
		&gender,
		&interestedIn,
		&state,
		&user.Timezone,
		&user.Lat,
		&user.Lon,
		&user.MaxDistanceKM,
		&user.MinAge,
		&user.MaxAge,
		&smoking,
		&drinking,
		&wantsKids,
		&lookingFor,
		&education,
		&user.HeightCM,
		&dealbreakers,
		&user.CreatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	user.Gender = enums.Gender(gender)
	user.State = enums.UserState(state)
	user.InterestedIn = make([]enums.Gender, 0, len(interestedIn))
	for _, g := range interestedIn {
		user.InterestedIn = append(user.InterestedIn, enums.Gender(g))
	}

	user.Smoking = convertEnum[enums.Smoking](smoking)
	user.Drinking = convertEnum[enums.Drinking](drinking)
	user.WantsKids = convertEnum[enums.WantsKids](wantsKids)
	user.LookingFor = convertEnum[enums.LookingFor](lookingFor)
	user.Education = convertEnum[enums.Education](education)

	if len(dealbreakers) > 0 {
		if err := json.Unmarshal(dealbreakers, &user.Dealbreakers); err != nil {
			return model.User{}, fmt.Errorf("decode dealbreakers: %w", err)
		}
	}

	return user, nil
}

func convertEnum[T ~string](value *string) *T {
	if value == nil || *value == "" {
		return nil
	}
	converted := T(*value)
	return &converted
}
