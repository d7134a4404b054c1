package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository"
	"github.com/cwrk-planet/creator-hub/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	q querier
}

// NewUserRepoFromPool - конструктор от пула (*pgxpool.Pool)
func NewUserRepoFromPool(q querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	var location *string
	if u.Location != nil {
		l := string(*u.Location)
		location = &l
	}

	_, err := r.q.Exec(
		ctx,
		queries.QueryCreateUser,
		u.ID,
		string(u.Role),
		u.Email,
		nullIfEmpty(u.PasswordHash),
		u.FirstName,
		u.LastName,
		u.UserName,
		u.DateOfBirth,
		u.Description,
		u.ProfilePicture,
		skillArg(u.PrimarySkill),
		intArg(u.Experience),
		location,
		string(u.Provider),
		u.CreatedAt,
		u.UpdatedAt,
	)

	return mapPgError(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return scanUser(r.q.QueryRow(ctx, queries.QueryGetUserByID, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.q.QueryRow(ctx, queries.QueryGetUserByEmail, domain.NormalizeEmail(email)))
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, queries.QueryExistsUserByEmail, domain.NormalizeEmail(email)).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, mapPgError(err)
	}

	return true, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, queries.QueryCountUsers).Scan(&n); err != nil {
		return 0, mapPgError(err)
	}

	return n, nil
}

func (r *UserRepo) SyncProfile(ctx context.Context, p *domain.Profile, now time.Time) error {
	tag, err := r.q.Exec(
		ctx,
		queries.QuerySyncUserProfile,
		p.UserID,
		p.FirstName,
		p.LastName,
		p.UserName,
		p.DateOfBirth,
		p.Description,
		p.ProfilePicture,
		skillArg(p.PrimarySkill),
		intArg(p.Experience),
		now,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepo) ListByRole(ctx context.Context, role domain.Role, offset, limit int) ([]domain.User, error) {
	rows, err := r.q.Query(ctx, queries.QueryListUsersByRole, string(role), offset, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}

	return out, mapPgError(rows.Err())
}

func (r *UserRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, queries.QueryCountUsersByRole, string(role)).Scan(&n); err != nil {
		return 0, mapPgError(err)
	}

	return n, nil
}

func (r *UserRepo) Summaries(ctx context.Context, ids ...domain.UserID) (map[domain.UserID]domain.UserSummary, error) {
	out := make(map[domain.UserID]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.q.Query(ctx, queries.QueryUserSummaries, ids)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.UserName, &s.Email); err != nil {
			return nil, mapPgError(err)
		}
		out[s.ID] = s
	}

	return out, mapPgError(rows.Err())
}
