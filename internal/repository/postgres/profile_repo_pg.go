package postgres

import (
	"context"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/repository/queries"
)

type ProfileRepo struct {
	q querier
}

func NewProfileRepoFromPool(q querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

func (r *ProfileRepo) Get(ctx context.Context, userID domain.UserID) (*domain.Profile, error) {
	var (
		p          domain.Profile
		dob        *time.Time
		skill      *string
		experience *int32
	)

	err := r.q.QueryRow(ctx, queries.QueryGetProfile, userID).Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.UserName,
		&dob,
		&p.Description,
		&p.ProfilePicture,
		&skill,
		&experience,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	p.DateOfBirth = dob
	p.PrimarySkill = skillPtr(skill)
	p.Experience = intPtr(experience)

	return &p, nil
}

// Upsert inserts or replaces the profile row. A duplicate user_name surfaces
// as repository.ErrAlreadyExists.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	err := r.q.QueryRow(
		ctx,
		queries.QueryUpsertProfile,
		p.UserID,
		p.FirstName,
		p.LastName,
		p.UserName,
		p.DateOfBirth,
		p.Description,
		p.ProfilePicture,
		skillArg(p.PrimarySkill),
		intArg(p.Experience),
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.CreatedAt)

	return mapPgError(err)
}
