package queries

const (
	QueryGetProfile = `
		SELECT user_id, first_name, last_name, user_name, date_of_birth, description, profile_picture,
		       primary_skill, experience, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1;
	`
	QueryUpsertProfile = `
		INSERT INTO user_profiles (user_id, first_name, last_name, user_name, date_of_birth, description,
		                           profile_picture, primary_skill, experience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    user_name = EXCLUDED.user_name,
		    date_of_birth = EXCLUDED.date_of_birth,
		    description = EXCLUDED.description,
		    profile_picture = EXCLUDED.profile_picture,
		    primary_skill = EXCLUDED.primary_skill,
		    experience = EXCLUDED.experience,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at;
	`
)
