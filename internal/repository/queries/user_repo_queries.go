package queries

const userColumns = `id, role, email, password_hash, first_name, last_name, user_name, date_of_birth,
		       description, profile_picture, primary_skill, experience, location, auth_provider,
		       created_at, updated_at`

const (
	QueryCreateUser = `
		INSERT INTO users (id, role, email, password_hash, first_name, last_name, user_name, date_of_birth,
		                   description, profile_picture, primary_skill, experience, location, auth_provider,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	QueryGetUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1;
	`
	QueryGetUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1;
	`
	QueryExistsUserByEmail = `SELECT 1 FROM users WHERE email = $1;`
	QueryCountUsers        = `SELECT count(*) FROM users;`
	QueryListUsersByRole   = `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3;
	`
	QueryCountUsersByRole = `SELECT count(*) FROM users WHERE role = $1;`
	QueryUserSummaries    = `
		SELECT id, first_name, last_name, user_name, email
		FROM users
		WHERE id = ANY($1);
	`
	QuerySyncUserProfile = `
		UPDATE users
		SET first_name = $2, last_name = $3, user_name = $4, date_of_birth = $5, description = $6,
		    profile_picture = $7, primary_skill = $8, experience = $9, updated_at = $10
		WHERE id = $1;
	`
)
