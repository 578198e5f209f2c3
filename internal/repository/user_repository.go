package repository

import (
	"context"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, role, onboarded, created_at, updated_at`

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.Name, u.PasswordHash, string(u.Role),
	)
	if err != nil && isUniqueViolation(err) {
		return user.ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) MarkOnboarded(ctx context.Context, id uuid.UUID) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users SET onboarded = TRUE, updated_at = now() WHERE id = $1`, id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u    user.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.Onboarded, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `user_id, job_title, target_role, experience_years, learning_goals,
	preferred_style, weekly_hours, timeframe, industry, updated_at`

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil && isNoRows(err) {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return p, err
}

func (r *PostgresProfileRepository) UpsertProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	goals := p.LearningGoals
	if goals == nil {
		goals = []string{}
	}
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO profiles (user_id, job_title, target_role, experience_years, learning_goals,
			preferred_style, weekly_hours, timeframe, industry, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			job_title = EXCLUDED.job_title,
			target_role = EXCLUDED.target_role,
			experience_years = EXCLUDED.experience_years,
			learning_goals = EXCLUDED.learning_goals,
			preferred_style = EXCLUDED.preferred_style,
			weekly_hours = EXCLUDED.weekly_hours,
			timeframe = EXCLUDED.timeframe,
			industry = EXCLUDED.industry,
			updated_at = now()
		 RETURNING `+profileColumns,
		p.UserID, p.CurrentRole, p.TargetRole, p.ExperienceYears, goals,
		p.PreferredStyle, p.WeeklyHours, p.Timeframe, p.Industry,
	)
	out, err := scanProfile(row)
	if err != nil && isForeignKeyViolation(err) {
		return user.Profile{}, user.ErrNotFound
	}
	return out, err
}

func scanProfile(row database.Row) (user.Profile, error) {
	var p user.Profile
	err := row.Scan(&p.UserID, &p.CurrentRole, &p.TargetRole, &p.ExperienceYears, &p.LearningGoals,
		&p.PreferredStyle, &p.WeeklyHours, &p.Timeframe, &p.Industry, &p.UpdatedAt)
	return p, err
}
