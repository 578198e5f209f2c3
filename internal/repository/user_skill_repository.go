package repository

import (
	"context"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const userSkillSelect = `SELECT us.id, us.user_id, us.skill_id, s.name, s.category, s.market_demand, s.trending_score,
	s.average_salary, us.proficiency, us.current_level, us.target_level, us.years_experience, us.updated_at
	FROM user_skills us
	JOIN skills s ON s.id = us.skill_id`

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		userSkillSelect+` WHERE us.user_id = $1 ORDER BY us.proficiency DESC, s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UserSkill, 0)
	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) FindByUserAndSkill(ctx context.Context, userID, skillID uuid.UUID) (skill.UserSkill, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		userSkillSelect+` WHERE us.user_id = $1 AND us.skill_id = $2`,
		userID, skillID,
	)
	us, err := scanUserSkill(row)
	if err != nil && isNoRows(err) {
		return skill.UserSkill{}, skill.ErrNotFound
	}
	return us, err
}

func (r *PostgresUserSkillRepository) Upsert(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	us = us.Normalize()
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	q := database.Conn(ctx, r.db)
	_, err := q.Exec(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, proficiency, current_level, target_level, years_experience)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, skill_id) DO UPDATE SET
			proficiency = EXCLUDED.proficiency,
			current_level = EXCLUDED.current_level,
			target_level = EXCLUDED.target_level,
			years_experience = EXCLUDED.years_experience,
			updated_at = now()`,
		us.ID, us.UserID, us.SkillID, us.Proficiency, string(us.CurrentLevel), string(us.TargetLevel), us.YearsExperience,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return skill.UserSkill{}, skill.ErrNotFound
		}
		return skill.UserSkill{}, err
	}

	row := q.QueryRow(ctx, userSkillSelect+` WHERE us.user_id = $1 AND us.skill_id = $2`, us.UserID, us.SkillID)
	return scanUserSkill(row)
}

func (r *PostgresUserSkillRepository) Delete(ctx context.Context, userID, skillID uuid.UUID) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM user_skills WHERE user_id = $1 AND skill_id = $2`,
		userID, skillID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return skill.ErrNotFound
	}
	return nil
}

func scanUserSkill(row database.Row) (skill.UserSkill, error) {
	var (
		us              skill.UserSkill
		current, target string
	)
	err := row.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Category, &us.MarketDemand, &us.TrendingScore,
		&us.AverageSalary, &us.Proficiency, &current, &target, &us.YearsExperience, &us.UpdatedAt)
	if err != nil {
		return skill.UserSkill{}, err
	}
	us.CurrentLevel = skill.Level(current)
	us.TargetLevel = skill.Level(target)
	return us, nil
}
