package repository

import (
	"context"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `id, name, category, description, market_demand, trending_score, average_salary, created_at, updated_at`

func (r *PostgresSkillRepository) List(ctx context.Context, category string) ([]skill.Skill, error) {
	category = strings.TrimSpace(category)
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT `+skillColumns+`
		 FROM skills
		 WHERE ($1 = '' OR lower(category) = lower($1))
		 ORDER BY market_demand DESC, name ASC`,
		category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id)
	s, err := scanSkill(row)
	if err != nil && isNoRows(err) {
		return skill.Skill{}, skill.ErrNotFound
	}
	return s, err
}

// Create clamps scores before writing; the table CHECK constraints would
// reject out-of-range values otherwise.
func (r *PostgresSkillRepository) Create(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	s = s.Normalize()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO skills (id, name, category, description, market_demand, trending_score, average_salary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+skillColumns,
		s.ID, s.Name, s.Category, s.Description, s.MarketDemand, s.TrendingScore, s.AverageSalary,
	)
	out, err := scanSkill(row)
	if err != nil && isUniqueViolation(err) {
		return skill.Skill{}, skill.ErrAlreadyExists
	}
	return out, err
}

func (r *PostgresSkillRepository) Update(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	s = s.Normalize()
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`UPDATE skills SET
			name = $2,
			category = $3,
			description = $4,
			market_demand = $5,
			trending_score = $6,
			average_salary = $7,
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+skillColumns,
		s.ID, s.Name, s.Category, s.Description, s.MarketDemand, s.TrendingScore, s.AverageSalary,
	)
	out, err := scanSkill(row)
	if err != nil {
		switch {
		case isNoRows(err):
			return skill.Skill{}, skill.ErrNotFound
		case isUniqueViolation(err):
			return skill.Skill{}, skill.ErrAlreadyExists
		}
	}
	return out, err
}

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.MarketDemand, &s.TrendingScore,
		&s.AverageSalary, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
