package repository

import (
	"context"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

type PostgresProgressRepository struct {
	db database.DB
}

func NewPostgresProgressRepository(db database.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

const progressSelect = `SELECT id, user_id, learning_path_id, skill_id, completion, time_spent_minutes, notes, created_at
	FROM progress`

func (r *PostgresProgressRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]learning.Progress, error) {
	return r.list(ctx,
		progressSelect+` WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, sqlLimit(limit),
	)
}

func (r *PostgresProgressRepository) ListByPath(ctx context.Context, userID, pathID uuid.UUID, limit int) ([]learning.Progress, error) {
	return r.list(ctx,
		progressSelect+` WHERE user_id = $1 AND learning_path_id = $2 ORDER BY created_at DESC, id DESC LIMIT $3`,
		userID, pathID, sqlLimit(limit),
	)
}

func (r *PostgresProgressRepository) Append(ctx context.Context, p learning.Progress) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO progress (id, user_id, learning_path_id, skill_id, completion, time_spent_minutes, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.PathID, p.SkillID, p.Completion, p.TimeSpentMinutes, p.Notes, p.CreatedAt,
	)
	if constraint, ok := foreignKeyConstraint(err); ok {
		if strings.Contains(constraint, "skill") {
			return skill.ErrNotFound
		}
		return learning.ErrPathNotFound
	}
	return err
}

func (r *PostgresProgressRepository) list(ctx context.Context, query string, args ...any) ([]learning.Progress, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]learning.Progress, 0)
	for rows.Next() {
		var p learning.Progress
		if err := rows.Scan(&p.ID, &p.UserID, &p.PathID, &p.SkillID, &p.Completion, &p.TimeSpentMinutes, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// sqlLimit maps "no limit" to NULL, which LIMIT treats as unbounded.
func sqlLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

type PostgresMilestoneRepository struct {
	db database.DB
}

func NewPostgresMilestoneRepository(db database.DB) *PostgresMilestoneRepository {
	return &PostgresMilestoneRepository{db: db}
}

func (r *PostgresMilestoneRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]learning.Milestone, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT id, user_id, title, description, points, badge, achieved_at
		 FROM milestones
		 WHERE user_id = $1
		 ORDER BY achieved_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]learning.Milestone, 0)
	for rows.Next() {
		var m learning.Milestone
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Description, &m.Points, &m.Badge, &m.AchievedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMilestoneRepository) Create(ctx context.Context, m learning.Milestone) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO milestones (id, user_id, title, description, points, badge, achieved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.UserID, m.Title, m.Description, m.Points, m.Badge, m.AchievedAt,
	)
	return err
}
