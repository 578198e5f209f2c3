package repository

import (
	"context"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

type PostgresLearningPathRepository struct {
	db database.DB
}

func NewPostgresLearningPathRepository(db database.DB) *PostgresLearningPathRepository {
	return &PostgresLearningPathRepository{db: db}
}

// Progress is the completion of the newest progress record for the path.
const pathSelect = `SELECT lp.id, lp.user_id, lp.title, lp.description, lp.difficulty, lp.estimated_hours,
	lp.is_active, lp.created_at, lp.updated_at,
	COALESCE((
		SELECT p.completion FROM progress p
		WHERE p.learning_path_id = lp.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT 1
	), 0)
	FROM learning_paths lp`

func (r *PostgresLearningPathRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]learning.Path, error) {
	q := database.Conn(ctx, r.db)
	rows, err := q.Query(ctx, pathSelect+` WHERE lp.user_id = $1 ORDER BY lp.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make([]learning.Path, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		p, err := scanPath(rows)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(paths) == 0 {
		return paths, nil
	}

	skills, err := r.loadSkills(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	resources, err := r.loadResources(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range paths {
		paths[i].Skills = skills[paths[i].ID]
		paths[i].Resources = resources[paths[i].ID]
	}
	return paths, nil
}

func (r *PostgresLearningPathRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (learning.Path, error) {
	q := database.Conn(ctx, r.db)
	p, err := scanPath(q.QueryRow(ctx, pathSelect+` WHERE lp.id = $1 AND lp.user_id = $2`, id, userID))
	if err != nil {
		if isNoRows(err) {
			return learning.Path{}, learning.ErrPathNotFound
		}
		return learning.Path{}, err
	}

	ids := []uuid.UUID{p.ID}
	skills, err := r.loadSkills(ctx, q, ids)
	if err != nil {
		return learning.Path{}, err
	}
	resources, err := r.loadResources(ctx, q, ids)
	if err != nil {
		return learning.Path{}, err
	}
	p.Skills = skills[p.ID]
	p.Resources = resources[p.ID]
	return p, nil
}

func (r *PostgresLearningPathRepository) Create(ctx context.Context, p learning.Path) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO learning_paths (id, user_id, title, description, difficulty, estimated_hours, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserID, p.Title, p.Description, string(p.Difficulty), p.EstimatedHours, p.IsActive,
	)
	return err
}

func (r *PostgresLearningPathRepository) UpdateDetails(ctx context.Context, p learning.Path) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE learning_paths SET
			title = $3,
			description = $4,
			difficulty = $5,
			estimated_hours = $6,
			is_active = $7,
			updated_at = now()
		 WHERE id = $1 AND user_id = $2`,
		p.ID, p.UserID, p.Title, p.Description, string(p.Difficulty), p.EstimatedHours, p.IsActive,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return learning.ErrPathNotFound
	}
	return nil
}

func (r *PostgresLearningPathRepository) ReplaceSkills(ctx context.Context, pathID uuid.UUID, skills []learning.PathSkill) error {
	q := database.Conn(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM learning_path_skills WHERE learning_path_id = $1`, pathID); err != nil {
		return err
	}
	for _, s := range skills {
		_, err := q.Exec(ctx,
			`INSERT INTO learning_path_skills (learning_path_id, skill_id, position, target_level)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (learning_path_id, skill_id) DO UPDATE SET
				position = EXCLUDED.position,
				target_level = EXCLUDED.target_level`,
			pathID, s.SkillID, s.Order, string(s.TargetLevel),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return skill.ErrNotFound
			}
			return err
		}
	}
	return nil
}

func (r *PostgresLearningPathRepository) ReplaceResources(ctx context.Context, pathID uuid.UUID, resources []learning.Resource) error {
	q := database.Conn(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM resources WHERE learning_path_id = $1`, pathID); err != nil {
		return err
	}
	for _, res := range resources {
		id := res.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := q.Exec(ctx,
			`INSERT INTO resources (id, learning_path_id, title, url, type, duration_minutes, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, pathID, res.Title, res.URL, string(res.Type), res.DurationMinutes, res.Order,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes skill links and resources before the path row. It joins the
// caller's transaction or opens its own.
func (r *PostgresLearningPathRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return database.WithinTx(ctx, r.db, func(ctx context.Context) error {
		q := database.Conn(ctx, r.db)

		var owned bool
		if err := q.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM learning_paths WHERE id = $1 AND user_id = $2)`, id, userID,
		).Scan(&owned); err != nil {
			return err
		}
		if !owned {
			return learning.ErrPathNotFound
		}

		if _, err := q.Exec(ctx, `DELETE FROM learning_path_skills WHERE learning_path_id = $1`, id); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM resources WHERE learning_path_id = $1`, id); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM learning_paths WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
			return err
		}
		return nil
	})
}

func (r *PostgresLearningPathRepository) loadSkills(ctx context.Context, q database.Querier, pathIDs []uuid.UUID) (map[uuid.UUID][]learning.PathSkill, error) {
	rows, err := q.Query(ctx,
		`SELECT lps.learning_path_id, lps.skill_id, s.name, lps.position, lps.target_level
		 FROM learning_path_skills lps
		 JOIN skills s ON s.id = lps.skill_id
		 WHERE lps.learning_path_id = ANY($1)
		 ORDER BY lps.position ASC, s.name ASC`,
		pathIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]learning.PathSkill)
	for rows.Next() {
		var (
			pathID uuid.UUID
			ps     learning.PathSkill
			level  string
		)
		if err := rows.Scan(&pathID, &ps.SkillID, &ps.SkillName, &ps.Order, &level); err != nil {
			return nil, err
		}
		ps.TargetLevel = skill.Level(level)
		out[pathID] = append(out[pathID], ps)
	}
	return out, rows.Err()
}

func (r *PostgresLearningPathRepository) loadResources(ctx context.Context, q database.Querier, pathIDs []uuid.UUID) (map[uuid.UUID][]learning.Resource, error) {
	rows, err := q.Query(ctx,
		`SELECT learning_path_id, id, title, url, type, duration_minutes, position
		 FROM resources
		 WHERE learning_path_id = ANY($1)
		 ORDER BY position ASC, title ASC`,
		pathIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]learning.Resource)
	for rows.Next() {
		var (
			pathID uuid.UUID
			res    learning.Resource
			typ    string
		)
		if err := rows.Scan(&pathID, &res.ID, &res.Title, &res.URL, &typ, &res.DurationMinutes, &res.Order); err != nil {
			return nil, err
		}
		res.Type = learning.ResourceType(typ)
		out[pathID] = append(out[pathID], res)
	}
	return out, rows.Err()
}

func scanPath(row database.Row) (learning.Path, error) {
	var (
		p          learning.Path
		difficulty string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &difficulty, &p.EstimatedHours,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.Progress)
	if err != nil {
		return learning.Path{}, err
	}
	p.Difficulty = skill.Level(difficulty)
	return p, nil
}
