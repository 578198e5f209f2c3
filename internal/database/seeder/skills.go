package seeder

import (
	"context"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

// SkillsSeeder fills the catalog on an empty database. Existing names are left
// untouched so admin edits survive restarts.
type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func salary(v int) *int { return &v }

var catalog = []skill.Skill{
	{Name: "Go", Category: "Backend", Description: "Compiled language for services and tooling", MarketDemand: 88, TrendingScore: 85, AverageSalary: salary(135000)},
	{Name: "Node.js", Category: "Backend", Description: "JavaScript runtime for servers", MarketDemand: 86, TrendingScore: 70, AverageSalary: salary(118000)},
	{Name: "PostgreSQL", Category: "Database", Description: "Relational database", MarketDemand: 87, TrendingScore: 74, AverageSalary: salary(120000)},
	{Name: "Redis", Category: "Database", Description: "In-memory data store", MarketDemand: 78, TrendingScore: 66, AverageSalary: salary(117000)},
	{Name: "SQL", Category: "Data Engineering", Description: "Querying relational data", MarketDemand: 90, TrendingScore: 60, AverageSalary: salary(105000)},
	{Name: "TypeScript", Category: "Frontend", Description: "Typed superset of JavaScript", MarketDemand: 91, TrendingScore: 88, AverageSalary: salary(125000)},
	{Name: "React", Category: "Frontend", Description: "Component UI library", MarketDemand: 92, TrendingScore: 80, AverageSalary: salary(122000)},
	{Name: "Next.js", Category: "Frontend", Description: "React framework with server rendering", MarketDemand: 80, TrendingScore: 86, AverageSalary: salary(124000)},
	{Name: "Docker", Category: "DevOps", Description: "Container packaging and runtime", MarketDemand: 89, TrendingScore: 75, AverageSalary: salary(125000)},
	{Name: "Kubernetes", Category: "DevOps", Description: "Container orchestration", MarketDemand: 90, TrendingScore: 87, AverageSalary: salary(145000)},
	{Name: "Terraform", Category: "DevOps", Description: "Infrastructure as code", MarketDemand: 82, TrendingScore: 81, AverageSalary: salary(140000)},
	{Name: "AWS", Category: "Cloud", Description: "Amazon Web Services", MarketDemand: 93, TrendingScore: 78, AverageSalary: salary(142000)},
	{Name: "Python", Category: "AI/ML", Description: "General purpose language for data and ML", MarketDemand: 94, TrendingScore: 90, AverageSalary: salary(130000)},
	{Name: "PyTorch", Category: "AI/ML", Description: "Deep learning framework", MarketDemand: 84, TrendingScore: 92, AverageSalary: salary(155000)},
	{Name: "LangChain", Category: "AI/ML", Description: "LLM application framework", MarketDemand: 72, TrendingScore: 95, AverageSalary: salary(150000)},
	{Name: "Kafka", Category: "Data Engineering", Description: "Distributed event streaming", MarketDemand: 79, TrendingScore: 72, AverageSalary: salary(138000)},
	{Name: "Kotlin", Category: "Mobile", Description: "Android and JVM language", MarketDemand: 75, TrendingScore: 68, AverageSalary: salary(120000)},
	{Name: "OWASP", Category: "Security", Description: "Web application security practices", MarketDemand: 74, TrendingScore: 70, AverageSalary: salary(128000)},
}

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	return database.WithinTx(ctx, db, func(ctx context.Context) error {
		q := database.Conn(ctx, db)
		for _, s := range catalog {
			s = s.Normalize()
			if _, err := q.Exec(ctx,
				`INSERT INTO skills (id, name, category, description, market_demand, trending_score, average_salary)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (name) DO NOTHING`,
				uuid.New(), s.Name, s.Category, s.Description, s.MarketDemand, s.TrendingScore, s.AverageSalary,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
