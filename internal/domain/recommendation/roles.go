package recommendation

import "strings"

type roleProfile struct {
	keywords   []string
	categories []string
	skills     []string
}

var roleProfiles = []roleProfile{
	{
		keywords:   []string{"ai engineer", "ai", "machine learning", "ml engineer", "ml", "data scientist", "llm"},
		categories: []string{"ai/ml", "data science"},
		skills:     []string{"python", "pytorch", "tensorflow", "llm", "mlops", "langchain"},
	},
	{
		keywords:   []string{"frontend", "front-end", "front end", "ui engineer", "web developer"},
		categories: []string{"frontend"},
		skills:     []string{"typescript", "react", "next.js", "css", "javascript"},
	},
	{
		keywords:   []string{"backend", "back-end", "back end", "api engineer"},
		categories: []string{"backend", "database"},
		skills:     []string{"go", "postgresql", "docker", "redis", "node.js"},
	},
	{
		keywords:   []string{"full stack", "fullstack", "full-stack"},
		categories: []string{"frontend", "backend"},
		skills:     []string{"typescript", "react", "node.js", "postgresql"},
	},
	{
		keywords:   []string{"devops", "sre", "site reliability", "platform engineer", "cloud engineer", "cloud"},
		categories: []string{"devops", "cloud"},
		skills:     []string{"kubernetes", "terraform", "docker", "aws", "ci/cd"},
	},
	{
		keywords:   []string{"data engineer", "analytics engineer"},
		categories: []string{"data engineering", "database"},
		skills:     []string{"sql", "spark", "airflow", "kafka", "dbt"},
	},
	{
		keywords:   []string{"mobile", "ios", "android"},
		categories: []string{"mobile"},
		skills:     []string{"swift", "kotlin", "flutter", "react native"},
	},
	{
		keywords:   []string{"security", "appsec", "pentester"},
		categories: []string{"security"},
		skills:     []string{"owasp", "threat modeling", "cryptography"},
	},
}

type roleMatcher struct {
	categories map[string]struct{}
	skills     map[string]struct{}
}

func newRoleMatcher(targetRole string) roleMatcher {
	m := roleMatcher{categories: map[string]struct{}{}, skills: map[string]struct{}{}}
	role := " " + normalize(targetRole) + " "
	if strings.TrimSpace(role) == "" {
		return m
	}
	for _, rp := range roleProfiles {
		if !matchesAny(role, rp.keywords) {
			continue
		}
		for _, c := range rp.categories {
			m.categories[c] = struct{}{}
		}
		for _, s := range rp.skills {
			m.skills[s] = struct{}{}
		}
	}
	return m
}

func (m roleMatcher) empty() bool {
	return len(m.categories) == 0 && len(m.skills) == 0
}

func (m roleMatcher) matches(name, category string) bool {
	if _, ok := m.categories[normalize(category)]; ok {
		return true
	}
	_, ok := m.skills[normalize(name)]
	return ok
}

func matchesAny(paddedRole string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(paddedRole, " "+kw+" ") {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
