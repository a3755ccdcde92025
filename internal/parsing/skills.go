package parsing

import (
	"regexp"
	"strings"
)

// Skill categories used by the keyword dictionary.
const (
	SkillCategoryProgramming = "programming"
	SkillCategoryFramework   = "framework"
	SkillCategoryDatabase    = "database"
	SkillCategoryCloud       = "cloud"
	SkillCategoryTool        = "tool"
	SkillCategorySoftSkill   = "soft_skill"
	SkillCategoryOther       = "other"
)

type skillTerm struct {
	canonical string
	category  string
	aliases   []string
	// caseSensitive terms are also common English words ("Go", "Swift").
	caseSensitive bool
}

var skillDictionary = []skillTerm{
	{canonical: "Go", category: SkillCategoryProgramming, aliases: []string{"Go"}, caseSensitive: true},
	{canonical: "Go", category: SkillCategoryProgramming, aliases: []string{"golang"}},
	{canonical: "Python", category: SkillCategoryProgramming, aliases: []string{"python"}},
	{canonical: "Java", category: SkillCategoryProgramming, aliases: []string{"java"}},
	{canonical: "JavaScript", category: SkillCategoryProgramming, aliases: []string{"javascript"}},
	{canonical: "TypeScript", category: SkillCategoryProgramming, aliases: []string{"typescript"}},
	{canonical: "Rust", category: SkillCategoryProgramming, aliases: []string{"Rust"}, caseSensitive: true},
	{canonical: "C++", category: SkillCategoryProgramming, aliases: []string{"c++"}},
	{canonical: "C#", category: SkillCategoryProgramming, aliases: []string{"c#"}},
	{canonical: "Ruby", category: SkillCategoryProgramming, aliases: []string{"ruby"}},
	{canonical: "Scala", category: SkillCategoryProgramming, aliases: []string{"scala"}},
	{canonical: "Kotlin", category: SkillCategoryProgramming, aliases: []string{"kotlin"}},
	{canonical: "Swift", category: SkillCategoryProgramming, aliases: []string{"Swift"}, caseSensitive: true},
	{canonical: "PHP", category: SkillCategoryProgramming, aliases: []string{"php"}},
	{canonical: "Julia", category: SkillCategoryProgramming, aliases: []string{"Julia"}, caseSensitive: true},
	{canonical: "Perl", category: SkillCategoryProgramming, aliases: []string{"perl"}},
	{canonical: "Haskell", category: SkillCategoryProgramming, aliases: []string{"haskell"}},
	{canonical: "Erlang", category: SkillCategoryProgramming, aliases: []string{"erlang"}},
	{canonical: "Elixir", category: SkillCategoryProgramming, aliases: []string{"elixir"}},
	{canonical: "SQL", category: SkillCategoryProgramming, aliases: []string{"sql"}},
	{canonical: "HTML", category: SkillCategoryProgramming, aliases: []string{"html", "html5"}},
	{canonical: "CSS", category: SkillCategoryProgramming, aliases: []string{"css", "css3"}},
	{canonical: "Bash", category: SkillCategoryProgramming, aliases: []string{"bash"}},

	{canonical: "React", category: SkillCategoryFramework, aliases: []string{"react", "react.js", "reactjs"}},
	{canonical: "Vue", category: SkillCategoryFramework, aliases: []string{"vue", "vue.js", "vuejs"}},
	{canonical: "Angular", category: SkillCategoryFramework, aliases: []string{"angular"}},
	{canonical: "Django", category: SkillCategoryFramework, aliases: []string{"django"}},
	{canonical: "Flask", category: SkillCategoryFramework, aliases: []string{"flask"}},
	{canonical: "Spring", category: SkillCategoryFramework, aliases: []string{"Spring Boot", "Spring"}, caseSensitive: true},
	{canonical: "Ruby on Rails", category: SkillCategoryFramework, aliases: []string{"ruby on rails", "rails"}},
	{canonical: "Express", category: SkillCategoryFramework, aliases: []string{"Express", "Express.js"}, caseSensitive: true},
	{canonical: "FastAPI", category: SkillCategoryFramework, aliases: []string{"fastapi"}},
	{canonical: "Next.js", category: SkillCategoryFramework, aliases: []string{"next.js", "nextjs"}},
	{canonical: "Svelte", category: SkillCategoryFramework, aliases: []string{"svelte"}},
	{canonical: "Laravel", category: SkillCategoryFramework, aliases: []string{"laravel"}},
	{canonical: "ASP.NET", category: SkillCategoryFramework, aliases: []string{"asp.net"}},
	{canonical: "Node.js", category: SkillCategoryFramework, aliases: []string{"node.js", "nodejs"}},
	{canonical: "gRPC", category: SkillCategoryFramework, aliases: []string{"grpc"}},
	{canonical: "GraphQL", category: SkillCategoryFramework, aliases: []string{"graphql"}},
	{canonical: "Kafka", category: SkillCategoryFramework, aliases: []string{"kafka"}},
	{canonical: "RabbitMQ", category: SkillCategoryFramework, aliases: []string{"rabbitmq"}},

	{canonical: "PostgreSQL", category: SkillCategoryDatabase, aliases: []string{"postgresql", "postgres"}},
	{canonical: "MySQL", category: SkillCategoryDatabase, aliases: []string{"mysql"}},
	{canonical: "MongoDB", category: SkillCategoryDatabase, aliases: []string{"mongodb"}},
	{canonical: "Redis", category: SkillCategoryDatabase, aliases: []string{"redis"}},
	{canonical: "Elasticsearch", category: SkillCategoryDatabase, aliases: []string{"elasticsearch"}},
	{canonical: "Cassandra", category: SkillCategoryDatabase, aliases: []string{"cassandra"}},
	{canonical: "DynamoDB", category: SkillCategoryDatabase, aliases: []string{"dynamodb"}},
	{canonical: "SQLite", category: SkillCategoryDatabase, aliases: []string{"sqlite"}},
	{canonical: "SQL Server", category: SkillCategoryDatabase, aliases: []string{"sql server"}},
	{canonical: "MariaDB", category: SkillCategoryDatabase, aliases: []string{"mariadb"}},
	{canonical: "CockroachDB", category: SkillCategoryDatabase, aliases: []string{"cockroachdb"}},
	{canonical: "Neo4j", category: SkillCategoryDatabase, aliases: []string{"neo4j"}},

	{canonical: "AWS", category: SkillCategoryCloud, aliases: []string{"aws", "amazon web services"}},
	{canonical: "GCP", category: SkillCategoryCloud, aliases: []string{"gcp", "google cloud"}},
	{canonical: "Azure", category: SkillCategoryCloud, aliases: []string{"azure"}},
	{canonical: "Kubernetes", category: SkillCategoryCloud, aliases: []string{"kubernetes", "k8s"}},
	{canonical: "Docker", category: SkillCategoryCloud, aliases: []string{"docker"}},
	{canonical: "Terraform", category: SkillCategoryCloud, aliases: []string{"terraform"}},
	{canonical: "CloudFormation", category: SkillCategoryCloud, aliases: []string{"cloudformation"}},
	{canonical: "Pulumi", category: SkillCategoryCloud, aliases: []string{"pulumi"}},
	{canonical: "Heroku", category: SkillCategoryCloud, aliases: []string{"heroku"}},
	{canonical: "Vercel", category: SkillCategoryCloud, aliases: []string{"vercel"}},

	{canonical: "Git", category: SkillCategoryTool, aliases: []string{"git"}},
	{canonical: "GitHub", category: SkillCategoryTool, aliases: []string{"github"}},
	{canonical: "GitLab", category: SkillCategoryTool, aliases: []string{"gitlab"}},
	{canonical: "Jenkins", category: SkillCategoryTool, aliases: []string{"jenkins"}},
	{canonical: "Jira", category: SkillCategoryTool, aliases: []string{"jira"}},
	{canonical: "Datadog", category: SkillCategoryTool, aliases: []string{"datadog"}},
	{canonical: "Grafana", category: SkillCategoryTool, aliases: []string{"grafana"}},
	{canonical: "Prometheus", category: SkillCategoryTool, aliases: []string{"prometheus"}},
	{canonical: "Splunk", category: SkillCategoryTool, aliases: []string{"splunk"}},
	{canonical: "Ansible", category: SkillCategoryTool, aliases: []string{"ansible"}},
	{canonical: "Linux", category: SkillCategoryTool, aliases: []string{"linux"}},
	{canonical: "CI/CD", category: SkillCategoryTool, aliases: []string{"ci/cd"}},

	{canonical: "Leadership", category: SkillCategorySoftSkill, aliases: []string{"leadership"}},
	{canonical: "Mentoring", category: SkillCategorySoftSkill, aliases: []string{"mentoring", "mentorship"}},
	{canonical: "Communication", category: SkillCategorySoftSkill, aliases: []string{"communication"}},
	{canonical: "Agile", category: SkillCategorySoftSkill, aliases: []string{"agile"}},
	{canonical: "Scrum", category: SkillCategorySoftSkill, aliases: []string{"scrum"}},
}

type compiledTerm struct {
	canonical string
	re        *regexp.Regexp
}

var (
	compiledDictionary  []compiledTerm
	dictionaryCanonical = map[string]string{}
	dictionaryCategory  = map[string]string{}
)

func init() {
	for _, term := range skillDictionary {
		dictionaryCategory[strings.ToLower(term.canonical)] = term.category
		for _, alias := range term.aliases {
			dictionaryCanonical[strings.ToLower(alias)] = term.canonical

			flags := "(?i)"
			if term.caseSensitive {
				flags = ""
			}
			// Boundaries are spelled out because \b does not treat "+", "#" or "." as word characters.
			pattern := flags + `(?:^|[^\p{L}\p{N}+#./])(` + regexp.QuoteMeta(alias) + `)(?:$|[^\p{L}\p{N}+#/])`
			compiledDictionary = append(compiledDictionary, compiledTerm{
				canonical: term.canonical,
				re:        regexp.MustCompile(pattern),
			})
		}
	}
}

// DetectSkillCategory returns the dictionary category of a skill, or
// SkillCategoryOther.
func DetectSkillCategory(skillName string) string {
	name := strings.ToLower(NormalizeSkillName(skillName))
	if category, ok := dictionaryCategory[name]; ok {
		return category
	}
	return SkillCategoryOther
}

type skillHit struct {
	pos  int
	name string
}

// findDictionarySkills returns the dictionary terms found in text with the
// offset of their first occurrence.
func findDictionarySkills(text string) []skillHit {
	var hits []skillHit
	for _, term := range compiledDictionary {
		loc := term.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		hits = append(hits, skillHit{pos: loc[2], name: term.canonical})
	}
	return hits
}
