package ingestion

import (
	"regexp"
	"strings"
)

// knownSkills is the vocabulary ExtractSkills matches against, keyed by the
// canonical casing returned in the draft. Matching is case-insensitive and
// word-bounded, so "Go" does not fire inside "Google".
var knownSkills = []string{
	"Python", "JavaScript", "TypeScript", "Java", "Go", "Rust", "C++", "C#",
	"Ruby", "PHP", "Swift", "Kotlin", "Scala", "SQL",
	"React", "Angular", "Vue", "Node.js", "Django", "Flask", "FastAPI",
	"Spring", "Rails", "Next.js",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka",
	"Docker", "Kubernetes", "Terraform", "AWS", "GCP", "Azure",
	"Linux", "Git", "CI/CD", "GraphQL", "gRPC", "REST",
	"Machine Learning", "TensorFlow", "PyTorch", "Pandas", "Spark",
}

// skillPatterns maps each known skill to its compiled matcher. Built once at
// init since the vocabulary is static.
var skillPatterns = buildSkillPatterns()

func buildSkillPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(knownSkills))
	for _, skill := range knownSkills {
		escaped := regexp.QuoteMeta(strings.ToLower(skill))
		// \b does not sit next to punctuation like "+" or "#", so anchor on
		// whitespace or string edges instead.
		patterns[skill] = regexp.MustCompile(`(?:^|[\s,;/(])` + escaped + `(?:$|[\s,;/).!?])`)
	}
	return patterns
}

// ExtractSkills scans posting text for known skill names and returns them in
// vocabulary order. The result is never nil.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, skill := range knownSkills {
		if skillPatterns[skill].MatchString(lower) {
			found = append(found, skill)
		}
	}
	return found
}
