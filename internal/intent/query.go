package intent

import (
	"regexp"
	"strings"

	"github.com/ahmedsami/octochat/internal/models"
)

// repoPattern matches an owner/name token anywhere in the raw text.
// \w is ASCII here, which is what GitHub allows: logins are alphanumerics
// and hyphens, repository names alphanumerics plus ._- . A non-ASCII
// "owner" is not a real repo reference and degrades to keyword search.
var repoPattern = regexp.MustCompile(`([\w.-]+/[\w.-]+)`)

// noisePattern strips command words, format words, and search-domain nouns
// before keyword extraction. Longer alternatives come first so e.g.
// "repositories" is consumed before "repo".
var noisePattern = regexp.MustCompile(
	`\b(show|display|list|get|find|search|give|me|the|a|an|in|as|for|of|` +
		`with|top|most|popular|trending|recent|latest|new|all|some|` +
		`table|chart|pie|bar|line|tabular|format|graph|` +
		`repositories|repository|repos|repo|projects|issues|pull requests|prs|bugs|` +
		`by|language|stars|sorted|sort|order)\b`)

// languages are the tokens promoted to language: qualifiers.
var languages = map[string]bool{
	"python": true, "javascript": true, "typescript": true, "java": true,
	"go": true, "rust": true, "c++": true, "ruby": true, "swift": true,
	"kotlin": true, "dart": true, "php": true, "scala": true, "c": true,
	"shell": true,
}

// ExtractQuery builds a search query from free text: classify the domain,
// look for an owner/name token, and turn the remaining meaningful words
// into topic terms and language qualifiers. When nothing usable survives,
// fall back to a high-star filter rather than an empty query.
func ExtractQuery(text string) models.Query {
	msg := strings.ToLower(text)
	domain := DetectDomain(text)

	// owner/name is matched against the raw text so casing survives.
	repoToken := repoPattern.FindString(text)

	clean := noisePattern.ReplaceAllString(msg, "")
	var keywords []string
	for _, w := range strings.Fields(clean) {
		if len(w) > 2 {
			keywords = append(keywords, w)
		}
	}

	q := models.Query{Domain: domain, Sort: "stars"}
	switch {
	case repoToken != "" && (domain == models.DomainIssues || domain == models.DomainPRs):
		q.Q = "repo:" + repoToken
		q.Sort = "created"
	case len(keywords) > 0:
		var topics, langs []string
		for _, k := range keywords {
			if languages[k] {
				langs = append(langs, "language:"+k)
			} else {
				topics = append(topics, k)
			}
		}
		parts := append(topics, langs...)
		if strings.Contains(msg, "popular") || strings.Contains(msg, "top") || strings.Contains(msg, "trending") {
			parts = append(parts, "stars:>100")
		}
		if len(parts) > 0 {
			q.Q = strings.Join(parts, " ")
		} else {
			q.Q = "stars:>1000"
		}
	default:
		q.Q = "stars:>1000"
	}
	return q
}
