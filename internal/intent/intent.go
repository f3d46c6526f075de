// Package intent classifies free-text user input: which output format is
// being asked for, and what GitHub search it implies. Everything here is a
// best-effort keyword heuristic—ambiguous input degrades to a safe default
// query instead of failing.
package intent

import (
	"strings"

	"github.com/ahmedsami/octochat/internal/models"
)

// MatchRule maps a keyword set to a classification result. Rules are kept
// in explicit ordered slices so precedence is visible and testable instead
// of being scattered across string literals.
type MatchRule[T any] struct {
	Keywords []string
	Result   T
}

// matchFirst returns the result of the first rule with any keyword
// contained in msg, or fallback when none matches.
func matchFirst[T any](msg string, rules []MatchRule[T], fallback T) T {
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(msg, kw) {
				return r.Result
			}
		}
	}
	return fallback
}

// formatRules is checked in order: chart phrasing outranks table phrasing,
// so "table of ... as a pie chart" renders a chart.
var formatRules = []MatchRule[models.Format]{
	{Keywords: []string{"pie chart", "bar chart", "chart", "line chart", "graph"}, Result: models.FormatChart},
	{Keywords: []string{"table", "tabular"}, Result: models.FormatTable},
}

var chartKindRules = []MatchRule[models.ChartKind]{
	{Keywords: []string{"bar"}, Result: models.ChartBar},
	{Keywords: []string{"line"}, Result: models.ChartLine},
}

// domainRules is checked in order: issue wording wins over PR wording,
// both win over the repository default.
var domainRules = []MatchRule[models.Domain]{
	{Keywords: []string{"issue", "bug", "issues"}, Result: models.DomainIssues},
	{Keywords: []string{"pull request", "pr ", "prs", "pull requests"}, Result: models.DomainPRs},
}

// DetectFormat classifies raw text as table, chart, or default output.
func DetectFormat(text string) models.Format {
	return matchFirst(strings.ToLower(text), formatRules, models.FormatDefault)
}

// DetectChartKind picks the chart sub-type, defaulting to pie.
func DetectChartKind(text string) models.ChartKind {
	return matchFirst(strings.ToLower(text), chartKindRules, models.ChartPie)
}

// DetectDomain classifies which search corpus the text is about.
func DetectDomain(text string) models.Domain {
	return matchFirst(strings.ToLower(text), domainRules, models.DomainRepos)
}
