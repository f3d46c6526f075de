// Package format renders search results into markdown tables and mermaid
// chart blocks. Every function is pure: same items in, byte-identical
// markdown out.
package format

import (
	"fmt"
	"strings"

	"github.com/ahmedsami/octochat/internal/models"
)

// maxRows caps table output regardless of how many items the search returned.
const maxRows = 15

// Number renders a count in compact form: 2500000 → "2.5M", 1500 → "1.5k",
// 999 → "999".
func Number(n int) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprint(n)
}

// Truncate cuts s to at most n characters with an ellipsis marker. Empty
// input renders as "-" so table cells never collapse. The budget counts
// runes, not bytes—descriptions with emoji or accents must never be cut
// mid-rune.
func Truncate(s string, n int) string {
	if s == "" {
		return "-"
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}

// ReposTable renders repositories as a five-column markdown table.
func ReposTable(items []models.Repo) string {
	var sb strings.Builder
	sb.WriteString("| # | Repository | Stars | Language | Description |\n")
	sb.WriteString("|---|-----------|-------|----------|-------------|\n")
	for i, r := range items {
		if i >= maxRows {
			break
		}
		name := r.FullName
		if name == "" {
			name = r.Name
		}
		if name == "" {
			name = "?"
		}
		url := r.HTMLURL
		if url == "" {
			url = "#"
		}
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(&sb, "| %d | [%s](%s) | %s | %s | %s |\n",
			i+1, name, url, Number(r.StargazersCount), lang, Truncate(r.Description, 60))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// IssuesTable renders issues as a five-column markdown table.
func IssuesTable(items []models.Issue) string {
	var sb strings.Builder
	sb.WriteString("| # | State | Issue | Author | Created |\n")
	sb.WriteString("|---|-------|-------|--------|---------|\n")
	writeIssueRows(&sb, items, false)
	return strings.TrimRight(sb.String(), "\n")
}

// PRsTable renders pull requests as a five-column markdown table. State is
// Merged when a merge timestamp exists, else Open/Closed.
func PRsTable(items []models.Issue) string {
	var sb strings.Builder
	sb.WriteString("| # | State | Pull Request | Author | Created |\n")
	sb.WriteString("|---|-------|-------------|--------|---------|\n")
	writeIssueRows(&sb, items, true)
	return strings.TrimRight(sb.String(), "\n")
}

func writeIssueRows(sb *strings.Builder, items []models.Issue, withMerged bool) {
	for i, it := range items {
		if i >= maxRows {
			break
		}
		state := "Closed"
		switch {
		case withMerged && it.Merged():
			state = "Merged"
		case it.State == "open":
			state = "Open"
		}
		url := it.HTMLURL
		if url == "" {
			url = "#"
		}
		author := it.User.Login
		if author == "" {
			author = "?"
		}
		created := it.CreatedAt
		if len(created) > 10 {
			created = created[:10]
		}
		fmt.Fprintf(sb, "| %d | %s | [#%d %s](%s) | @%s | %s |\n",
			i+1, state, it.Number, Truncate(it.Title, 60), url, author, created)
	}
}
