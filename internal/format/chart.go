package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ahmedsami/octochat/internal/models"
)

// maxSlices caps pie slices and bar entries.
const maxSlices = 10

// ReposChart renders repositories as a mermaid chart. Pie groups by
// language; any other kind plots the top repositories by stars as an
// xychart bar block.
func ReposChart(items []models.Repo, kind models.ChartKind) string {
	if kind == models.ChartPie {
		return reposPie(items)
	}
	return reposBars(items)
}

func reposPie(items []models.Repo) string {
	counts := map[string]int{}
	for _, r := range items {
		lang := r.Language
		if lang == "" {
			lang = "Other"
		}
		counts[lang]++
	}

	type slice struct {
		lang  string
		count int
	}
	slices := make([]slice, 0, len(counts))
	for lang, count := range counts {
		slices = append(slices, slice{lang, count})
	}
	// Count descending, name ascending on ties, so output is deterministic.
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].count != slices[j].count {
			return slices[i].count > slices[j].count
		}
		return slices[i].lang < slices[j].lang
	})

	var sb strings.Builder
	sb.WriteString("```mermaid\npie showData\n    title \"Repositories by Language\"\n")
	for i, s := range slices {
		if i >= maxSlices {
			break
		}
		fmt.Fprintf(&sb, "    %q : %d\n", s.lang, s.count)
	}
	sb.WriteString("```")
	return sb.String()
}

func reposBars(items []models.Repo) string {
	sorted := make([]models.Repo, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StargazersCount > sorted[j].StargazersCount
	})
	if len(sorted) > maxSlices {
		sorted = sorted[:maxSlices]
	}

	maxVal := 100 // y-axis floor when there is nothing to plot
	names := make([]string, len(sorted))
	values := make([]string, len(sorted))
	for i, r := range sorted {
		name := r.Name
		if name == "" {
			name = "?"
		}
		names[i] = fmt.Sprintf("%q", Truncate(name, 15))
		values[i] = fmt.Sprint(r.StargazersCount)
		if i == 0 || r.StargazersCount > maxVal {
			maxVal = r.StargazersCount
		}
	}

	return fmt.Sprintf("```mermaid\nxychart-beta\n    title \"Top Repositories by Stars\"\n"+
		"    x-axis [%s]\n    y-axis \"Stars\" 0 --> %d\n    bar [%s]\n```",
		strings.Join(names, ", "), int(float64(maxVal)*1.2), strings.Join(values, ", "))
}

// IssuesChart renders an open/closed pie over the fetched issues.
func IssuesChart(items []models.Issue) string {
	open := 0
	for _, it := range items {
		if it.State == "open" {
			open++
		}
	}
	return fmt.Sprintf("```mermaid\npie showData\n    title \"Issues by State\"\n"+
		"    \"Open\" : %d\n    \"Closed\" : %d\n```", open, len(items)-open)
}

// PRsChart renders an open/merged/closed pie over the fetched pull requests.
func PRsChart(items []models.Issue) string {
	open, merged := 0, 0
	for _, it := range items {
		switch {
		case it.State == "open":
			open++
		case it.Merged():
			merged++
		}
	}
	return fmt.Sprintf("```mermaid\npie showData\n    title \"Pull Requests by State\"\n"+
		"    \"Open\" : %d\n    \"Merged\" : %d\n    \"Closed\" : %d\n```",
		open, merged, len(items)-open-merged)
}
