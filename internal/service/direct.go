package service

import (
	"context"
	"fmt"
	"log"

	"github.com/ahmedsami/octochat/internal/format"
	"github.com/ahmedsami/octochat/internal/intent"
	"github.com/ahmedsami/octochat/internal/models"
)

// ---- GitHub contract -------------------------------------------------------

// SearchClient exposes the GitHub search endpoints the fast path needs.
type SearchClient interface {
	SearchRepos(ctx context.Context, q models.Query) ([]models.Repo, int, error)
	SearchIssues(ctx context.Context, q models.Query) ([]models.Issue, int, error)
}

// ---- Service interface + implementation ------------------------------------

// DirectService is the fast path: when the user clearly asked for a table
// or chart, query GitHub directly and render the answer without involving
// the model at all.
type DirectService interface {
	// Format returns the rendered markdown and true, or ("", false) when
	// the search produced nothing usable and the caller should fall back
	// to the model path. Failures are swallowed into the false case.
	Format(ctx context.Context, userMsg string) (string, bool)
}

type directService struct {
	gh SearchClient
}

// NewDirectService wires the GitHub client.
func NewDirectService(gh SearchClient) DirectService {
	return &directService{gh: gh}
}

// Format classifies the message, builds a search query, and renders the
// result collection in the requested shape.
func (s *directService) Format(ctx context.Context, userMsg string) (string, bool) {
	f := intent.DetectFormat(userMsg)
	kind := intent.DetectChartKind(userMsg)
	q := intent.ExtractQuery(userMsg)

	switch q.Domain {
	case models.DomainRepos:
		items, total, err := s.gh.SearchRepos(ctx, q)
		if err != nil {
			log.Printf("direct search failed for %q: %v", q.Q, err)
			return "", false
		}
		if len(items) == 0 {
			return "", false
		}
		if f == models.FormatTable {
			return header(total, q) + format.ReposTable(items), true
		}
		return header(total, q) + format.ReposChart(items, kind), true

	case models.DomainIssues:
		items, total, err := s.gh.SearchIssues(ctx, q)
		if err != nil {
			log.Printf("direct search failed for %q: %v", q.Q, err)
			return "", false
		}
		if len(items) == 0 {
			return "", false
		}
		if f == models.FormatTable {
			return header(total, q) + format.IssuesTable(items), true
		}
		return header(total, q) + format.IssuesChart(items), true

	case models.DomainPRs:
		items, total, err := s.gh.SearchIssues(ctx, q)
		if err != nil {
			log.Printf("direct search failed for %q: %v", q.Q, err)
			return "", false
		}
		if len(items) == 0 {
			return "", false
		}
		if f == models.FormatTable {
			return header(total, q) + format.PRsTable(items), true
		}
		return header(total, q) + format.PRsChart(items), true
	}

	return "", false
}

func header(total int, q models.Query) string {
	return fmt.Sprintf("Found **%s** %s for `%s`\n\n", format.Number(total), q.Domain.Noun(), q.Q)
}
