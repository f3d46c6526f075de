package models

// Domain selects which GitHub search corpus a query targets.
type Domain string

const (
	DomainRepos  Domain = "repos"
	DomainIssues Domain = "issues"
	DomainPRs    Domain = "prs"
)

// Noun returns the plural noun used in result headers.
func (d Domain) Noun() string {
	switch d {
	case DomainIssues:
		return "issues"
	case DomainPRs:
		return "pull requests"
	default:
		return "repositories"
	}
}

// Query is a fully built search request: target corpus, search-engine
// query string, and sort key. Built once per user message, immutable after.
type Query struct {
	Domain Domain
	Q      string
	Sort   string
}

// Format is the requested output shape of a user message.
type Format string

const (
	FormatTable   Format = "table"
	FormatChart   Format = "chart"
	FormatDefault Format = "default"
)

// ChartKind is the chart sub-type for chart-formatted output.
type ChartKind string

const (
	ChartPie  ChartKind = "pie"
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// Repo captures the repository fields rendered into tables and charts,
// named after GitHub's REST API v3 payload.
type Repo struct {
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	Language        string `json:"language"`
}

// Issue captures the issue/pull-request fields we render. The search API
// returns pull requests as issues with a nested pull_request object.
type Issue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	MergedAt    string `json:"merged_at"`
	PullRequest struct {
		MergedAt string `json:"merged_at"`
	} `json:"pull_request"`
}

// Merged reports whether a merge timestamp exists at either nesting level.
func (i Issue) Merged() bool {
	return i.PullRequest.MergedAt != "" || i.MergedAt != ""
}

// ChatRequest is the payload for POST /api/v1/chat. Either a full inline
// transcript (host mode) or a question with an optional session ID.
type ChatRequest struct {
	SessionID string    `json:"session_id"`
	Question  string    `json:"question"`
	Messages  []Message `json:"messages"`
}
