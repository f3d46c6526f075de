package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ahmedsami/octochat/internal/models"
)

// ---- fakes -----------------------------------------------------------------

type fakeSearch struct {
	repos  []models.Repo
	issues []models.Issue
	total  int
	err    error

	gotQuery models.Query
}

func (f *fakeSearch) SearchRepos(ctx context.Context, q models.Query) ([]models.Repo, int, error) {
	f.gotQuery = q
	return f.repos, f.total, f.err
}

func (f *fakeSearch) SearchIssues(ctx context.Context, q models.Query) ([]models.Issue, int, error) {
	f.gotQuery = q
	return f.issues, f.total, f.err
}

type chatCall struct {
	messages []models.Message
	tools    []models.Tool
}

type fakeChat struct {
	responses []models.Message
	errs      []error
	calls     []chatCall
}

func (f *fakeChat) Chat(ctx context.Context, messages []models.Message, tools []models.Tool) (models.Message, error) {
	i := len(f.calls)
	f.calls = append(f.calls, chatCall{messages: append([]models.Message(nil), messages...), tools: tools})
	if i < len(f.errs) && f.errs[i] != nil {
		return models.Message{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return models.Message{Role: "assistant", Content: "out of script"}, nil
}

type fakeCatalog struct {
	tools []models.Tool
	err   error
}

func (f *fakeCatalog) Tools(ctx context.Context) ([]models.Tool, error) { return f.tools, f.err }

type fakeExecutor struct {
	calls []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args map[string]any) string {
	f.calls = append(f.calls, name)
	return "result of " + name
}

type recordObserver struct {
	events []string
}

func (r *recordObserver) Notify(description string, done bool) {
	r.events = append(r.events, fmt.Sprintf("%q done=%t", description, done))
}

func userTurn(text string) []models.Message {
	return []models.Message{{Role: "user", Content: text}}
}

func toolCall(name, args string) models.ToolCall {
	return models.ToolCall{Function: models.ToolCallFunction{
		Name:      name,
		Arguments: json.RawMessage(args),
	}}
}

func newAgent(gh *fakeSearch, chat *fakeChat, cat *fakeCatalog, exec *fakeExecutor, rounds int) AgentService {
	return NewAgentService(NewDirectService(gh), chat, cat, exec, "You are a GitHub assistant.", rounds)
}

// ---- fast path -------------------------------------------------------------

func TestRespondFastPathTable(t *testing.T) {
	gh := &fakeSearch{
		repos: []models.Repo{
			{FullName: "psf/requests", HTMLURL: "https://github.com/psf/requests", StargazersCount: 52000, Language: "Python", Description: "HTTP for Humans"},
			{FullName: "django/django", HTMLURL: "https://github.com/django/django", StargazersCount: 80000, Language: "Python", Description: "The web framework"},
		},
		total: 4200,
	}
	chat := &fakeChat{}
	obs := &recordObserver{}

	answer := newAgent(gh, chat, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("show me a table of popular python repos"), obs)

	if len(chat.calls) != 0 {
		t.Fatalf("model must not be called on the fast path, got %d calls", len(chat.calls))
	}
	if gh.gotQuery.Q != "language:python stars:>100" {
		t.Errorf("query = %q", gh.gotQuery.Q)
	}
	if !strings.HasPrefix(answer, "Found **4.2k** repositories for `language:python stars:>100`\n\n") {
		t.Errorf("header wrong:\n%s", answer)
	}
	if !strings.Contains(answer, "| # | Repository | Stars | Language | Description |") {
		t.Errorf("missing table header:\n%s", answer)
	}
	want := []string{`"Searching GitHub..." done=false`, `"" done=true`}
	if len(obs.events) != 2 || obs.events[0] != want[0] || obs.events[1] != want[1] {
		t.Errorf("observer events = %v, want %v", obs.events, want)
	}
}

func TestRespondFastPathIssuesPie(t *testing.T) {
	gh := &fakeSearch{
		issues: []models.Issue{{State: "open"}, {State: "open"}, {State: "closed"}},
		total:  57,
	}
	chat := &fakeChat{}

	answer := newAgent(gh, chat, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("pie chart of issues in facebook/react"), nil)

	if gh.gotQuery.Q != "repo:facebook/react" {
		t.Errorf("query = %q", gh.gotQuery.Q)
	}
	if gh.gotQuery.Sort != "created" {
		t.Errorf("sort = %q", gh.gotQuery.Sort)
	}
	if !strings.HasPrefix(answer, "Found **57** issues for `repo:facebook/react`\n\n") {
		t.Errorf("header wrong:\n%s", answer)
	}
	if !strings.Contains(answer, "```mermaid\npie showData\n    title \"Issues by State\"\n") {
		t.Errorf("missing fenced pie block:\n%s", answer)
	}
	if !strings.Contains(answer, `"Open" : 2`) || !strings.Contains(answer, `"Closed" : 1`) {
		t.Errorf("state counts wrong:\n%s", answer)
	}
}

func TestRespondFastPathPRsTable(t *testing.T) {
	merged := models.Issue{Number: 12, Title: "Add retries", State: "closed"}
	merged.MergedAt = "2026-03-01T09:00:00Z"
	gh := &fakeSearch{
		issues: []models.Issue{merged, {Number: 13, Title: "Fix flake", State: "open"}},
		total:  2,
	}

	answer := newAgent(gh, &fakeChat{}, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("table of pull requests in octo/alpha"), nil)

	if !strings.HasPrefix(answer, "Found **2** pull requests for `repo:octo/alpha`\n\n") {
		t.Errorf("header wrong:\n%s", answer)
	}
	if !strings.Contains(answer, "| # | State | Pull Request | Author | Created |") {
		t.Errorf("missing PR table header:\n%s", answer)
	}
	if !strings.Contains(answer, "| Merged |") {
		t.Errorf("merged PR not marked:\n%s", answer)
	}
}

func TestRespondFastPathMissFallsThrough(t *testing.T) {
	gh := &fakeSearch{} // zero items: fast path misses
	chat := &fakeChat{responses: []models.Message{{Role: "assistant", Content: "Nothing matched, sorry."}}}

	answer := newAgent(gh, chat, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("table of zxqj repos"), nil)

	if answer != "Nothing matched, sorry." {
		t.Errorf("answer = %q", answer)
	}
	if len(chat.calls) != 1 {
		t.Fatalf("expected fallback model call, got %d", len(chat.calls))
	}
}

func TestRespondFastPathSearchErrorFallsThrough(t *testing.T) {
	gh := &fakeSearch{err: errors.New("connection refused")}
	chat := &fakeChat{responses: []models.Message{{Role: "assistant", Content: "fallback"}}}

	answer := newAgent(gh, chat, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("table of go repos"), nil)

	if answer != "fallback" {
		t.Errorf("search error must fall back, got %q", answer)
	}
}

// ---- model path ------------------------------------------------------------

func TestRespondToolLoop(t *testing.T) {
	tools := []models.Tool{{Type: "function", Function: models.ToolFunction{Name: "search_repositories"}}}
	chat := &fakeChat{responses: []models.Message{
		{Role: "assistant", ToolCalls: []models.ToolCall{
			toolCall("search_repositories", `{"query": "react"}`),
			toolCall("get_issue", `{"owner": "octo"}`),
		}},
		{Role: "assistant", Content: "Here is what I found."},
	}}
	exec := &fakeExecutor{}

	answer := newAgent(&fakeSearch{}, chat, &fakeCatalog{tools: tools}, exec, 5).
		Respond(context.Background(), userTurn("tell me about react"), nil)

	if answer != "Here is what I found." {
		t.Errorf("answer = %q", answer)
	}
	// Tool calls dispatched in the order the model requested them.
	if len(exec.calls) != 2 || exec.calls[0] != "search_repositories" || exec.calls[1] != "get_issue" {
		t.Errorf("executor calls = %v", exec.calls)
	}
	if len(chat.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(chat.calls))
	}

	// Second round sees: system, user, assistant w/ tool calls, two tool results.
	msgs := chat.calls[1].messages
	if len(msgs) != 5 {
		t.Fatalf("transcript length = %d, want 5", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Errorf("transcript must start with the system prompt, got %q", msgs[0].Role)
	}
	if msgs[3].Role != "tool" || msgs[3].Content != "result of search_repositories" {
		t.Errorf("first tool result = %+v", msgs[3])
	}
	if msgs[4].Role != "tool" || msgs[4].Content != "result of get_issue" {
		t.Errorf("second tool result = %+v", msgs[4])
	}
}

func TestRespondRoundLimitFinalCallWithoutTools(t *testing.T) {
	tools := []models.Tool{{Type: "function", Function: models.ToolFunction{Name: "search_code"}}}
	looping := models.Message{Role: "assistant", ToolCalls: []models.ToolCall{toolCall("search_code", `{}`)}}
	chat := &fakeChat{responses: []models.Message{
		looping, looping,
		{Role: "assistant", Content: "Best effort answer."},
	}}

	answer := newAgent(&fakeSearch{}, chat, &fakeCatalog{tools: tools}, &fakeExecutor{}, 2).
		Respond(context.Background(), userTurn("keep digging"), nil)

	if answer != "Best effort answer." {
		t.Errorf("answer = %q", answer)
	}
	if len(chat.calls) != 3 {
		t.Fatalf("expected 2 rounds + 1 final call, got %d", len(chat.calls))
	}
	if chat.calls[0].tools == nil || chat.calls[1].tools == nil {
		t.Error("round calls must offer tools")
	}
	if chat.calls[2].tools != nil {
		t.Error("final call must not offer tools")
	}
}

func TestRespondChatErrorIsUserVisible(t *testing.T) {
	chat := &fakeChat{errs: []error{errors.New("connection refused")}}

	answer := newAgent(&fakeSearch{}, chat, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("hello"), nil)

	if !strings.HasPrefix(answer, "Error calling Ollama: ") {
		t.Errorf("answer = %q", answer)
	}
}

func TestRespondFinalCallErrorIsUserVisible(t *testing.T) {
	looping := models.Message{Role: "assistant", ToolCalls: []models.ToolCall{toolCall("search_code", `{}`)}}
	chat := &fakeChat{
		responses: []models.Message{looping},
		errs:      []error{nil, errors.New("timeout")},
	}

	answer := newAgent(&fakeSearch{}, chat, &fakeCatalog{}, &fakeExecutor{}, 1).
		Respond(context.Background(), userTurn("hello"), nil)

	if !strings.HasPrefix(answer, "Error: ") {
		t.Errorf("answer = %q", answer)
	}
}

func TestRespondEmptyContent(t *testing.T) {
	chat := &fakeChat{responses: []models.Message{{Role: "assistant", Content: ""}}}

	answer := newAgent(&fakeSearch{}, chat, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("hello"), nil)

	if answer != "No response generated." {
		t.Errorf("answer = %q", answer)
	}
}

func TestRespondCatalogFailureDegradesToNoTools(t *testing.T) {
	chat := &fakeChat{responses: []models.Message{{Role: "assistant", Content: "plain answer"}}}

	answer := newAgent(&fakeSearch{}, chat, &fakeCatalog{err: errors.New("proxy down")}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("hello"), nil)

	if answer != "plain answer" {
		t.Errorf("answer = %q", answer)
	}
	if chat.calls[0].tools != nil {
		t.Error("expected no tools after discovery failure")
	}
}

func TestRespondCleansModelOutput(t *testing.T) {
	chat := &fakeChat{responses: []models.Message{
		{Role: "assistant", Content: "pie showData\n    \"Open\" : 1\n\ndone<|im_end|>"},
	}}

	answer := newAgent(&fakeSearch{}, chat, &fakeCatalog{}, &fakeExecutor{}, 5).
		Respond(context.Background(), userTurn("hello"), nil)

	if !strings.Contains(answer, "```mermaid\npie showData") {
		t.Errorf("mermaid not fenced:\n%s", answer)
	}
	if strings.Contains(answer, "<|im_end|>") {
		t.Errorf("control token leaked:\n%s", answer)
	}
}
