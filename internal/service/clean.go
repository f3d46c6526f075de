package service

import (
	"regexp"
	"strings"
)

// Leaked chat-template control tokens some models emit around answers.
var (
	imStartPattern = regexp.MustCompile(`(?s)<\|im_start\|>.*`)
	imEndPattern   = regexp.MustCompile(`<\|im_end\|>`)
	eotPattern     = regexp.MustCompile(`<\|endoftext\|>`)
)

// mermaidStarters are diagram openers that mark the start of an unfenced
// mermaid block when they appear alone on a line outside a code fence.
var mermaidStarters = map[string]bool{
	"pie":          true,
	"pie showData": true,
	"xychart-beta": true,
	"graph":        true,
	"flowchart":    true,
	"gantt":        true,
}

// Clean strips leaked control tokens from model output and wraps bare
// mermaid blocks in code fences so downstream markdown renderers pick
// them up. A mermaid block is considered closed at a blank line that is
// not followed by an indented continuation, or at end of input.
func Clean(content string) string {
	content = imStartPattern.ReplaceAllString(content, "")
	content = imEndPattern.ReplaceAllString(content, "")
	content = eotPattern.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines)+2)
	inMermaid := false
	inCode := false
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "```") {
			inCode = !inCode
		}
		if !inCode && !inMermaid && mermaidStarters[stripped] {
			result = append(result, "```mermaid")
			inMermaid = true
			inCode = true
		}
		result = append(result, line)
		if inMermaid && i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" &&
			(i+2 >= len(lines) || !strings.HasPrefix(lines[i+2], "    ")) {
			result = append(result, "```")
			inMermaid = false
			inCode = false
		}
	}
	if inMermaid {
		result = append(result, "```")
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
