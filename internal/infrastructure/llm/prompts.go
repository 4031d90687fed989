package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	paraphrasePrompt = "Rewrite the following legal clause in plain, simple English. " +
		"Keep every obligation, party and number. Reply with the rewritten clause only.\n\nClause: %s"

	listClausesPrompt = "Split the following contract text into its individual clauses. " +
		"Return one clause per line, verbatim, without numbering or commentary.\n\nText:\n%s"
)

var (
	listMarker   = regexp.MustCompile(`^\s*(?:[-*•]+|\(?\d+[.)]|\(?[a-zA-Z][.)])\s+`)
	answerPrefix = regexp.MustCompile(`(?i)^\s*(?:simplified(?: clause)?|rewritten(?: clause)?|plain english|answer)\s*:\s*`)
)

// cleanAnswer strips the boilerplate chat models like to wrap a one-line answer in.
func cleanAnswer(text string) string {
	text = strings.TrimSpace(text)
	text = answerPrefix.ReplaceAllString(text, "")
	text = strings.Trim(text, "\"'` \n")
	return strings.TrimSpace(text)
}

// parseClauseList accepts either a JSON array of strings or a bulleted/numbered list.
func parseClauseList(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "[") {
		var items []string
		if err := json.Unmarshal([]byte(text), &items); err == nil {
			return compact(items)
		}
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = listMarker.ReplaceAllString(line, "")
		out = append(out, line)
	}
	return compact(out)
}

func compact(items []string) []string {
	out := items[:0]
	for _, item := range items {
		item = strings.Trim(strings.TrimSpace(item), "\"")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
