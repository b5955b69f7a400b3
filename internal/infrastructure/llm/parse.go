package llm

import (
	"strconv"
	"strings"
)

// ParseIndexList extracts a bracketed or bare comma-separated integer list
// from LLM output, e.g. "[1, 3]" or "1,3" or "Articles: 2". Tokens that are
// not integers are skipped; range checks are the caller's job.
func ParseIndexList(text string) []int {
	text = strings.TrimSpace(text)

	if open := strings.Index(text, "["); open >= 0 {
		if close := strings.Index(text[open:], "]"); close > 0 {
			text = text[open+1 : open+close]
		}
	}

	var out []int
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	}) {
		token = strings.Trim(token, ".:;")
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// extractJSONArray trims any prose or code fences around the first JSON
// array in the output.
func extractJSONArray(text string) string {
	open := strings.Index(text, "[")
	close := strings.LastIndex(text, "]")
	if open < 0 || close <= open {
		return text
	}
	return text[open : close+1]
}
