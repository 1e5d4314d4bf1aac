package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Tolerant parsing of weakly structured model output. Every helper reports
// whether it parsed cleanly so callers and tests can tell a real answer from
// a fallback.

var uppercaseTokenRe = regexp.MustCompile(`[A-Z]+(?:-[A-Z]+)?`)

// ParseList parses a completion that was asked for a JSON array of strings.
// A valid JSON array yields its non-empty trimmed items (clean=true). A JSON
// string yields a one-item list (clean=true). Malformed JSON yields nil with
// clean=false.
func ParseList(content string) ([]string, bool) {
	content = StripCodeFences(content)
	var raw any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s := strings.TrimSpace(stringify(item))
			if s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}, true
		}
		return nil, true
	default:
		return nil, false
	}
}

// UppercaseTokens returns all runs of uppercase letters (with optional
// hyphenated second half) in the upper-cased content, e.g. "Meta-analysis."
// yields ["META-ANALYSIS"].
func UppercaseTokens(content string) []string {
	return uppercaseTokenRe.FindAllString(strings.ToUpper(content), -1)
}

// NormalizeChoice matches a completion against a closed label set: first by
// scanning uppercase tokens, then by plain substring. The bool is false when
// nothing matched and the caller must apply its own default.
func NormalizeChoice(content string, choices []string) (string, bool) {
	tokens := UppercaseTokens(content)
	for _, tok := range tokens {
		for _, c := range choices {
			if tok == strings.ToUpper(c) {
				return c, true
			}
		}
	}
	upper := strings.ToUpper(content)
	for _, c := range choices {
		if strings.Contains(upper, strings.ToUpper(c)) {
			return c, true
		}
	}
	return "", false
}

// StripCodeFences removes a leading ```/```json fence pair if present.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
