package crawler

import (
	"regexp"
	"strings"
	"unicode"
)

// edgePattern is a metadata token stripped from either end of extracted text
type edgePattern struct {
	name     string
	leading  *regexp.Regexp
	trailing *regexp.Regexp
}

// newEdgePattern anchors token at both string edges. Word tokens need a whitespace
// boundary (or the whole string) so they are never cut out of a longer word.
func newEdgePattern(name, token string, needsBoundary bool) edgePattern {
	lead, trail := `\s*`, `\s*`
	if needsBoundary {
		lead, trail = `(?:\s+|$)`, `(?:^|\s+)`
	}
	return edgePattern{
		name:     name,
		leading:  regexp.MustCompile(`(?i)^(?:` + token + `)` + lead),
		trailing: regexp.MustCompile(`(?i)` + trail + `(?:` + token + `)$`),
	}
}

// metadataWords are labels that carry no comment content on their own
var metadataWords = []string{"date", "time", "timestamp", "memo", "날짜", "시간", "메모"}

// actionWords are button captions that leak into comment text
var actionWords = []string{
	"수정", "삭제", "신고", "답변", "댓글", "답글", "공감",
	"edit", "delete", "report", "reply", "comment",
}

var cleanPatterns = []edgePattern{
	newEdgePattern("date", `\d{2,4}[-./]\d{1,2}[-./]\d{1,2}\.?`, true),
	newEdgePattern("time", `\d{1,2}:\d{2}(?::\d{2})?`, true),
	newEdgePattern("action", strings.Join(actionWords, "|"), true),
	newEdgePattern("bracket", `\[[^\[\]]*\]`, false),
	newEdgePattern("metadata", strings.Join(metadataWords, "|"), true),
}

var (
	invalidLiterals = map[string]bool{
		"1": true, "0": true, "true": true, "false": true, "null": true, "undefined": true,
	}
	digitsOnly     = regexp.MustCompile(`^\d+$`)
	singleHTMLTag  = regexp.MustCompile(`^<[^<>]+>$`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Clean strips metadata tokens from the edges of text until none remain
func Clean(text string) string {
	cleaned := strings.TrimSpace(whitespaceRuns.ReplaceAllString(text, " "))
	for {
		before := cleaned
		for _, p := range cleanPatterns {
			cleaned = strings.TrimSpace(p.trailing.ReplaceAllString(cleaned, ""))
			cleaned = strings.TrimSpace(p.leading.ReplaceAllString(cleaned, ""))
		}
		if cleaned == before {
			return cleaned
		}
	}
}

// IsValid reports whether cleaned text looks like real comment content
func IsValid(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	lower := strings.ToLower(trimmed)
	if invalidLiterals[lower] {
		return false
	}
	if digitsOnly.MatchString(trimmed) {
		return false
	}
	if isShortASCIIAlnum(trimmed) {
		return false
	}
	if singleHTMLTag.MatchString(trimmed) {
		return false
	}
	for _, word := range metadataWords {
		if lower == word {
			return false
		}
	}
	return true
}

// isShortASCIIAlnum matches tokens like "ok" or "a1". Two-syllable Korean replies stay valid.
func isShortASCIIAlnum(s string) bool {
	if len([]rune(s)) > 2 {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
