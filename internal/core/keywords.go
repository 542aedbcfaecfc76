package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares text for keyword comparison: NFC composition,
// full Unicode case folding and whitespace collapsed to single spaces.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKeywords normalizes every keyword and drops the ones that end up
// empty. Duplicates are kept.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := NormalizeText(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// KeywordMatcher tests text for any of a fixed keyword list.
// It is immutable and safe for concurrent use.
type KeywordMatcher struct {
	keywords []string
}

// NewKeywordMatcher normalizes keywords once so Match only has to normalize
// the text under test.
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	return &KeywordMatcher{keywords: NormalizeKeywords(keywords)}
}

// Empty reports whether the matcher has no usable keywords.
func (m *KeywordMatcher) Empty() bool {
	return m == nil || len(m.keywords) == 0
}

// Match reports whether the normalized text contains any keyword as a
// contiguous substring. Word boundaries are not required.
func (m *KeywordMatcher) Match(text string) bool {
	if m.Empty() || text == "" {
		return false
	}
	normalized := NormalizeText(text)
	if normalized == "" {
		return false
	}
	for _, kw := range m.keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// MatchesKeyword is the one-shot form of KeywordMatcher.Match.
func MatchesKeyword(text string, keywords []string) bool {
	return NewKeywordMatcher(keywords).Match(text)
}
