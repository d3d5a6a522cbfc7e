package queryengine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TermCandidates holds the outcome of term extraction. Term is empty when
// no meaningful word survived filtering; usernames are collected as a
// separate candidate category and the caller decides which to act on.
type TermCandidates struct {
	Term      string
	Usernames []string
}

// HasTerm reports whether a filter term was found.
func (c TermCandidates) HasTerm() bool {
	return c.Term != ""
}

// extractionRule is one contextual pattern of the ordered cascade. The
// first capture group is the candidate term.
type extractionRule struct {
	pattern *regexp.Regexp
}

// TermExtractor derives a single filter term (and any usernames) from a
// raw question. Pure over the question and the vocabulary tables.
type TermExtractor struct {
	vocab     *Vocabulary
	rules     []extractionRule
	usernames *regexp.Regexp
	minLen    int
}

const wordClass = `[a-záéíóúüñ]+`

// NewTermExtractor creates an extractor over the given vocabulary.
func NewTermExtractor(vocab *Vocabulary) *TermExtractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	article := `(?:la |el |un |una )?`
	patterns := []string{
		`de la palabra (` + article + wordClass + `)`,
		`palabra (` + article + wordClass + `)`,
		`datos de (` + article + wordClass + `)`,
		`sobre (` + article + wordClass + `)`,
		`acerca de (` + article + wordClass + `)`,
		`menciones de (` + article + wordClass + `)`,
	}

	rules := make([]extractionRule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, extractionRule{pattern: regexp.MustCompile(p)})
	}

	return &TermExtractor{
		vocab:     vocab,
		rules:     rules,
		usernames: regexp.MustCompile(`@([A-Za-z0-9_.]+)`),
		minLen:    4,
	}
}

// Extract runs the extraction cascade over the query. Priority order:
// curated domain terms, contextual patterns, first plausible token.
func (e *TermExtractor) Extract(query string) TermCandidates {
	out := TermCandidates{Usernames: e.extractUsernames(query)}

	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return out
	}

	tokens := tokenize(lower)

	// Domain terms are unambiguous targets and win over everything,
	// including the stopword filter.
	for _, tok := range tokens {
		if e.vocab.DomainTerms[tok] || e.vocab.DomainTerms[foldAccents(tok)] {
			out.Term = tok
			return out
		}
	}

	for _, rule := range e.rules {
		m := rule.pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		candidate := stripLeadingArticle(m[1])
		if e.usable(candidate) {
			out.Term = candidate
			return out
		}
	}

	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if e.usable(tok) && !isNumeric(tok) {
			out.Term = tok
			return out
		}
	}

	return out
}

// usable reports whether a candidate survives the stopword and length
// rules.
func (e *TermExtractor) usable(candidate string) bool {
	if candidate == "" {
		return false
	}
	if e.vocab.Stopwords[candidate] || e.vocab.Stopwords[foldAccents(candidate)] {
		return false
	}
	return utf8.RuneCountInString(candidate) >= e.minLen
}

// extractUsernames pulls @handles out of the raw query.
func (e *TermExtractor) extractUsernames(query string) []string {
	var out []string
	for _, m := range e.usernames.FindAllStringSubmatch(query, -1) {
		out = append(out, m[1])
	}
	return out
}

// stripLeadingArticle removes one leading Spanish article from a captured
// phrase and returns the remaining word.
func stripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, art := range []string{"la ", "el ", "un ", "una "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimSpace(strings.TrimPrefix(s, art))
		}
	}
	return s
}

// tokenize splits a lowercased query into letter/digit runs, dropping
// @handles so usernames never leak into word candidates.
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder
	inHandle := false

	flush := func() {
		if current.Len() > 0 {
			if !inHandle {
				tokens = append(tokens, current.String())
			}
			current.Reset()
		}
		inHandle = false
	}

	for _, r := range s {
		switch {
		case r == '@':
			flush()
			inHandle = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || (inHandle && r == '.'):
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// isNumeric reports whether the token is purely digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
