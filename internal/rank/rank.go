// Package rank scores how well a search string matches a value, from an
// exact case-sensitive match down to a loose in-order character match.
//
// A value passes when its rank reaches the threshold (Matches by default).
// Ranks between Matches and Acronym carry a fractional closeness score, so
// "dvd" ranks higher against "David" than against "Dave Vandermeer".
package rank

import (
	"strings"
	"unicode/utf8"
)

// Rank is a match score. Higher is better.
type Rank float64

// Match tiers, best first.
const (
	CaseSensitiveEqual Rank = 7
	Equal              Rank = 6
	StartsWith         Rank = 5
	WordStartsWith     Rank = 4
	Contains           Rank = 3
	Acronym            Rank = 2
	Matches            Rank = 1
	NoMatch            Rank = 0
)

// String names the tier a rank falls in.
func (r Rank) String() string {
	switch {
	case r >= CaseSensitiveEqual:
		return "case-sensitive-equal"
	case r >= Equal:
		return "equal"
	case r >= StartsWith:
		return "starts-with"
	case r >= WordStartsWith:
		return "word-starts-with"
	case r >= Contains:
		return "contains"
	case r >= Acronym:
		return "acronym"
	case r >= Matches:
		return "matches"
	default:
		return "no-match"
	}
}

// Ranking is the outcome of ranking one value.
type Ranking struct {
	Value     string `json:"value"`
	Rank      Rank   `json:"rank"`
	Threshold Rank   `json:"threshold"`
	Passed    bool   `json:"passed"`
}

type options struct {
	threshold      Rank
	keepDiacritics bool
}

// Option configures Item.
type Option func(*options)

// WithThreshold sets the minimum rank for a value to pass.
func WithThreshold(r Rank) Option {
	return func(o *options) { o.threshold = r }
}

// KeepDiacritics disables accent folding, so "jose" no longer matches "José".
func KeepDiacritics() Option {
	return func(o *options) { o.keepDiacritics = true }
}

// Item ranks value against query.
func Item(value, query string, opts ...Option) Ranking {
	o := options{threshold: Matches}
	for _, opt := range opts {
		opt(&o)
	}

	r := Score(value, query, o.keepDiacritics)
	return Ranking{
		Value:     value,
		Rank:      r,
		Threshold: o.threshold,
		Passed:    r >= o.threshold,
	}
}

// Score returns the rank of query against value.
func Score(value, query string, keepDiacritics bool) Rank {
	if !keepDiacritics {
		value = Fold(value)
		query = Fold(query)
	}

	if utf8.RuneCountInString(query) > utf8.RuneCountInString(value) {
		return NoMatch
	}
	if value == query {
		return CaseSensitiveEqual
	}

	value = strings.ToLower(value)
	query = strings.ToLower(query)

	switch {
	case value == query:
		return Equal
	case strings.HasPrefix(value, query):
		return StartsWith
	case strings.Contains(value, " "+query):
		return WordStartsWith
	case strings.Contains(value, query):
		return Contains
	case utf8.RuneCountInString(query) == 1:
		return NoMatch
	case strings.Contains(acronym(value), query):
		return Acronym
	}
	return closeness(value, query)
}

// acronym takes the first letter of every space or hyphen separated word.
func acronym(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, " ") {
		for _, part := range strings.Split(word, "-") {
			if r, size := utf8.DecodeRuneInString(part); size > 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// closeness finds the query's characters in order inside value and scores
// the match by how tightly packed they are: Matches plus a fraction in (0, 1].
func closeness(value, query string) Rank {
	v := []rune(value)
	q := []rune(query)

	matched := 0
	pos := 0
	find := func(c rune) int {
		for j := pos; j < len(v); j++ {
			if v[j] == c {
				matched++
				return j + 1
			}
		}
		return -1
	}

	first := find(q[0])
	if first < 0 {
		return NoMatch
	}
	pos = first
	for _, c := range q[1:] {
		pos = find(c)
		if pos < 0 {
			return NoMatch
		}
	}

	spread := pos - first
	inOrder := float64(matched) / float64(len(q))
	return Matches + Rank(inOrder*(1/float64(spread)))
}
