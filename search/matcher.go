package search

import (
	"regexp"
	"strings"
	"unicode"
)

// Flags control which texts are searched and how the query matches.
type Flags struct {
	Keys          bool
	Values        bool
	Paths         bool
	CaseSensitive bool
	Regex         bool
	WholeWord     bool
}

// Matcher applies one query under one flag set. Matching policy, in
// priority order: regex (substring semantics, invalid pattern matches
// nothing), whole word (candidate split on non-alphanumeric runs,
// exact token equality), plain substring containment.
type Matcher struct {
	query         string // case-normalized unless CaseSensitive
	re            *regexp.Regexp
	reInvalid     bool
	wholeWord     bool
	caseSensitive bool
}

func NewMatcher(query string, f Flags) *Matcher {
	m := &Matcher{
		query:         query,
		wholeWord:     f.WholeWord,
		caseSensitive: f.CaseSensitive,
	}
	if !f.CaseSensitive {
		m.query = strings.ToLower(query)
	}
	if f.Regex {
		// the pattern is compiled after case normalization, matching
		// the lowered candidate text
		re, err := regexp.Compile(m.query)
		if err != nil {
			m.reInvalid = true
		} else {
			m.re = re
		}
	}
	return m
}

func (m *Matcher) Match(text string) bool {
	if m.reInvalid {
		return false
	}
	if !m.caseSensitive {
		text = strings.ToLower(text)
	}
	if m.re != nil {
		return m.re.MatchString(text)
	}
	if m.wholeWord {
		for _, word := range strings.FieldsFunc(text, notAlphanumeric) {
			if word == m.query {
				return true
			}
		}
		return false
	}
	return strings.Contains(text, m.query)
}

func notAlphanumeric(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
