// Package moderation masks forbidden words in message contents before they are stored.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type IModerator interface {
	Censor(content string) (string, []string)
}

// Moderator matches a dictionary of forbidden words against a normalized copy
// of the content (lowercase, leet speak folded, punctuation and spaces dropped)
// and masks the matching runes of the original content.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// normalized is the searchable form of a content, with the position in the
// original rune slice of every kept rune.
type normalized struct {
	runes    []rune
	original []int
}

// NewModerator builds the automaton once. An empty dictionary yields a moderator
// that returns contents untouched.
func NewModerator(words []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	moderator := &Moderator{replacement: replacement, log: log}
	var patterns [][]rune
	for _, word := range words {
		if pattern := normalize(word).runes; len(pattern) > 0 {
			patterns = append(patterns, pattern)
		}
	}
	if len(patterns) == 0 {
		return moderator, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	moderator.matcher = m
	return moderator, nil
}

// Censor returns the content with every forbidden word masked, and the words found.
func (m *Moderator) Censor(content string) (string, []string) {
	if m.matcher == nil {
		return content, nil
	}
	norm := normalize(content)
	if len(norm.runes) == 0 {
		return content, nil
	}
	terms := m.matcher.MultiPatternSearch(norm.runes, false)
	if len(terms) == 0 {
		return content, nil
	}

	runes := []rune(content)
	found := make([]string, 0, len(terms))
	for _, term := range terms {
		start, end := term.Pos, term.Pos+len(term.Word)
		if start < 0 || end > len(norm.original) {
			continue
		}
		for i := norm.original[start]; i <= norm.original[end-1]; i++ {
			runes[i] = m.replacement
		}
		found = append(found, string(term.Word))
	}
	m.log.Debug("Content censored", "words", found)
	return string(runes), found
}

func normalize(input string) normalized {
	runes := []rune(input)
	n := normalized{
		runes:    make([]rune, 0, len(runes)),
		original: make([]int, 0, len(runes)),
	}
	for i, r := range runes {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		n.runes = append(n.runes, unicode.ToLower(r))
		n.original = append(n.original, i)
	}
	return n
}

// unleet maps common leet speak characters back to letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
