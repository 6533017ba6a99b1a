// Package namematch decides whether two game titles plausibly refer to the
// same game. It exists to flag estimate-source matches for human review and
// is best-effort by construction: a miss means an extra ledger entry for a
// human to adjudicate, never a wrong merge.
package namematch

import (
	"strings"
	"unicode"
)

// Matcher reports whether two titles are close enough to be treated as the
// same game without human review.
type Matcher interface {
	Similar(a, b string) bool
}

// Default is the standard heuristic matcher.
type Default struct{}

var _ Matcher = Default{}

// romanNumerals maps the numerals that actually show up in game titles.
// Anything larger is rare enough to go through the ledger instead.
var romanNumerals = map[string]string{
	"i": "1", "ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9", "x": "10",
	"xi": "11", "xii": "12", "xiii": "13", "xiv": "14", "xv": "15",
}

// editionWords are marketing suffixes that never change which game it is.
var editionWords = map[string]bool{
	"edition": true, "remastered": true, "definitive": true, "deluxe": true,
	"complete": true, "enhanced": true, "goty": true, "anniversary": true,
	"directors": true, "cut": true, "hd": true, "ultimate": true,
}

// Similar reports whether a and b normalize to the same title, or one
// normalized title contains the other.
func (Default) Similar(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return na == nb
	}
	if na == nb {
		return true
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Normalize lowercases a title, strips punctuation, drops edition suffixes,
// and rewrites roman numerals so "Final Fantasy VII Remastered" and
// "final fantasy 7" compare equal.
func Normalize(title string) string {
	lowered := strings.ToLower(title)
	lowered = strings.ReplaceAll(lowered, "game of the year", " ")

	var b strings.Builder
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	out := make([]string, 0, len(words))
	for _, w := range words {
		if editionWords[w] {
			continue
		}
		if arabic, ok := romanNumerals[w]; ok {
			w = arabic
		}
		out = append(out, w)
	}

	return strings.Join(out, " ")
}
