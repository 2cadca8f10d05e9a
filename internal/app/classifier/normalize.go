package classifier

import (
	"strings"
	"unicode"
)

// tokenize lower-cases text and splits it on every rune that is not a
// letter or a digit, so punctuation never reaches the matcher.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
}

// phrase is a normalized vocabulary entry.
type phrase []string

func compile(entries []string) []phrase {
	out := make([]phrase, 0, len(entries))
	for _, e := range entries {
		if toks := tokenize(e); len(toks) > 0 {
			out = append(out, toks)
		}
	}
	return out
}

// countMatches counts the positions in tokens where any phrase starts.
func countMatches(tokens []string, phrases []phrase) int {
	n := 0
	for i := range tokens {
		for _, p := range phrases {
			if hasPhraseAt(tokens, i, p) {
				n++
				break
			}
		}
	}
	return n
}

func hasPhraseAt(tokens []string, i int, p phrase) bool {
	if i+len(p) > len(tokens) {
		return false
	}
	for j, w := range p {
		if tokens[i+j] != w {
			return false
		}
	}
	return true
}
