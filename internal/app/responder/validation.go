package responder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

var (
	ErrEmptyReply      = errors.New("reply is empty")
	ErrMissingKeywords = errors.New("reply lacks required keywords")
)

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

var (
	greetingWords  = newWordSet("hello", "hi", "hey", "welcome", "greetings")
	helpWords      = newWordSet("task", "tasks", "help")
	operationNames = newWordSet("add", "complete", "show", "delete", "task", "tasks")
	taskDomain     = newWordSet("task", "tasks", "manage", "management", "productivity")
	qualifiers     = newWordSet("related")
)

// requirements lists, per category, the keyword classes a reply must
// contain at least one word from.
var requirements = map[domain.Category][]wordSet{
	domain.CategoryGreeting:    {greetingWords, helpWords},
	domain.CategoryTaskRelated: {operationNames},
	domain.CategoryNonTask:     {taskDomain, qualifiers},
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Validate checks that reply is usable for category. Categories without
// keyword rules only need a non-empty reply.
func Validate(category domain.Category, reply string) error {
	if strings.TrimSpace(reply) == "" {
		return ErrEmptyReply
	}

	found := words(reply)
	for i, set := range requirements[category] {
		if !containsAny(found, set) {
			return fmt.Errorf("%w: %s reply needs keyword class %d", ErrMissingKeywords, category, i)
		}
	}
	return nil
}

func containsAny(found []string, set wordSet) bool {
	for _, w := range found {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// Fallback returns the canned reply for category.
func Fallback(category domain.Category) string {
	if reply, ok := fallbackReplies[category]; ok {
		return reply
	}
	return generalReply
}
