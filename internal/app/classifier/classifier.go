// Package classifier assigns an intent category to free-text user messages
// using keyword heuristics.
//
// Matching is case- and punctuation-insensitive. When a message carries both
// a greeting and a task intent, the task intent wins. Empty or blank input
// is classified as non_task.
package classifier

import (
	"math"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

const smoothing = 0.1

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	greetings []phrase
	intents   []phrase
	terms     []phrase
}

// New returns a Classifier over DefaultVocabulary.
func New() *Classifier {
	return NewWithVocabulary(DefaultVocabulary())
}

func NewWithVocabulary(v Vocabulary) *Classifier {
	return &Classifier{
		greetings: compile(v.Greetings),
		intents:   compile(v.TaskIntents),
		terms:     compile(v.TaskTerms),
	}
}

// matches counts keyword hits per vocabulary class.
type matches struct {
	greetings int
	intents   int
	terms     int
}

func (c *Classifier) match(text string) matches {
	tokens := tokenize(text)
	return matches{
		greetings: countMatches(tokens, c.greetings),
		intents:   countMatches(tokens, c.intents),
		terms:     countMatches(tokens, c.terms),
	}
}

func (m matches) category() domain.Category {
	switch {
	case m.greetings > 0 && m.intents == 0:
		return domain.CategoryGreeting
	case m.intents > 0, m.terms > 0:
		return domain.CategoryTaskRelated
	default:
		return domain.CategoryNonTask
	}
}

// ClassifyMessage maps text to exactly one category.
func (c *Classifier) ClassifyMessage(text string) domain.Category {
	return c.match(text).category()
}

// ConfidenceScores returns a score per category. Scores sum to 1 and the
// category ClassifyMessage returns always scores highest.
//
// Evidence is the keyword hit count per class (task terms count half an
// intent). The losing class is capped at half the winner's evidence so the
// dominant-intent rule shows in the scores, then every class gets a small
// smoothing weight before normalization.
func (c *Classifier) ConfidenceScores(text string) domain.ConfidenceScores {
	m := c.match(text)

	greeting := float64(m.greetings)
	task := float64(m.intents) + 0.5*float64(m.terms)
	var nonTask float64

	switch m.category() {
	case domain.CategoryGreeting:
		task = math.Min(task, greeting/2)
	case domain.CategoryTaskRelated:
		greeting = math.Min(greeting, task/2)
	default:
		nonTask = 1
	}

	greeting += smoothing
	task += smoothing
	nonTask += smoothing
	total := greeting + task + nonTask

	return domain.ConfidenceScores{
		domain.CategoryGreeting:    greeting / total,
		domain.CategoryTaskRelated: task / total,
		domain.CategoryNonTask:     nonTask / total,
	}
}
