package classifier

// Vocabulary is the keyword set a Classifier matches against. Entries may
// hold several words ("good morning"); they are normalized the same way as
// input text.
type Vocabulary struct {
	// Greetings are salutations, including common non-English ones.
	Greetings []string
	// TaskIntents are words that signal the user wants to act on tasks.
	// Any of them outweighs a greeting in the same message.
	TaskIntents []string
	// TaskTerms are weaker task-management words; they only decide the
	// category when neither greetings nor intents matched.
	TaskTerms []string
}

// DefaultVocabulary returns the built-in keyword set.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Greetings: []string{
			"hello", "hi", "hey", "greetings", "hiya", "howdy",
			"good morning", "good afternoon", "good evening",
			"hola", "bonjour", "salut", "ciao", "hallo", "namaste",
			"olá", "ola", "привет", "こんにちは", "你好",
		},
		TaskIntents: []string{
			"task", "tasks", "todo", "todos",
			"add", "complete", "delete", "manage", "remove",
		},
		TaskTerms: []string{
			"list", "lists", "checklist", "deadline", "deadlines", "due",
			"priority", "priorities", "prioritize", "reminder", "reminders",
			"remind", "schedule", "errand", "errands", "agenda", "chore",
			"chores", "assignment", "assignments", "project", "projects",
			"organize", "productivity", "productive", "finish",
		},
	}
}
