package driven

// PromptStore loads prompt templates by name.
type PromptStore interface {
	// Load returns the named template. Stores fall back to a built-in
	// template when they have one.
	Load(name string) (string, error)

	// Reload drops cached templates.
	Reload()
}

// PromptAnswer is the answer template. It takes two %s verbs: the
// labelled transcripts, then the question.
const PromptAnswer = "answer"

// PromptStoreAware is implemented by services whose prompts can be replaced
// after construction.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
