package domain

// User-facing messages returned in place of errors.
const (
	// RefusalMessage is returned when the generation endpoint blocks a prompt.
	RefusalMessage = "Sorry, I can't generate a response to this question. " +
		"Could you try phrasing it differently?"

	// AnswerFailedMessage is returned when answer generation fails for any other reason.
	AnswerFailedMessage = "An error occurred while generating the answer. Please try again later."

	// ProcessingFailedMessage is returned when video processing fails upstream.
	ProcessingFailedMessage = "An error occurred while processing the video. Please try again later."

	// EmptyQueryMessage is returned when a question is blank.
	EmptyQueryMessage = "Please enter a question."

	// InsufficientInfoPhrase is the sentence the model is told to use when grounding is insufficient.
	InsufficientInfoPhrase = "The provided content does not contain enough information to answer this question."

	// DisclaimerPhrase prefixes answers touching on medical or expert advice.
	DisclaimerPhrase = "According to what is mentioned in the video"
)
