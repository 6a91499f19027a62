package domain

// Chunk is a token-bounded piece of a transcript sent to the embedding endpoint.
type Chunk struct {
	// Position is the ordinal position within the transcript.
	Position int

	// Tokens are the token ids of this chunk.
	Tokens []int

	// Content is the decoded text of Tokens.
	Content string
}
