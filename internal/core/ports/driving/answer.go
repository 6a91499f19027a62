package driving

import (
	"context"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// AnswerService answers questions grounded in stored transcripts.
// Answers always carry displayable text; errors are reserved for
// invalid requests such as an empty question or an unknown video.
type AnswerService interface {
	// Answer ranks the candidates and answers from the top matches.
	Answer(ctx context.Context, query string, candidates []domain.VideoDocument) (*domain.Answer, error)

	// AskVideo answers from a single video the user has access to.
	AskVideo(ctx context.Context, userID, videoID, query string) (*domain.Answer, error)

	// AskTags answers from the user's videos carrying any of the tags.
	// With no tags, all of the user's videos are candidates.
	AskTags(ctx context.Context, userID string, tags []string, query string) (*domain.Answer, error)
}
