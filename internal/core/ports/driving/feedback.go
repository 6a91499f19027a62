package driving

import (
	"context"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// FeedbackService records user feedback.
type FeedbackService interface {
	// Submit stores the feedback text.
	Submit(ctx context.Context, userID, text string) (*domain.Feedback, error)
}
