package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askontube/internal/core/domain"
)

type failingFeedbackStore struct{}

func (failingFeedbackStore) SaveFeedback(context.Context, *domain.Feedback) error {
	return errors.New("disk full")
}

func TestFeedback_Submit(t *testing.T) {
	store := memory.NewVideoStore()
	service := NewFeedbackService(store)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	fb, err := service.Submit(context.Background(), "alice", "  Love it  ")

	require.NoError(t, err)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, "Love it", fb.Text)
	assert.Equal(t, fixed, fb.CreatedAt)
	require.Len(t, store.Feedback(), 1)
	assert.Equal(t, "alice", store.Feedback()[0].UserID)
}

func TestFeedback_Submit_Empty(t *testing.T) {
	store := memory.NewVideoStore()
	service := NewFeedbackService(store)

	_, err := service.Submit(context.Background(), "alice", "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Feedback())
}

func TestFeedback_Submit_RequiresUser(t *testing.T) {
	service := NewFeedbackService(memory.NewVideoStore())

	_, err := service.Submit(context.Background(), "", "text")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFeedback_Submit_StoreError(t *testing.T) {
	service := NewFeedbackService(failingFeedbackStore{})

	_, err := service.Submit(context.Background(), "alice", "text")

	assert.Error(t, err)
}
