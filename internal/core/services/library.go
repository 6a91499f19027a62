package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/core/ports/driving"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService browses and curates stored videos.
type LibraryService struct {
	store driven.VideoStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(store driven.VideoStore) *LibraryService {
	return &LibraryService{store: store}
}

// ListVideos returns the user's videos, most recently processed first.
func (s *LibraryService) ListVideos(ctx context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error) {
	if strings.TrimSpace(filter.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if filter.HasDateRange() && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: start date is after end date", domain.ErrInvalidInput)
	}
	return s.store.List(ctx, filter)
}

// GetVideo returns a single video document.
func (s *LibraryService) GetVideo(ctx context.Context, videoID string) (*domain.VideoDocument, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", domain.ErrInvalidInput)
	}
	return s.store.FindByVideoID(ctx, videoID)
}

// GetVideos returns the documents for the given ids, skipping unknown ids.
func (s *LibraryService) GetVideos(ctx context.Context, videoIDs []string) ([]domain.VideoDocument, error) {
	if len(videoIDs) == 0 {
		return []domain.VideoDocument{}, nil
	}
	return s.store.FindByVideoIDs(ctx, videoIDs)
}

// Transcript returns the full transcript of a video.
func (s *LibraryService) Transcript(ctx context.Context, videoID string) (string, error) {
	doc, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return "", err
	}
	return doc.Transcript, nil
}

// AddTag adds a trimmed tag. Adding a present tag is a no-op.
func (s *LibraryService) AddTag(ctx context.Context, videoID, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag is empty", domain.ErrInvalidInput)
	}
	return s.store.AddTag(ctx, videoID, tag)
}

// RemoveTag removes a tag. Removing an absent tag is a no-op.
func (s *LibraryService) RemoveTag(ctx context.Context, videoID, tag string) error {
	return s.store.RemoveTag(ctx, videoID, strings.TrimSpace(tag))
}

// AllTags returns every tag in use, sorted.
func (s *LibraryService) AllTags(ctx context.Context) ([]string, error) {
	tags, err := s.store.DistinctTags(ctx)
	if err != nil {
		return nil, err
	}
	tags = slices.DeleteFunc(tags, func(t string) bool { return t == "" })
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

// VideosByTags returns videos carrying any of the tags.
func (s *LibraryService) VideosByTags(ctx context.Context, tags []string) ([]domain.VideoDocument, error) {
	if len(tags) == 0 {
		return []domain.VideoDocument{}, nil
	}
	return s.store.ListByTags(ctx, tags)
}
