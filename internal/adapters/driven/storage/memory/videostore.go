package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

// Ensure VideoStore implements the interfaces.
var (
	_ driven.VideoStore    = (*VideoStore)(nil)
	_ driven.FeedbackStore = (*VideoStore)(nil)
)

// VideoStore is an in-memory implementation of driven.VideoStore and
// driven.FeedbackStore. Documents are copied on the way in and out.
type VideoStore struct {
	mu       sync.RWMutex
	videos   map[string]domain.VideoDocument
	feedback []domain.Feedback
	now      func() time.Time
}

// NewVideoStore creates a new in-memory video store.
func NewVideoStore() *VideoStore {
	return &VideoStore{
		videos: make(map[string]domain.VideoDocument),
		now:    time.Now,
	}
}

// FindByVideoID returns the document for a video id.
func (s *VideoStore) FindByVideoID(_ context.Context, videoID string) (*domain.VideoDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.videos[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: video %s", domain.ErrNotFound, videoID)
	}
	out := clone(doc)
	return &out, nil
}

// FindByVideoIDs returns the documents for the given ids in input order.
func (s *VideoStore) FindByVideoIDs(_ context.Context, videoIDs []string) ([]domain.VideoDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.VideoDocument, 0, len(videoIDs))
	for _, id := range videoIDs {
		if doc, ok := s.videos[id]; ok {
			result = append(result, clone(doc))
		}
	}
	return result, nil
}

// List returns the documents matching the filter, most recently processed first.
func (s *VideoStore) List(_ context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.VideoDocument, 0)
	for _, doc := range s.videos {
		if filter.Matches(&doc) {
			result = append(result, clone(doc))
		}
	}
	sortByProcessedDesc(result)
	return result, nil
}

// ListByTags returns documents carrying any of the tags.
func (s *VideoStore) ListByTags(_ context.Context, tags []string) ([]domain.VideoDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.VideoDocument, 0)
	for _, doc := range s.videos {
		if slices.ContainsFunc(tags, doc.HasTag) {
			result = append(result, clone(doc))
		}
	}
	sortByProcessedDesc(result)
	return result, nil
}

// Insert writes a complete document and assigns its ID.
func (s *VideoStore) Insert(_ context.Context, doc *domain.VideoDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.videos[doc.VideoID]; exists {
		return fmt.Errorf("%w: video %s", domain.ErrAlreadyExists, doc.VideoID)
	}
	doc.ID = uuid.NewString()
	s.videos[doc.VideoID] = clone(*doc)
	return nil
}

// AttachUser adds the user to the document's user ids.
func (s *VideoStore) AttachUser(_ context.Context, videoID, userID string) error {
	return s.update(videoID, func(doc *domain.VideoDocument) (bool, error) {
		if doc.HasUser(userID) {
			return false, nil
		}
		doc.UserIDs = append(doc.UserIDs, userID)
		return true, nil
	})
}

// AddTag adds a tag when the video has room for it.
func (s *VideoStore) AddTag(_ context.Context, videoID, tag string) error {
	return s.update(videoID, func(doc *domain.VideoDocument) (bool, error) {
		if doc.HasTag(tag) {
			return false, nil
		}
		if len(doc.Tags) >= domain.MaxTags {
			return false, fmt.Errorf("%w: video %s", domain.ErrTagLimitExceeded, videoID)
		}
		doc.Tags = append(doc.Tags, tag)
		return true, nil
	})
}

// RemoveTag removes a tag.
func (s *VideoStore) RemoveTag(_ context.Context, videoID, tag string) error {
	return s.update(videoID, func(doc *domain.VideoDocument) (bool, error) {
		if !doc.HasTag(tag) {
			return false, nil
		}
		doc.Tags = slices.DeleteFunc(doc.Tags, func(t string) bool { return t == tag })
		return true, nil
	})
}

// DistinctTags returns every tag in use.
func (s *VideoStore) DistinctTags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, doc := range s.videos {
		for _, t := range doc.Tags {
			if _, ok := seen[t]; ok || t == "" {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)
	return tags, nil
}

// SaveFeedback stores a feedback record and assigns its ID.
func (s *VideoStore) SaveFeedback(_ context.Context, fb *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb.ID = uuid.NewString()
	s.feedback = append(s.feedback, *fb)
	return nil
}

// Feedback returns the stored feedback records.
func (s *VideoStore) Feedback() []domain.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.feedback)
}

// Close releases resources (no-op for memory store).
func (s *VideoStore) Close() error {
	return nil
}

// update applies fn to a stored document. UpdatedAt is refreshed only when
// fn reports a change.
func (s *VideoStore) update(videoID string, fn func(doc *domain.VideoDocument) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.videos[videoID]
	if !ok {
		return fmt.Errorf("%w: video %s", domain.ErrNotFound, videoID)
	}
	doc = clone(doc)
	changed, err := fn(&doc)
	if err != nil || !changed {
		return err
	}
	doc.UpdatedAt = s.now().UTC()
	s.videos[videoID] = doc
	return nil
}

func clone(doc domain.VideoDocument) domain.VideoDocument {
	doc.UserIDs = slices.Clone(doc.UserIDs)
	doc.Tags = slices.Clone(doc.Tags)
	doc.Embedding = slices.Clone(doc.Embedding)
	return doc
}

func sortByProcessedDesc(docs []domain.VideoDocument) {
	slices.SortStableFunc(docs, func(a, b domain.VideoDocument) int {
		if c := b.ProcessedAt.Compare(a.ProcessedAt); c != 0 {
			return c
		}
		return strings.Compare(a.VideoID, b.VideoID)
	})
}
