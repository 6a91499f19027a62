// Package mongo provides a MongoDB implementation of the video library ports.
//
// Documents live in a "videos" collection with a unique index on video_id.
// Users and tags are arrays on the document and are mutated with conditional
// single-document updates, so concurrent writers never lose each other's changes.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

// Collection names.
const (
	VideosCollection   = "videos"
	FeedbackCollection = "feedback"
)

// DefaultConnectTimeout bounds the initial connection and index creation.
const DefaultConnectTimeout = 10 * time.Second

// Config holds configuration for the mongo store.
type Config struct {
	// URI is the connection string (required).
	URI string

	// Database is the database name (default: youtube_transcripts).
	Database string

	// ConnectTimeout bounds connection setup (default: 10s).
	ConnectTimeout time.Duration
}

// Store implements driven.VideoStore and driven.FeedbackStore on MongoDB.
type Store struct {
	client   *mongo.Client
	videos   *mongo.Collection
	feedback *mongo.Collection
	now      func() time.Time
}

var (
	_ driven.VideoStore    = (*Store)(nil)
	_ driven.FeedbackStore = (*Store)(nil)
)

// NewStore connects to MongoDB and ensures the video_id index exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: connection URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = domain.DefaultMongoDatabase
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: mongo connect: %w", domain.ErrUpstream, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: mongo ping: %w", domain.ErrUpstream, err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:   client,
		videos:   db.Collection(VideosCollection),
		feedback: db.Collection(FeedbackCollection),
		now:      func() time.Time { return time.Now().UTC() },
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.videos.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_ids", Value: 1}, {Key: "processed_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo: creating indexes: %w", err)
	}
	return nil
}

// videoRecord is the stored shape of a video document.
type videoRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	VideoID          string             `bson:"video_id"`
	URL              string             `bson:"url"`
	UserIDs          []string           `bson:"user_ids"`
	Title            string             `bson:"title"`
	Channel          string             `bson:"channel"`
	DurationSeconds  int                `bson:"duration"`
	Transcript       string             `bson:"transcript"`
	TranscriptSource string             `bson:"transcript_source"`
	TranscriptLength int                `bson:"transcript_length"`
	Embedding        []float32          `bson:"embedding"`
	Tags             []string           `bson:"tags"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
	ProcessedAt      time.Time          `bson:"processed_at"`
}

type feedbackRecord struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Text      string    `bson:"feedback"`
	CreatedAt time.Time `bson:"created_at"`
}

func toRecord(doc *domain.VideoDocument) videoRecord {
	rec := videoRecord{
		VideoID:          doc.VideoID,
		URL:              doc.URL,
		UserIDs:          nonNil(doc.UserIDs),
		Title:            doc.Title,
		Channel:          doc.Channel,
		DurationSeconds:  doc.DurationSeconds,
		Transcript:       doc.Transcript,
		TranscriptSource: string(doc.TranscriptSource),
		TranscriptLength: doc.TranscriptLength,
		Embedding:        doc.Embedding,
		Tags:             nonNil(doc.Tags),
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		ProcessedAt:      doc.ProcessedAt,
	}
	if rec.Embedding == nil {
		rec.Embedding = []float32{}
	}
	return rec
}

func (r *videoRecord) toDomain() domain.VideoDocument {
	doc := domain.VideoDocument{
		VideoID:          r.VideoID,
		URL:              r.URL,
		UserIDs:          nonNil(r.UserIDs),
		Title:            r.Title,
		Channel:          r.Channel,
		DurationSeconds:  r.DurationSeconds,
		Transcript:       r.Transcript,
		TranscriptSource: domain.TranscriptSource(r.TranscriptSource),
		TranscriptLength: r.TranscriptLength,
		Tags:             nonNil(r.Tags),
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
		ProcessedAt:      r.ProcessedAt.UTC(),
	}
	if len(r.Embedding) > 0 {
		doc.Embedding = r.Embedding
	}
	if !r.ID.IsZero() {
		doc.ID = r.ID.Hex()
	}
	return doc
}

// FindByVideoID returns the document for a video id.
func (s *Store) FindByVideoID(ctx context.Context, videoID string) (*domain.VideoDocument, error) {
	var rec videoRecord
	err := s.videos.FindOne(ctx, bson.M{"video_id": videoID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: video %s", domain.ErrNotFound, videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: mongo find: %w", domain.ErrUpstream, err)
	}
	doc := rec.toDomain()
	return &doc, nil
}

// FindByVideoIDs returns the documents for the given ids in request order.
func (s *Store) FindByVideoIDs(ctx context.Context, videoIDs []string) ([]domain.VideoDocument, error) {
	if len(videoIDs) == 0 {
		return []domain.VideoDocument{}, nil
	}

	docs, err := s.find(ctx, bson.M{"video_id": bson.M{"$in": videoIDs}})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.VideoDocument, len(docs))
	for _, doc := range docs {
		byID[doc.VideoID] = doc
	}
	result := make([]domain.VideoDocument, 0, len(docs))
	for _, id := range videoIDs {
		if doc, ok := byID[id]; ok {
			result = append(result, doc)
			delete(byID, id)
		}
	}
	return result, nil
}

// List returns documents matching the filter, most recently processed first.
func (s *Store) List(ctx context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error) {
	return s.find(ctx, buildFilter(filter))
}

// ListByTags returns documents carrying any of the tags.
func (s *Store) ListByTags(ctx context.Context, tags []string) ([]domain.VideoDocument, error) {
	if len(tags) == 0 {
		return []domain.VideoDocument{}, nil
	}
	return s.find(ctx, bson.M{"tags": bson.M{"$in": tags}})
}

// buildFilter translates a VideoFilter into a query document.
func buildFilter(filter domain.VideoFilter) bson.M {
	q := bson.M{}
	if filter.UserID != "" {
		q["user_ids"] = filter.UserID
	}
	switch {
	case filter.NoTags:
		// Matches both a missing and an empty array.
		q["tags.0"] = bson.M{"$exists": false}
	case len(filter.Tags) > 0:
		q["tags"] = bson.M{"$in": filter.Tags}
	}
	if filter.HasDateRange() {
		q["processed_at"] = bson.M{"$gte": *filter.From, "$lte": *filter.To}
	}
	return q
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]domain.VideoDocument, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "processed_at", Value: -1},
		{Key: "video_id", Value: 1},
	})
	cursor, err := s.videos.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: mongo find: %w", domain.ErrUpstream, err)
	}

	var recs []videoRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("%w: mongo decode: %w", domain.ErrUpstream, err)
	}

	docs := make([]domain.VideoDocument, len(recs))
	for i := range recs {
		docs[i] = recs[i].toDomain()
	}
	return docs, nil
}

// Insert writes a complete document and assigns its ID.
func (s *Store) Insert(ctx context.Context, doc *domain.VideoDocument) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}

	res, err := s.videos.InsertOne(ctx, toRecord(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: video %s", domain.ErrAlreadyExists, doc.VideoID)
		}
		return fmt.Errorf("%w: mongo insert: %w", domain.ErrUpstream, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid.Hex()
	}
	return nil
}

// AttachUser adds the user to the document's user ids. Idempotent.
func (s *Store) AttachUser(ctx context.Context, videoID, userID string) error {
	res, err := s.videos.UpdateOne(ctx,
		bson.M{"video_id": videoID, "user_ids": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"user_ids": userID},
			"$set":  bson.M{"updated_at": s.now()},
		})
	if err != nil {
		return fmt.Errorf("%w: mongo attach user: %w", domain.ErrUpstream, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	_, err = s.FindByVideoID(ctx, videoID)
	return err
}

// AddTag adds a tag when the video has room for it.
func (s *Store) AddTag(ctx context.Context, videoID, tag string) error {
	// The array index condition enforces the limit within the single update.
	lastSlot := fmt.Sprintf("tags.%d", domain.MaxTags-1)
	filter := bson.M{"video_id": videoID, "tags": bson.M{"$ne": tag}}
	filter[lastSlot] = bson.M{"$exists": false}
	res, err := s.videos.UpdateOne(ctx, filter,
		bson.M{
			"$push": bson.M{"tags": tag},
			"$set":  bson.M{"updated_at": s.now()},
		})
	if err != nil {
		return fmt.Errorf("%w: mongo add tag: %w", domain.ErrUpstream, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	doc, err := s.FindByVideoID(ctx, videoID)
	if err != nil {
		return err
	}
	if doc.HasTag(tag) {
		return nil
	}
	return fmt.Errorf("%w: video %s already has %d tags", domain.ErrTagLimitExceeded, videoID, domain.MaxTags)
}

// RemoveTag removes a tag. An absent tag is a no-op.
func (s *Store) RemoveTag(ctx context.Context, videoID, tag string) error {
	res, err := s.videos.UpdateOne(ctx,
		bson.M{"video_id": videoID, "tags": tag},
		bson.M{
			"$pull": bson.M{"tags": tag},
			"$set":  bson.M{"updated_at": s.now()},
		})
	if err != nil {
		return fmt.Errorf("%w: mongo remove tag: %w", domain.ErrUpstream, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	_, err = s.FindByVideoID(ctx, videoID)
	return err
}

// DistinctTags returns every tag in use, sorted, without empty values.
func (s *Store) DistinctTags(ctx context.Context) ([]string, error) {
	values, err := s.videos.Distinct(ctx, "tags", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: mongo distinct: %w", domain.ErrUpstream, err)
	}
	return distinctStrings(values), nil
}

func distinctStrings(values []any) []string {
	tags := make([]string, 0, len(values))
	for _, v := range values {
		if tag, ok := v.(string); ok && tag != "" {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// SaveFeedback writes a feedback record and assigns its ID when empty.
func (s *Store) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	if fb.ID == "" {
		fb.ID = primitive.NewObjectID().Hex()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = s.now()
	}

	_, err := s.feedback.InsertOne(ctx, feedbackRecord{
		ID:        fb.ID,
		UserID:    fb.UserID,
		Text:      fb.Text,
		CreatedAt: fb.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("%w: mongo save feedback: %w", domain.ErrUpstream, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
