package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/custodia-labs/askontube/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "askontube.db"

// Store is a unified SQLite-based storage that provides access to
// the video and feedback store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.askontube/data/askontube.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askontube", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// WAL mode for concurrent readers; pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  func() time.Time { return time.Now().UTC() },
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VideoStore returns a VideoStore interface backed by this store.
func (s *Store) VideoStore() driven.VideoStore {
	return &videoStore{store: s}
}

// FeedbackStore returns a FeedbackStore interface backed by this store.
func (s *Store) FeedbackStore() driven.FeedbackStore {
	return &feedbackStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// applyMigration runs one migration and records its version atomically.
func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Video Store ====================

// videoStore implements driven.VideoStore.
type videoStore struct {
	store *Store
}

var _ driven.VideoStore = (*videoStore)(nil)

const videoColumns = `id, video_id, url, title, channel, duration_seconds, transcript,
	transcript_source, transcript_length, embedding, created_at, updated_at, processed_at`

// FindByVideoID returns the document for a video id.
func (s *videoStore) FindByVideoID(ctx context.Context, videoID string) (*domain.VideoDocument, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE video_id = ?", videoID)

	doc, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: video %s", domain.ErrNotFound, videoID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying video: %w", err)
	}

	docs := []domain.VideoDocument{*doc}
	if err := s.loadRelations(ctx, docs); err != nil {
		return nil, err
	}
	return &docs[0], nil
}

// FindByVideoIDs returns the documents for the given ids in request order.
func (s *videoStore) FindByVideoIDs(ctx context.Context, videoIDs []string) ([]domain.VideoDocument, error) {
	if len(videoIDs) == 0 {
		return []domain.VideoDocument{}, nil
	}

	docs, err := s.query(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE video_id IN ("+placeholders(len(videoIDs))+")",
		toArgs(videoIDs)...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.VideoDocument, len(docs))
	for i := range docs {
		byID[docs[i].VideoID] = docs[i]
	}

	result := make([]domain.VideoDocument, 0, len(docs))
	seen := make(map[string]bool, len(videoIDs))
	for _, id := range videoIDs {
		if doc, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			result = append(result, doc)
		}
	}
	return result, nil
}

// List returns documents matching the filter, most recently processed first.
func (s *videoStore) List(ctx context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error) {
	var where []string
	var args []any

	if filter.UserID != "" {
		where = append(where,
			"EXISTS (SELECT 1 FROM video_users u WHERE u.video_id = v.video_id AND u.user_id = ?)")
		args = append(args, filter.UserID)
	}

	switch {
	case filter.NoTags:
		where = append(where, "NOT EXISTS (SELECT 1 FROM video_tags t WHERE t.video_id = v.video_id)")
	case len(filter.Tags) > 0:
		where = append(where, "EXISTS (SELECT 1 FROM video_tags t WHERE t.video_id = v.video_id AND t.tag IN ("+
			placeholders(len(filter.Tags))+"))")
		args = append(args, toArgs(filter.Tags)...)
	}

	if filter.HasDateRange() {
		where = append(where, "v.processed_at BETWEEN ? AND ?")
		args = append(args, filter.From.UnixNano(), filter.To.UnixNano())
	}

	query := "SELECT " + prefixed(videoColumns, "v.") + " FROM videos v"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY v.processed_at DESC, v.video_id"

	return s.query(ctx, query, args...)
}

// ListByTags returns documents carrying any of the tags.
func (s *videoStore) ListByTags(ctx context.Context, tags []string) ([]domain.VideoDocument, error) {
	if len(tags) == 0 {
		return []domain.VideoDocument{}, nil
	}
	return s.List(ctx, domain.VideoFilter{Tags: tags})
}

// Insert writes a complete document and assigns its ID.
func (s *videoStore) Insert(ctx context.Context, doc *domain.VideoDocument) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	id := uuid.NewString()
	now := s.store.now()
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO videos (`+videoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, doc.VideoID, doc.URL, doc.Title, doc.Channel, doc.DurationSeconds, doc.Transcript,
		string(doc.TranscriptSource), doc.TranscriptLength, float32SliceToBytes(doc.Embedding),
		createdAt.UnixNano(), updatedAt.UnixNano(), doc.ProcessedAt.UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: video %s", domain.ErrAlreadyExists, doc.VideoID)
		}
		return fmt.Errorf("inserting video: %w", err)
	}

	for _, userID := range doc.UserIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO video_users (video_id, user_id) VALUES (?, ?)",
			doc.VideoID, userID); err != nil {
			return fmt.Errorf("inserting video user: %w", err)
		}
	}
	for _, tag := range doc.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO video_tags (video_id, tag) VALUES (?, ?)",
			doc.VideoID, tag); err != nil {
			return fmt.Errorf("inserting video tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	doc.ID = id
	doc.CreatedAt = createdAt
	doc.UpdatedAt = updatedAt
	return nil
}

// AttachUser adds the user to the document's user ids. Idempotent.
func (s *videoStore) AttachUser(ctx context.Context, videoID, userID string) error {
	if err := s.exists(ctx, videoID); err != nil {
		return err
	}

	res, err := s.store.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO video_users (video_id, user_id) VALUES (?, ?)", videoID, userID)
	if err != nil {
		return fmt.Errorf("attaching user: %w", err)
	}
	return s.touchIfChanged(ctx, res, videoID)
}

// AddTag adds a tag when the video has room for it.
func (s *videoStore) AddTag(ctx context.Context, videoID, tag string) error {
	if err := s.exists(ctx, videoID); err != nil {
		return err
	}

	// Single statement so the limit check and insert cannot interleave with another writer.
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO video_tags (video_id, tag)
		SELECT ?, ? WHERE (SELECT COUNT(*) FROM video_tags WHERE video_id = ?) < ?
		ON CONFLICT(video_id, tag) DO NOTHING
	`, videoID, tag, videoID, domain.MaxTags)
	if err != nil {
		return fmt.Errorf("adding tag: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adding tag: %w", err)
	}
	if n > 0 {
		return s.touch(ctx, videoID)
	}

	var present int
	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM video_tags WHERE video_id = ? AND tag = ?", videoID, tag).Scan(&present); err != nil {
		return fmt.Errorf("checking tag: %w", err)
	}
	if present > 0 {
		return nil
	}
	return fmt.Errorf("%w: video %s already has %d tags", domain.ErrTagLimitExceeded, videoID, domain.MaxTags)
}

// RemoveTag removes a tag. An absent tag is a no-op.
func (s *videoStore) RemoveTag(ctx context.Context, videoID, tag string) error {
	if err := s.exists(ctx, videoID); err != nil {
		return err
	}

	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM video_tags WHERE video_id = ? AND tag = ?", videoID, tag)
	if err != nil {
		return fmt.Errorf("removing tag: %w", err)
	}
	return s.touchIfChanged(ctx, res, videoID)
}

// DistinctTags returns every tag in use, sorted, without empty values.
func (s *videoStore) DistinctTags(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT DISTINCT tag FROM video_tags WHERE tag <> '' ORDER BY tag")
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Close closes the underlying database.
func (s *videoStore) Close() error {
	return s.store.Close()
}

func (s *videoStore) exists(ctx context.Context, videoID string) error {
	var n int
	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM videos WHERE video_id = ?", videoID).Scan(&n); err != nil {
		return fmt.Errorf("checking video: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: video %s", domain.ErrNotFound, videoID)
	}
	return nil
}

func (s *videoStore) touch(ctx context.Context, videoID string) error {
	if _, err := s.store.db.ExecContext(ctx,
		"UPDATE videos SET updated_at = ? WHERE video_id = ?", s.store.now().UnixNano(), videoID); err != nil {
		return fmt.Errorf("updating timestamp: %w", err)
	}
	return nil
}

func (s *videoStore) touchIfChanged(ctx context.Context, res sql.Result, videoID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading result: %w", err)
	}
	if n == 0 {
		return nil
	}
	return s.touch(ctx, videoID)
}

// query runs a video select and loads user ids and tags for the results.
func (s *videoStore) query(ctx context.Context, query string, args ...any) ([]domain.VideoDocument, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	defer rows.Close()

	docs := []domain.VideoDocument{}
	for rows.Next() {
		doc, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning video: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating videos: %w", err)
	}

	if err := s.loadRelations(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// loadRelations fills UserIDs and Tags in insertion order.
func (s *videoStore) loadRelations(ctx context.Context, docs []domain.VideoDocument) error {
	if len(docs) == 0 {
		return nil
	}

	index := make(map[string]*domain.VideoDocument, len(docs))
	ids := make([]any, len(docs))
	for i := range docs {
		index[docs[i].VideoID] = &docs[i]
		ids[i] = docs[i].VideoID
	}
	in := placeholders(len(docs))

	users, err := s.pairs(ctx, "SELECT video_id, user_id FROM video_users WHERE video_id IN ("+in+") ORDER BY rowid", ids)
	if err != nil {
		return fmt.Errorf("loading video users: %w", err)
	}
	for _, p := range users {
		doc := index[p[0]]
		doc.UserIDs = append(doc.UserIDs, p[1])
	}

	tags, err := s.pairs(ctx, "SELECT video_id, tag FROM video_tags WHERE video_id IN ("+in+") ORDER BY rowid", ids)
	if err != nil {
		return fmt.Errorf("loading video tags: %w", err)
	}
	for _, p := range tags {
		doc := index[p[0]]
		doc.Tags = append(doc.Tags, p[1])
	}

	for i := range docs {
		if docs[i].UserIDs == nil {
			docs[i].UserIDs = []string{}
		}
		if docs[i].Tags == nil {
			docs[i].Tags = []string{}
		}
	}
	return nil
}

func (s *videoStore) pairs(ctx context.Context, query string, args []any) ([][2]string, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var p [2]string
		if err := rows.Scan(&p[0], &p[1]); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(row scanner) (*domain.VideoDocument, error) {
	var doc domain.VideoDocument
	var source string
	var embedding []byte
	var createdAt, updatedAt, processedAt int64

	if err := row.Scan(&doc.ID, &doc.VideoID, &doc.URL, &doc.Title, &doc.Channel,
		&doc.DurationSeconds, &doc.Transcript, &source, &doc.TranscriptLength, &embedding,
		&createdAt, &updatedAt, &processedAt); err != nil {
		return nil, err
	}

	doc.TranscriptSource = domain.TranscriptSource(source)
	doc.Embedding = bytesToFloat32Slice(embedding)
	doc.CreatedAt = fromUnixNano(createdAt)
	doc.UpdatedAt = fromUnixNano(updatedAt)
	doc.ProcessedAt = fromUnixNano(processedAt)
	return &doc, nil
}

// ==================== Feedback Store ====================

// feedbackStore implements driven.FeedbackStore.
type feedbackStore struct {
	store *Store
}

var _ driven.FeedbackStore = (*feedbackStore)(nil)

// SaveFeedback writes a feedback record and assigns its ID when empty.
func (s *feedbackStore) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = s.store.now()
	}

	if _, err := s.store.db.ExecContext(ctx,
		"INSERT INTO feedback (id, user_id, text, created_at) VALUES (?, ?, ?, ?)",
		fb.ID, fb.UserID, fb.Text, fb.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func prefixed(columns, prefix string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
