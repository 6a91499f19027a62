// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - VideoStore: Video document persistence
//   - FeedbackStore: Feedback persistence
//   - MetadataFetcher: Video title, channel and duration lookup
//   - CaptionFetcher: Platform caption retrieval
//   - Tokenizer: Embedding model tokenisation
//   - EmbeddingService: Generates vector embeddings
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AudioDownloader and TranscriptionService: Without them, videos
//     without captions fail with ErrTranscriptionUnavailable.
//   - LLMService: Without it, question answering reports ErrLLMUnavailable.
//   - IngestLock: Without it, concurrent ingestion of one video relies on
//     the store's unique video id alone.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
