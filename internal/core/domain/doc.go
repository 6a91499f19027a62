// Package domain defines the core business entities for askontube.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - VideoDocument: A processed video with transcript and embedding
//   - VideoMetadata: Title, channel and duration reported by the platform
//   - CaptionResult: The explicit outcome of a caption lookup
//   - Feedback: Free text submitted by a user
//   - Settings: Application configuration
//
// It also holds the pure helpers of the ingestion pipeline: video id
// extraction and duration parsing.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
