// Package youtube reads video metadata and captions from the YouTube Data API.
//
// Requests authenticate with an OAuth refresh token when one is configured
// and with an API key otherwise. Caption downloads generally need OAuth;
// with an API key alone they fail and ingestion falls back to audio.
//
// Every request waits on a shared token bucket, and a 429 response backs
// the bucket off before the next call.
package youtube
