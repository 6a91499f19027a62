package domain

// IngestState is a step of the ingestion pipeline.
type IngestState string

// Ingestion states in pipeline order.
const (
	IngestStateCheckExisting    IngestState = "check_existing"
	IngestStateFetchMetadata    IngestState = "fetch_metadata"
	IngestStateValidateDuration IngestState = "validate_duration"
	IngestStateFetchCaptions    IngestState = "fetch_captions"
	IngestStateAudioDownload    IngestState = "audio_download"
	IngestStateTranscribe       IngestState = "transcribe"
	IngestStateEmbed            IngestState = "embed"
	IngestStatePersist          IngestState = "persist"
	IngestStateDone             IngestState = "done"
	IngestStateFailed           IngestState = "failed"
)

// IsTerminal reports whether the pipeline stops in this state.
func (s IngestState) IsTerminal() bool {
	return s == IngestStateDone || s == IngestStateFailed
}

// String returns the string representation.
func (s IngestState) String() string {
	return string(s)
}

// Progress is an advisory ingestion progress update.
type Progress struct {
	State IngestState

	// Percent is an approximate completion percentage. Never decreases within a run.
	Percent int

	Message string
}

// ProgressFunc receives progress updates. It must not block.
type ProgressFunc func(Progress)
