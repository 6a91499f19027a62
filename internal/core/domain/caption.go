package domain

// CaptionStatus distinguishes the outcomes of a caption lookup.
type CaptionStatus int

// Caption lookup outcomes.
const (
	// CaptionNotAvailable means the video has no caption tracks.
	CaptionNotAvailable CaptionStatus = iota

	// CaptionFound means a track was downloaded.
	CaptionFound

	// CaptionTransportError means listing or downloading failed.
	CaptionTransportError
)

// String returns the string representation.
func (s CaptionStatus) String() string {
	switch s {
	case CaptionFound:
		return "found"
	case CaptionTransportError:
		return "transport_error"
	default:
		return "not_available"
	}
}

// CaptionResult is the outcome of a caption lookup.
// Only a Found result with non-empty text is usable; every other
// outcome sends ingestion down the audio transcription path.
type CaptionResult struct {
	Status CaptionStatus

	// Text is the caption text when Status is CaptionFound.
	Text string

	// Language is the language of the selected track.
	Language string

	// Err is the underlying failure when Status is CaptionTransportError.
	Err error
}

// CaptionsFound returns a found result.
func CaptionsFound(text, language string) CaptionResult {
	return CaptionResult{Status: CaptionFound, Text: text, Language: language}
}

// CaptionsNotAvailable returns a not-available result.
func CaptionsNotAvailable() CaptionResult {
	return CaptionResult{Status: CaptionNotAvailable}
}

// CaptionsTransportError returns a transport-error result.
func CaptionsTransportError(err error) CaptionResult {
	return CaptionResult{Status: CaptionTransportError, Err: err}
}

// Usable reports whether the result carries caption text.
func (r CaptionResult) Usable() bool {
	return r.Status == CaptionFound && r.Text != ""
}
