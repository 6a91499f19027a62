// Package openai provides a speech-to-text adapter using the OpenAI
// audio transcription API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/logger"
)

// Ensure TranscriptionService implements the interface.
var _ driven.TranscriptionService = (*TranscriptionService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = domain.DefaultTranscriptionModel
	DefaultTimeout = 10 * time.Minute

	// MaxUploadBytes is the largest audio file the endpoint accepts.
	MaxUploadBytes = 25 << 20
)

// Config holds configuration for the transcription service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the transcription model (default: whisper-1).
	Model string

	// Timeout bounds one upload and transcription (default: 10m).
	Timeout time.Duration
}

// TranscriptionService uploads audio files and returns their text.
type TranscriptionService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewTranscriptionService creates a new transcription service.
func NewTranscriptionService(cfg Config) (*TranscriptionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &TranscriptionService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Transcribe uploads the audio file and returns the recognised text.
func (s *TranscriptionService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() > MaxUploadBytes {
		return "", fmt.Errorf("%w: audio file is %d bytes, limit is %d",
			domain.ErrInvalidInput, info.Size(), MaxUploadBytes)
	}

	body, contentType, err := s.buildForm(audioPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	logger.Debug("transcribing %s (%d bytes) with %s", filepath.Base(audioPath), info.Size(), s.model)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: openai transcription: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrUpstream, err)
	}

	var out transcriptionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode response (status %d): %w", domain.ErrUpstream, resp.StatusCode, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: openai error: %s", domain.ErrUpstream, out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai error (status %d): %s", domain.ErrUpstream, resp.StatusCode, string(raw))
	}

	return strings.TrimSpace(out.Text), nil
}

func (s *TranscriptionService) buildForm(audioPath string) (io.Reader, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("model", s.model); err != nil {
		return nil, "", fmt.Errorf("write form: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, "", fmt.Errorf("write form: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("write form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("write form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// ModelName returns the transcription model name.
func (s *TranscriptionService) ModelName() string {
	return s.model
}
