// Package ytdlp downloads video audio with the yt-dlp binary.
package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/logger"
)

// Ensure Downloader implements the interface.
var _ driven.AudioDownloader = (*Downloader)(nil)

// ErrBinaryNotFound is returned when yt-dlp cannot be located.
var ErrBinaryNotFound = errors.New("yt-dlp binary not found")

// maxStderr bounds the yt-dlp output carried in errors.
const maxStderr = 500

// Config holds downloader configuration.
type Config struct {
	// YtDlpPath is the yt-dlp binary. Empty or a bare name is resolved on PATH.
	YtDlpPath string

	// TempDir receives downloaded audio. Empty uses the system temp dir.
	TempDir string

	// CookiesFile is passed to yt-dlp for videos that require a session.
	CookiesFile string
}

// Downloader fetches the best audio stream of a video.
type Downloader struct {
	cfg Config
}

// New creates a downloader, resolving the binary path.
func New(cfg Config) (*Downloader, error) {
	path := cfg.YtDlpPath
	if path == "" {
		path = "yt-dlp"
	}
	if !strings.ContainsRune(path, filepath.Separator) {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, path)
		}
		path = resolved
	}
	cfg.YtDlpPath = path

	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	return &Downloader{cfg: cfg}, nil
}

// DownloadAudio runs yt-dlp into a fresh directory under the temp dir and
// returns the written file as temp_audio_<videoID>.<ext>. The returned
// cleanup removes that directory.
func (d *Downloader) DownloadAudio(ctx context.Context, videoURL, videoID string) (string, func(), error) {
	if err := os.MkdirAll(d.cfg.TempDir, 0700); err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	dir, err := os.MkdirTemp(d.cfg.TempDir, "askontube-audio-")
	if err != nil {
		return "", nil, fmt.Errorf("create download dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("failed to remove %s: %v", dir, err)
		}
	}

	prefix := "temp_audio_" + videoID
	args := []string{
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-progress",
		"--no-warnings",
		"-o", filepath.Join(dir, prefix+".%(ext)s"),
		videoURL,
	}
	if d.cfg.CookiesFile != "" {
		args = append([]string{"--cookies", d.cfg.CookiesFile}, args...)
	}

	logger.Infow("running yt-dlp", "url", videoURL, "dir", dir)

	cmd := exec.CommandContext(ctx, d.cfg.YtDlpPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cleanup()
		out := strings.TrimSpace(stderr.String())
		if len(out) > maxStderr {
			out = out[:maxStderr]
		}
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		return "", nil, fmt.Errorf("%w: yt-dlp: %w: %s", domain.ErrUpstream, err, out)
	}

	path, err := findOutput(dir, prefix)
	if err != nil {
		cleanup()
		return "", nil, err
	}

	logger.Debug("audio downloaded to %s", path)
	return path, cleanup, nil
}

// findOutput locates the file yt-dlp wrote, skipping partial downloads.
func findOutput(dir, prefix string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+".*"))
	if err != nil {
		return "", fmt.Errorf("locate audio: %w", err)
	}
	for _, m := range matches {
		if strings.HasSuffix(m, ".part") || strings.HasSuffix(m, ".ytdl") {
			continue
		}
		return m, nil
	}
	return "", fmt.Errorf("%w: yt-dlp produced no audio file", domain.ErrUpstream)
}
