package youtube

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// Common YouTube API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("youtube: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions or an exhausted quota.
	ErrForbidden = errors.New("youtube: forbidden")
)

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// retryAfter reads the Retry-After header of a 429 response, in seconds.
func retryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// wrapError converts an API error into the domain's error vocabulary.
// A 404 maps to notFound, which differs between metadata and captions.
func wrapError(err error, op string, notFound error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
	}

	switch gerr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, notFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrRateLimited, domain.ErrUpstream)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, domain.ErrUpstream)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w: %w", op, ErrForbidden, domain.ErrUpstream)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
	}
}
