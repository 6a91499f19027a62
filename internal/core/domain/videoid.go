package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Video identifier patterns.
var (
	videoIDRE = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

	// youtubeFallbackRE finds an id anywhere in an unrecognised youtube.com URL.
	youtubeFallbackRE = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

	// foreignHostRE finds an id in URLs from other hosts, such as embed proxies.
	foreignHostRE = regexp.MustCompile(`(?:embed/|v/|vi/|e/|shorts/|watch\?v=)([^#&?]{11})`)
)

// IsVideoID reports whether s is a well-formed 11 character video id.
func IsVideoID(s string) bool {
	return videoIDRE.MatchString(s)
}

// CanonicalVideoURL returns the canonical watch URL for an id.
func CanonicalVideoURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ResolveVideoInput accepts either a bare id or a video URL on any host
// and returns the canonical URL and the id. Only an exact 11 character id
// is taken as bare; everything URL-shaped goes through ExtractVideoID.
func ResolveVideoInput(input string) (canonicalURL, videoID string, err error) {
	input = strings.TrimSpace(input)
	if IsVideoID(input) {
		return CanonicalVideoURL(input), input, nil
	}
	if !strings.ContainsAny(input, "/.") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, input)
	}
	return ExtractVideoID(input)
}

// ExtractVideoID normalises a video URL into its canonical form and id.
// Short links, watch URLs, embed URLs and shorts URLs are tried in that
// order before falling back to a pattern search. Either a well-formed id
// is returned or the call fails with ErrInvalidURL.
func ExtractVideoID(rawURL string) (canonicalURL, videoID string, err error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	parseable := rawURL
	if !strings.Contains(parseable, "://") {
		parseable = "https://" + parseable
	}
	u, err := url.Parse(parseable)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	host := strings.ToLower(u.Host)
	switch {
	case strings.Contains(host, "youtu.be"):
		videoID, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	case strings.Contains(host, "youtube.com"):
		videoID = extractFromYouTubeHost(u, rawURL)
	default:
		if m := foreignHostRE.FindStringSubmatch(rawURL); m != nil {
			videoID = m[1]
		}
	}

	if !IsVideoID(videoID) {
		return "", "", fmt.Errorf("%w: no video id in %q", ErrInvalidURL, rawURL)
	}
	return CanonicalVideoURL(videoID), videoID, nil
}

func extractFromYouTubeHost(u *url.URL, rawURL string) string {
	if v := u.Query().Get("v"); v != "" {
		return v
	}

	path := strings.TrimSuffix(u.Path, "/")
	if strings.Contains(path, "embed") || strings.Contains(path, "shorts") {
		return path[strings.LastIndex(path, "/")+1:]
	}

	if m := youtubeFallbackRE.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}
