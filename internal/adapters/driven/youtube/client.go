package youtube

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

// Ensure Client implements the interfaces.
var (
	_ driven.MetadataFetcher = (*Client)(nil)
	_ driven.CaptionFetcher  = (*Client)(nil)
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// ErrNoCredentials is returned when neither an API key nor OAuth is configured.
var ErrNoCredentials = errors.New("youtube: API key or OAuth refresh token required")

// Config configures the API client.
type Config struct {
	APIKey string

	ClientID     string
	ClientSecret string
	RefreshToken string

	// RequestsPerSecond overrides the default request rate.
	RequestsPerSecond float64

	// Languages is the caption language preference order.
	Languages []string

	// Endpoint overrides the API base URL.
	Endpoint string
}

// ConfigFromSettings builds a client configuration from application settings.
func ConfigFromSettings(s domain.YouTubeSettings, languages []string) Config {
	return Config{
		APIKey:            s.APIKey,
		ClientID:          s.ClientID,
		ClientSecret:      s.ClientSecret,
		RefreshToken:      s.RefreshToken,
		RequestsPerSecond: s.RequestsPerSecond,
		Languages:         languages,
	}
}

// Client wraps the YouTube Data API service with rate limiting.
type Client struct {
	svc         *yt.Service
	rateLimiter *RateLimiter
	languages   []string
}

// NewClient creates an API client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	limiter := NewRateLimiter()
	if cfg.RequestsPerSecond > 0 {
		limiter = NewRateLimiterWithConfig(RateLimitConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			BurstSize:         max(1, int(cfg.RequestsPerSecond)),
		})
	}

	languages := cfg.Languages
	if len(languages) == 0 {
		languages = domain.DefaultCaptionLanguages()
	}

	return &Client{
		svc:         svc,
		rateLimiter: limiter,
		languages:   languages,
	}, nil
}

// OAuthConfig returns the OAuth client configuration for caption access.
// The redirect URL is only needed when running the authorization flow.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoints.Google,
		RedirectURL:  redirectURL,
		Scopes:       []string{yt.YoutubeForceSslScope},
	}
}

func clientOptions(ctx context.Context, cfg Config) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	switch {
	case cfg.RefreshToken != "":
		ts := OAuthConfig(cfg.ClientID, cfg.ClientSecret, "").
			TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		opts = append(opts, option.WithTokenSource(ts))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, ErrNoCredentials
	}

	return opts, nil
}
