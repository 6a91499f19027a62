package oauth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// Callback ports tried in order. Register these redirect URIs with the
// OAuth client, e.g. http://localhost:18080/callback.
const (
	CallbackPortStart = 18080
	CallbackPortEnd   = 18089
)

// Flow runs an authorization code flow with PKCE through a loopback callback.
type Flow struct {
	// Config is the OAuth client. Its RedirectURL is set by Run.
	Config *oauth2.Config

	// Open presents the authorization URL, typically OpenBrowser.
	Open func(url string) error

	// Port pins the callback port. Zero searches the default range.
	Port int
}

// Run obtains a token. It asks for offline access so the result carries a
// refresh token.
func (f *Flow) Run(ctx context.Context) (*oauth2.Token, error) {
	if f.Config == nil || f.Open == nil {
		return nil, errors.New("oauth flow requires a config and an open function")
	}

	port := f.Port
	if port == 0 {
		p, err := FindAvailablePort(CallbackPortStart, CallbackPortEnd)
		if err != nil {
			return nil, err
		}
		port = p
	}

	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	server := NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return nil, err
	}
	defer func() { _ = server.Stop() }()

	f.Config.RedirectURL = server.RedirectURI()
	verifier := oauth2.GenerateVerifier()
	authURL := f.Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	if err := f.Open(authURL); err != nil {
		return nil, fmt.Errorf("open authorization url: %w", err)
	}

	code, err := server.WaitForCode(ctx)
	if err != nil {
		return nil, err
	}

	token, err := f.Config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, errors.New("provider returned no refresh token")
	}
	return token, nil
}
