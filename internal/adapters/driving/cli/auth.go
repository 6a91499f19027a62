package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/adapters/driven/youtube"
	"github.com/custodia-labs/askontube/internal/adapters/driving/oauth"
)

// authTimeout bounds how long the command waits for the browser callback.
const authTimeout = 5 * time.Minute

var (
	authClientID     string
	authClientSecret string
	authNoBrowser    bool
	authPort         int
)

// openAuthURL presents the authorization URL. Replaced in tests.
var openAuthURL = oauth.OpenBrowser

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to external services",
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Authorize caption downloads",
	Long: `Runs the OAuth flow against your Google account and stores the refresh
token used to download captions. Without it, videos fall back to audio
transcription.

The OAuth client must be a desktop or web client with a redirect URI of
http://localhost:<port>/callback, where port is 18080-18089 or --port.`,
	Args: cobra.NoArgs,
	RunE: runAuthYouTube,
}

func init() {
	authYouTubeCmd.Flags().StringVar(&authClientID, "client-id", "", "OAuth client ID (defaults to the stored one)")
	authYouTubeCmd.Flags().StringVar(&authClientSecret, "client-secret", "", "OAuth client secret (defaults to the stored one)")
	authYouTubeCmd.Flags().BoolVar(&authNoBrowser, "no-browser", false, "print the URL instead of opening a browser")
	authYouTubeCmd.Flags().IntVar(&authPort, "port", 0, "callback port")

	authCmd.AddCommand(authYouTubeCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthYouTube(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	clientID, clientSecret := authClientID, authClientSecret
	if clientID == "" {
		clientID = settings.YouTube.ClientID
	}
	if clientSecret == "" {
		clientSecret = settings.YouTube.ClientSecret
	}
	if clientID == "" || clientSecret == "" {
		return errors.New("an OAuth client is required: pass --client-id and --client-secret")
	}

	flow := &oauth.Flow{
		Config: youtube.OAuthConfig(clientID, clientSecret, ""),
		Port:   authPort,
		Open: func(url string) error {
			if authNoBrowser {
				cmd.Printf("Open this URL to authorize:\n\n  %s\n\n", url)
				return nil
			}
			cmd.Println("Opening your browser to authorize askontube...")
			if err := openAuthURL(url); err != nil {
				cmd.Printf("Could not open a browser. Open this URL instead:\n\n  %s\n\n", url)
			}
			return nil
		},
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
	defer cancel()

	cmd.Println(mutedStyle.Render("Waiting for authorization..."))
	token, err := flow.Run(ctx)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	if err := settingsService.SetYouTubeOAuth(clientID, clientSecret, token.RefreshToken); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	cmd.Println(successStyle.Render("YouTube authorized. Captions will be downloaded when available."))
	return nil
}
