package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"inkwell/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the subset of the provider's userinfo document the application
// needs to resolve a local account.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleClient drives the OAuth2 authorization-code flow against Google.
type GoogleClient struct {
	oauth       *oauth2.Config
	userinfoURL string
}

// NewGoogleClient builds a client for the given application credentials. The
// callback URL must match the one registered with the provider.
func NewGoogleClient(clientID, clientSecret, callbackURL string) *GoogleClient {
	return &GoogleClient{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

// AuthCodeURL returns the provider login URL carrying the CSRF state nonce.
func (g *GoogleClient) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// FetchProfile exchanges the authorization code and fetches the user's
// profile. Every failure is classified as a provider error.
func (g *GoogleClient) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, models.NewProviderError(fmt.Errorf("code exchange: %w", err))
	}

	resp, err := g.oauth.Client(ctx, token).Get(g.userinfoURL)
	if err != nil {
		return nil, models.NewProviderError(fmt.Errorf("userinfo request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewProviderError(fmt.Errorf("userinfo request: status %d", resp.StatusCode))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, models.NewProviderError(fmt.Errorf("userinfo decode: %w", err))
	}
	if profile.Email == "" {
		return nil, models.NewProviderError(fmt.Errorf("userinfo document has no email"))
	}
	if profile.Name == "" {
		profile.Name = profile.Email
	}

	return &profile, nil
}
