// Package auth implements the Google OAuth exchange that produces the
// authenticated identity the rest of the app consumes. It owns no
// application role; roles are assigned during onboarding.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"sweetshop/internal/domain"
	"sweetshop/pkg/logger"
)

// GoogleProvider wraps the OAuth2 code flow against Google.
type GoogleProvider struct {
	config *oauth2.Config
	log    *logger.Logger
}

// NewGoogleProvider creates a provider for the given client credentials.
func NewGoogleProvider(clientID, clientSecret, redirectURL string, log *logger.Logger) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		log: log,
	}
}

// AuthCodeURL returns the Google consent-page URL for the given state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the signed-in user's identity.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.ProviderIdentity, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	svc, err := goauth2.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	if info.Id == "" {
		return nil, fmt.Errorf("userinfo response carries no subject id")
	}

	p.log.WithFields(map[string]interface{}{
		"subject": info.Id,
		"email":   info.Email,
	}).Debug("Google identity resolved")

	return &domain.ProviderIdentity{
		Subject: info.Id,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}
