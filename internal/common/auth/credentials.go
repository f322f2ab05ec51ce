// internal/common/auth/credentials.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"member-registration/internal/common/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// CredentialSource supplies the bearer credential for the member backend.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticKey is the API key configured out of band (API_KEY).
type StaticKey struct {
	key string
}

func NewStaticKey(key string) (*StaticKey, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("api key is empty")
	}
	return &StaticKey{key: key}, nil
}

func (s *StaticKey) Token(context.Context) (string, error) {
	return s.key, nil
}

// ClientCredentials fetches and caches an OAuth2 access token using the
// client credentials grant.
type ClientCredentials struct {
	source oauth2.TokenSource
}

// NewClientCredentials builds a token source against tokenURL. httpClient may be nil.
func NewClientCredentials(tokenURL, clientID, clientSecret string, scopes []string, httpClient *http.Client) *ClientCredentials {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	return &ClientCredentials{source: cfg.TokenSource(ctx)}
}

func (c *ClientCredentials) Token(context.Context) (string, error) {
	tok, err := c.source.Token()
	if err != nil {
		return "", fmt.Errorf("client credentials token: %w", err)
	}
	return tok.AccessToken, nil
}

// KeycloakTokenURL returns the OpenID Connect token endpoint of a Keycloak realm.
func KeycloakTokenURL(baseURL, realm string) string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", strings.TrimSuffix(baseURL, "/"), realm)
}

// FromConfig picks client credentials when a client id is configured, the
// static API key otherwise.
func FromConfig(cfg config.BackendConfig, httpClient *http.Client) (CredentialSource, error) {
	oauth := cfg.OAuth
	if oauth.ClientID == "" {
		return NewStaticKey(cfg.APIKey)
	}

	tokenURL := oauth.TokenURL
	if tokenURL == "" {
		if oauth.KeycloakURL == "" || oauth.Realm == "" {
			return nil, fmt.Errorf("oauth token url is not configured")
		}
		tokenURL = KeycloakTokenURL(oauth.KeycloakURL, oauth.Realm)
	}
	return NewClientCredentials(tokenURL, oauth.ClientID, oauth.ClientSecret, oauth.Scopes, httpClient), nil
}
