// Package googleauth mints short-lived bearer tokens from a service-account key
// using the OAuth2 JWT-bearer grant.
package googleauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/resilience"
)

const (
	CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	DefaultTokenURL    = "https://oauth2.googleapis.com/token"

	assertionLifetime = 3600 * time.Second
)

type serviceAccountKey struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

type Options struct {
	// TokenURL overrides both the key's token_uri and DefaultTokenURL.
	TokenURL           string
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

// Provider exchanges a signed assertion for a fresh token on every call.
type Provider struct {
	credential string
	tokenURL   string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(credential string, options Options) *Provider {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		credential: strings.TrimSpace(credential),
		tokenURL:   strings.TrimSpace(options.TokenURL),
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

func (p *Provider) Token(ctx context.Context) (string, error) {
	cfg, err := p.jwtConfig()
	if err != nil {
		return "", err
	}

	token, err := resilience.Call(ctx, p.executor, "google.token_exchange", func(callCtx context.Context) (*oauth2.Token, error) {
		callCtx = context.WithValue(callCtx, oauth2.HTTPClient, p.httpClient)
		return cfg.TokenSource(callCtx).Token()
	}, classifyTokenError)
	if err != nil {
		return "", domain.WrapError(domain.ErrAuth, "exchange service account assertion", err)
	}
	if token == nil || token.AccessToken == "" {
		return "", domain.WrapError(domain.ErrAuth, "exchange service account assertion", errors.New("token endpoint returned no access token"))
	}
	return token.AccessToken, nil
}

func (p *Provider) jwtConfig() (*jwt.Config, error) {
	if p.credential == "" {
		return nil, domain.WrapError(domain.ErrConfiguration, "load service account", errors.New("service account credential is not set"))
	}

	var key serviceAccountKey
	if err := json.Unmarshal(decodeCredential(p.credential), &key); err != nil {
		return nil, domain.WrapError(domain.ErrConfiguration, "parse service account", err)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, domain.WrapError(domain.ErrConfiguration, "parse service account", errors.New("client_email and private_key are required"))
	}

	tokenURL := p.tokenURL
	if tokenURL == "" {
		tokenURL = key.TokenURI
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	return &jwt.Config{
		Email:        key.ClientEmail,
		PrivateKey:   []byte(key.PrivateKey),
		PrivateKeyID: key.PrivateKeyID,
		Scopes:       []string{CloudPlatformScope},
		TokenURL:     tokenURL,
		Expires:      assertionLifetime,
	}, nil
}

// decodeCredential accepts Base64-encoded JSON and falls back to raw JSON.
func decodeCredential(credential string) []byte {
	decoded, err := base64.StdEncoding.DecodeString(credential)
	if err == nil && json.Valid(decoded) {
		return decoded
	}
	return []byte(credential)
}

func classifyTokenError(err error) resilience.ErrorClassification {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		if resilience.RetryableHTTPStatus(retrieveErr.Response.StatusCode) {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{}
	}
	return resilience.ClassifyVendorError(fmt.Errorf("token exchange: %w", err))
}
