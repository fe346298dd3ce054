// Package mercadolivre is the OAuth + search client for the Mercado Livre
// API. The token endpoint rotates the refresh token on every call, so both
// returned values must always be persisted by the caller; keeping the old
// refresh token means the next refresh fails with an invalid-grant error.
package mercadolivre

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAuthURL   = "https://auth.mercadolivre.com.br/authorization"
	defaultTokenURL  = "https://api.mercadolibre.com/oauth/token"
	defaultSearchURL = "https://api.mercadolibre.com/sites/MLB/search"
)

// ErrNoRefreshToken is returned by Refresh when no refresh token is
// available, before any network call is made.
var ErrNoRefreshToken = errors.New("refresh token ausente")

// ExchangeError is a non-success response from the token endpoint during the
// authorization-code exchange. Body carries the provider's raw error payload.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("mercadolivre: troca de code falhou (%d): %s", e.StatusCode, e.Body)
}

// RefreshError is a non-success response from the token endpoint during a
// refresh-token exchange.
type RefreshError struct {
	StatusCode int
	Body       string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("mercadolivre: renovação de token falhou (%d): %s", e.StatusCode, e.Body)
}

// APIError is a non-success response from an authenticated API call. The
// status code and body are propagated verbatim to the client.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadolivre: API retornou %d: %s", e.StatusCode, e.Body)
}

// TokenPair is the token endpoint response. RefreshToken is a new value on
// every refresh; the previous one is invalidated by the provider.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       int64  `json:"user_id"`
}

// Item is the search result projection served to the frontend. Reviews stays
// null (never omitted) when the provider sends nothing.
type Item struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Price             *float64        `json:"price"`
	Thumbnail         string          `json:"thumbnail"`
	Permalink         string          `json:"permalink"`
	Condition         string          `json:"condition"`
	AvailableQuantity int             `json:"available_quantity"`
	SoldQuantity      int             `json:"sold_quantity"`
	Reviews           json.RawMessage `json:"reviews"`
}

// Config holds the OAuth app credentials. The endpoint URLs default to the
// production API and exist as fields so tests can point at a local server.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL   string
	TokenURL  string
	SearchURL string
}

// Client talks to the Mercado Livre OAuth and search endpoints.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.SearchURL == "" {
		cfg.SearchURL = defaultSearchURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizationURL builds the PKCE authorization redirect target.
func (c *Client) AuthorizationURL(codeChallenge string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("code_challenge", codeChallenge)
	params.Set("code_challenge_method", "S256")
	return c.cfg.AuthURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code (plus its PKCE verifier) for a
// token pair.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("code_verifier", codeVerifier)

	pair, status, body, err := c.postToken(ctx, form)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ExchangeError{StatusCode: status, Body: body}
	}
	return pair, nil
}

// Refresh trades the current refresh token for a new token pair. The caller
// must persist both returned values.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)

	pair, status, body, err := c.postToken(ctx, form)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &RefreshError{StatusCode: status, Body: body}
	}
	return pair, nil
}

func (c *Client) postToken(ctx context.Context, form url.Values) (*TokenPair, int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, string(body), nil
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, 0, "", fmt.Errorf("resposta do token inválida: %w", err)
	}
	return &pair, resp.StatusCode, "", nil
}

// Search runs an authenticated product search. A 401 surfaces as *APIError
// with StatusCode 401; the refresh-and-retry-once policy belongs to the
// caller.
func (c *Client) Search(ctx context.Context, query string, limit int, accessToken string) ([]Item, error) {
	searchURL := c.cfg.SearchURL + "?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		Results []Item `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("resposta da busca inválida: %w", err)
	}
	if result.Results == nil {
		result.Results = []Item{}
	}
	return result.Results, nil
}
