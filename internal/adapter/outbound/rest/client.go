// Package rest implements the outbound resource client against the
// placefeed HTTP API. It adapts the JSON wire format to the domain types
// and normalizes every failure into either a transport error or an
// *APIError carrying the response status.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/placefeed/placefeed/internal/domain/card"
	"github.com/placefeed/placefeed/internal/domain/user"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// Client talks to the placefeed API. It implements both
// outbound.ResourceClient and outbound.AuthClient.
type Client struct {
	baseURL     string
	authBaseURL string
	timeout     time.Duration
	httpClient  *http.Client
	logger      *slog.Logger

	mu         sync.RWMutex
	credential string

	tracer   trace.Tracer
	requests metric.Int64Counter
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.authBaseURL == "" {
		c.authBaseURL = c.baseURL
	} else {
		c.authBaseURL = strings.TrimRight(c.authBaseURL, "/")
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	// No-op providers unless telemetry was set up by the caller.
	c.tracer = otel.Tracer("placefeed/rest")
	meter := otel.Meter("placefeed/rest")
	counter, err := meter.Int64Counter("placefeed.client.requests",
		metric.WithDescription("API requests issued, by path and status"))
	if err != nil {
		c.logger.Debug("request counter unavailable", "error", err)
	}
	c.requests = counter

	return c
}

// SetCredential installs the bearer credential used for authorized calls.
// An empty string clears it.
func (c *Client) SetCredential(credential string) {
	c.mu.Lock()
	c.credential = credential
	c.mu.Unlock()
}

func (c *Client) currentCredential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

// FetchProfile returns the current user's profile.
func (c *Client) FetchProfile(ctx context.Context) (*user.Profile, error) {
	var p user.Profile
	if err := c.do(ctx, http.MethodGet, c.baseURL, "/users/me", nil, &p, c.currentCredential()); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile sets the profile name and about line. The server's
// response is the authoritative new profile.
func (c *Client) UpdateProfile(ctx context.Context, name, about string) (*user.Profile, error) {
	body := map[string]string{"name": name, "about": about}
	var p user.Profile
	if err := c.do(ctx, http.MethodPatch, c.baseURL, "/users/me", body, &p, c.currentCredential()); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateAvatar sets the avatar URL. The server's response is the
// authoritative new profile.
func (c *Client) UpdateAvatar(ctx context.Context, avatarURL string) (*user.Profile, error) {
	body := map[string]string{"avatar": avatarURL}
	var p user.Profile
	if err := c.do(ctx, http.MethodPatch, c.baseURL, "/users/me/avatar", body, &p, c.currentCredential()); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchCards returns the shared feed in server order.
func (c *Client) FetchCards(ctx context.Context) ([]card.Card, error) {
	var cards []card.Card
	if err := c.do(ctx, http.MethodGet, c.baseURL, "/cards", nil, &cards, c.currentCredential()); err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCard submits a new card and returns it with the server-assigned ID.
func (c *Client) CreateCard(ctx context.Context, name, imageURL string) (*card.Card, error) {
	body := map[string]string{"name": name, "link": imageURL}
	var created card.Card
	if err := c.do(ctx, http.MethodPost, c.baseURL, "/cards", body, &created, c.currentCredential()); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCard removes a card by ID.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL, "/cards/"+cardID, nil, nil, c.currentCredential())
}

// LikeCard adds the current user's like and returns the authoritative card.
func (c *Client) LikeCard(ctx context.Context, cardID string) (*card.Card, error) {
	var updated card.Card
	if err := c.do(ctx, http.MethodPut, c.baseURL, "/cards/"+cardID+"/likes", nil, &updated, c.currentCredential()); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UnlikeCard removes the current user's like and returns the authoritative card.
func (c *Client) UnlikeCard(ctx context.Context, cardID string) (*card.Card, error) {
	var updated card.Card
	if err := c.do(ctx, http.MethodDelete, c.baseURL, "/cards/"+cardID+"/likes", nil, &updated, c.currentCredential()); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Register creates an account. It does not authenticate the user and
// carries no authorization header.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, c.authBaseURL, "/signup", body, nil, "")
}

// Login exchanges credentials for an opaque bearer token. It carries no
// authorization header.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, c.authBaseURL, "/signin", body, &resp, ""); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// VerifyToken checks a stored credential against the token-check endpoint
// and returns the account email it belongs to.
func (c *Client) VerifyToken(ctx context.Context, credential string) (string, error) {
	var resp struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.authBaseURL, "/users/me", nil, &resp, credential); err != nil {
		return "", err
	}
	return resp.Data.Email, nil
}

// do performs one HTTP round trip. A non-2xx response becomes an
// *APIError; transport failures are wrapped with their cause. No retries.
func (c *Client) do(ctx context.Context, method, base, path string, body any, result any, credential string) error {
	url := base + path
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+credential)
	}
	httpReq.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("request", "method", method, "path", path, "request_id", requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "transport failure")
		c.count(ctx, path, 0)
		return fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "unreadable response")
		c.count(ctx, path, httpResp.StatusCode)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	c.count(ctx, path, httpResp.StatusCode)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		span.SetStatus(otelcodes.Error, "rejected")
		c.logger.Debug("rejected", "method", method, "path", path,
			"status", httpResp.StatusCode, "request_id", requestID)
		return &APIError{
			Status:    httpResp.StatusCode,
			Body:      strings.TrimSpace(string(respBody)),
			RequestID: requestID,
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

func (c *Client) count(ctx context.Context, path string, status int) {
	if c.requests == nil {
		return
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("url.path", path),
		attribute.Int("http.response.status_code", status),
	))
}
