// Package adapter provides the HTTP client for the CardVault REST API.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/session"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const apiPrefix = "/api/v1"

// ClientConfig holds the settings for a Client
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables the limiter
	Burst      int
	Sessions   session.Provider
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client issues requests against the CardVault API.
// Every authenticated call reads the bearer token from the session provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.Provider
	limiter    *rate.Limiter
	logger     *logging.Logger
}

// NewClient creates a new CardVault API client
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session provider is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		sessions:   cfg.Sessions,
		logger:     logger.WithField("component", "api_client"),
	}

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return c, nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Sessions returns the session provider backing the client
func (c *Client) Sessions() session.Provider {
	return c.sessions
}

// request describes one API call
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	public      bool   // no bearer token needed
	fallback    string // message used when the server gives none
}

// envelope is the response body shape shared by every endpoint
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// serverMessage extracts error.message or a string detail
func (e *envelope) serverMessage() string {
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if len(e.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(e.Detail, &detail); err == nil {
			return detail
		}
	}
	return ""
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.NewInternalError("encoding request body", err)
	}
	return bytes.NewReader(data), nil
}

// do executes r and decodes the data member of the envelope into out.
// A 2xx response with an empty body or no data member leaves out untouched.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	operation := fmt.Sprintf("%s %s", r.method, r.path)

	reqURL := c.baseURL + apiPrefix + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, r.body)
	if err != nil {
		return apperrors.NewInternalError("building request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if !r.public {
		sess, err := c.sessions.Load(ctx)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return apperrors.NewNotLoggedInError()
			}
			return apperrors.NewInternalError("reading session", err)
		}
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.NewNetworkError(operation, err)
		}
	}

	log := c.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"method":     r.method,
		"path":       r.path,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return apperrors.NewNetworkError(operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(operation, err)
	}

	log.WithFields(map[string]interface{}{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("request completed")

	var env envelope
	var decodeErr error
	if len(bytes.TrimSpace(body)) > 0 {
		decodeErr = json.Unmarshal(body, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := ""
		if decodeErr == nil {
			message = env.serverMessage()
		}
		if message == "" {
			message = r.fallback
		}
		httpErr := apperrors.NewHTTPError(resp.StatusCode, message)
		if env.Error != nil && env.Error.Code != "" {
			httpErr.Code = env.Error.Code
		}
		return httpErr
	}

	if decodeErr != nil {
		return apperrors.NewDecodeError(operation, decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.NewDecodeError(operation, err)
	}
	return nil
}
