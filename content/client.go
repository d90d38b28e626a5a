package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Sentinel errors callers can match on.
var (
	ErrServiceUnavailable = errors.New("content service unavailable")
	ErrBadRequest         = errors.New("content service rejected request")
	ErrEmptyStory         = errors.New("content service returned no story")
)

// ClientConfig configures the generation client.
type ClientConfig struct {
	BaseURL    string        `yaml:"base_url" env:"STORYSPEAK_SERVICE_URL"`
	APIKey     string        `yaml:"api_key" env:"STORYSPEAK_SERVICE_API_KEY"`
	Timeout    time.Duration `yaml:"timeout" env:"STORYSPEAK_SERVICE_TIMEOUT"`
	MaxRetries int           `yaml:"max_retries" env:"STORYSPEAK_SERVICE_MAX_RETRIES"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"STORYSPEAK_SERVICE_RETRY_DELAY"`
}

// DefaultClientConfig returns sensible settings for a local service.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:    "http://localhost:8080",
		Timeout:    60 * time.Second,
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
	}
}

// Client calls the generation service with retries and a request-rate cap
// so an impatient user mashing the generate key cannot hammer the backend.
type Client struct {
	cfg     ClientConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient creates a generation client.
func NewClient(cfg ClientConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:  logger.With("component", "content"),
	}
}

// Generate requests a story package. Server-side failures are retried
// with a fixed delay; rejections are not, since resending the same
// request cannot fix them.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying generation", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		resp, retryable, err := c.generateOnce(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) generateOnce(ctx context.Context, body []byte) (*Response, bool, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer httpResp.Body.Close()

	c.logger.Debug("generation response",
		"status", httpResp.StatusCode,
		"elapsed", time.Since(start))

	switch {
	case httpResp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", ErrServiceUnavailable, httpResp.StatusCode)
	case httpResp.StatusCode >= 400:
		msg := readErrorMessage(httpResp.Body)
		if msg != "" {
			return nil, false, fmt.Errorf("%w: %s", ErrBadRequest, msg)
		}
		return nil, false, fmt.Errorf("%w: status %d", ErrBadRequest, httpResp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, true, fmt.Errorf("decoding response: %w", err)
	}
	if strings.TrimSpace(out.Story) == "" {
		return nil, true, ErrEmptyStory
	}
	return &out, false, nil
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
