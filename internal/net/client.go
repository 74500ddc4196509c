package net

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"MathBoard/internal/state"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const calculatePath = "/calculate"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

var (
	ErrNoBaseURL         = errors.New("recognition backend url is not configured")
	ErrMalformedResponse = errors.New("malformed calculate response")
)

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Body)
}

type CalculateRequest struct {
	Image      string            `json:"image"`
	DictOfVars map[string]string `json:"dict_of_vars"`
}

type CalculateResponse struct {
	Data []state.Result `json:"data" validate:"required,dive"`
}

// Client talks to the recognition backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	log        *zap.Logger
	mu         sync.RWMutex
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		log:        log.Named("client"),
	}
}

func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL swaps the backend, used once discovery finds one.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimSuffix(u, "/")
}

// Calculate posts the canvas image and variables and returns the result
// records in the order the backend sent them.
func (c *Client) Calculate(ctx context.Context, req CalculateRequest) ([]state.Result, error) {
	baseURL := c.BaseURL()
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if req.DictOfVars == nil {
		req.DictOfVars = map[string]string{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+calculatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calculate request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("calculate response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out CalculateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := c.validate.Struct(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out.Data, nil
}
