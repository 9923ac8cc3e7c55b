package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gustavoln/financeiro-client/internal/domain/chat"
	"github.com/gustavoln/financeiro-client/internal/domain/model"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

const (
	// DefaultTimeout bounds every analyze and chat call.
	DefaultTimeout = 30 * time.Second
	// DefaultHealthTimeout bounds the lightweight health probe.
	DefaultHealthTimeout = 5 * time.Second

	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv"
)

// ClientConfig holds the HTTP client's settings.
type ClientConfig struct {
	// BaseURL is the service root, e.g. http://localhost:5000/api.
	BaseURL string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
	// HealthTimeout overrides DefaultHealthTimeout when positive.
	HealthTimeout time.Duration
	// HTTPClient overrides the default transport, mainly for tests.
	HTTPClient *http.Client
	// Logger receives request-level diagnostics; nil means slog.Default.
	Logger *slog.Logger
}

// Client talks to the remote analysis service over HTTP. It implements
// Service. Failures are classified into exactly one taxonomy type per
// call and are never retried automatically.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	healthTimeout time.Duration
	logger        *slog.Logger
}

var _ Service = (*Client)(nil)

// NewClient creates an HTTP client for the given service base URL.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	healthTimeout := cfg.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = DefaultHealthTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    httpClient,
		healthTimeout: healthTimeout,
		logger:        logger,
	}
}

// Analyze submits a JSON batch and maps the response.
func (c *Client) Analyze(ctx context.Context, batch model.Batch) (*model.AnalysisResult, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, &fault.ParseError{Message: "marshal analyze request", Err: err}
	}
	return c.postAnalyze(ctx, contentTypeJSON, payload)
}

// AnalyzeCSV submits raw CSV text with its own content type.
func (c *Client) AnalyzeCSV(ctx context.Context, content string) (*model.AnalysisResult, error) {
	return c.postAnalyze(ctx, contentTypeCSV, []byte(content))
}

func (c *Client) postAnalyze(ctx context.Context, contentType string, payload []byte) (*model.AnalysisResult, error) {
	status, body, err := c.post(ctx, "/analyze", contentType, payload)
	if err != nil {
		return nil, err
	}

	result, err := MapAnalysisResponse(status, body)
	if err != nil {
		c.logger.Warn("analyze failed", "status", status, "error", err)
		return nil, err
	}
	c.logger.Info("analyze completed",
		"transactions", len(result.Transactions),
		"model_version", result.ModelVersion)
	return result, nil
}

// HealthCheck probes GET /health under its own short timeout. Any failure
// degrades to false; this is the only call that swallows errors.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// chatRequest is the wire shape of POST /chat. A nil snapshot produces no
// context field at all.
type chatRequest struct {
	Message string        `json:"message"`
	Context *chat.Context `json:"context,omitempty"`
}

type chatResponse struct {
	Success     *bool    `json:"success"`
	Message     string   `json:"message"`
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions"`
}

// SendChatMessage posts a message with an optional financial snapshot. A
// non-200 status or a reply without a true success flag surfaces as an
// ApplicationError carrying the server message and the HTTP status code.
func (c *Client) SendChatMessage(ctx context.Context, message string, snapshot *chat.Context) (*chat.Reply, error) {
	payload, err := json.Marshal(chatRequest{Message: message, Context: snapshot})
	if err != nil {
		return nil, &fault.ParseError{Message: "marshal chat request", Err: err}
	}

	status, body, err := c.post(ctx, "/chat", contentTypeJSON, payload)
	if err != nil {
		return nil, err
	}

	var reply chatResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, &fault.ParseError{Message: "response is not a valid chat reply", Err: err}
	}
	if status != http.StatusOK || reply.Success == nil || !*reply.Success {
		msg := reply.Message
		if msg == "" {
			msg = reply.Error
		}
		if msg == "" {
			msg = "chat request failed"
		}
		return nil, &fault.ApplicationError{Code: status, Message: msg}
	}

	return &chat.Reply{Message: reply.Message, Suggestions: reply.Suggestions}, nil
}

// QuickInsights fetches opaque insight JSON from GET /chat/insights.
func (c *Client) QuickInsights(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/chat/insights")
}

// BudgetOptimization fetches opaque JSON from GET /chat/optimize.
func (c *Client) BudgetOptimization(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/chat/optimize")
}

// getRaw performs a parameterless GET whose body passes through untouched.
// Every failure, including transport-level ones, wraps into a
// TransportError for these opaque endpoints.
func (c *Client) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &fault.TransportError{Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &fault.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &fault.TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &fault.TransportError{StatusCode: resp.StatusCode}
	}
	return json.RawMessage(body), nil
}

// post sends a request body and returns the raw status and body. Errors
// from it are already classified as NetworkError.
func (c *Client) post(ctx context.Context, path, contentType string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, &fault.NetworkError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &fault.NetworkError{Op: fmt.Sprintf("POST %s", path), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &fault.NetworkError{Op: "read response body", Err: err}
	}
	return resp.StatusCode, body, nil
}
