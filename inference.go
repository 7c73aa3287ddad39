package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// FallbackResponse is returned when the backend answers 200 without a
// response field.
const FallbackResponse = "No response received"

// DefaultInferenceTimeout bounds the inference round trip.
const DefaultInferenceTimeout = 30 * time.Second

// Generator produces an assistant response for a prompt. The inference
// call is the only operation expected to block for non-trivial
// wall-clock time; implementations must run with a bounded timeout and
// return a tagged error instead of hanging the request path.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InferenceClient calls the model serving endpoint over HTTP:
// POST {baseURL}/generate with a JSON {"prompt": ...} body.
type InferenceClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// InferenceOption configures the client.
type InferenceOption func(*InferenceClient)

// WithTimeout overrides the default 30-second request timeout.
func WithTimeout(d time.Duration) InferenceOption {
	return func(c *InferenceClient) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) InferenceOption {
	return func(c *InferenceClient) {
		c.logger = logger
	}
}

// NewInferenceClient creates a client for the inference backend.
func NewInferenceClient(baseURL string, opts ...InferenceOption) *InferenceClient {
	c := &InferenceClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultInferenceTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends the prompt and returns the response text. Non-200
// statuses and transport failures come back as tagged upstream errors,
// never as a hung request.
func (c *InferenceClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", NewChatError(ErrCodeInternal, "failed to marshal prompt", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", NewChatError(ErrCodeInternal, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("inference request timed out",
				slog.Duration("elapsed", time.Since(start)),
			)
			return "", NewUpstreamTimeoutError(err)
		}
		return "", NewConnectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("inference backend returned error status",
			slog.Int("status", resp.StatusCode),
		)
		return "", NewUpstreamError(resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", NewConnectionError(fmt.Errorf("decoding response: %w", err))
	}

	if out.Response == "" {
		return FallbackResponse, nil
	}

	c.logger.Debug("inference completed",
		slog.Duration("duration", time.Since(start)),
		slog.Int("response_len", len(out.Response)),
	)

	return out.Response, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
