package workflow

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

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/models"
)

const maxResponseBytes = 1 << 20

type Config struct {
	// URL is the full run endpoint of the workflow service.
	URL string
	// WorkflowID selects which analysis workflow processes the session.
	WorkflowID string
	// APIKey is passed through as an opaque bearer credential.
	APIKey string
	// Timeout bounds one Analyze call including retries.
	Timeout time.Duration
}

// Client calls the external workflow service that analyzes one recorded
// session. Transport failures and 5xx responses are retried with
// exponential backoff inside the call timeout; client errors are not.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type runRequest struct {
	WorkflowID string            `json:"workflow_id"`
	SessionID  string            `json:"session_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type runResponse struct {
	Result models.Record `json:"result"`
}

func (c *Client) Analyze(ctx context.Context, req models.AnalysisRequest) (models.Record, error) {
	payload, err := json.Marshal(runRequest{
		WorkflowID: c.cfg.WorkflowID,
		SessionID:  req.SessionID,
		Metadata:   map[string]string{"source": "eval-sys"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analysis request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var result models.Record
	operation := func() error {
		rec, err := c.call(callCtx, payload)
		if err != nil {
			return err
		}
		result = rec
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = c.cfg.Timeout

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().
			Err(err).
			Str("session_id", req.SessionID).
			Dur("wait", wait).
			Msg("analysis call failed, retrying")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, callCtx), notify); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) call(ctx context.Context, payload []byte) (models.Record, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build analysis request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read analysis response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, trimBody(body))
		if resp.StatusCode >= 500 {
			return nil, reason
		}
		return nil, backoff.Permanent(reason)
	}

	var envelope runResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode analysis response: %w", err))
	}
	if envelope.Result == nil {
		return nil, backoff.Permanent(errors.New("analysis response has no result"))
	}
	return envelope.Result, nil
}

// trimBody turns a response body into a short single-line reason string.
func trimBody(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		s = "<empty body>"
	}
	return s
}
