package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/glossyapp/glossy-server/internal/config"
	domainerrors "github.com/glossyapp/glossy-server/internal/errors"
	"github.com/glossyapp/glossy-server/internal/ratelimit"
)

const (
	// Outbound calls are rate limited per user, not per process.
	defaultBurst = 2

	// Each individual status poll is a quick exchange; the long wait lives
	// in the loop, not in the HTTP client.
	pollRequestTimeout = 15 * time.Second
)

// Client calls the remote generation backend. The transport is fixed at
// construction from configuration; the client keeps no state between calls.
type Client struct {
	endpoint     string
	transport    config.AITransport
	syncClient   *http.Client
	pollClient   *http.Client
	pollInterval time.Duration
	pollLimit    int
	limiter      *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// New creates a backend client from the AI configuration.
func New(cfg config.AIConfig, logger *slog.Logger) *Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}

	return &Client{
		endpoint:  cfg.Endpoint,
		transport: cfg.Transport,
		syncClient: &http.Client{
			// The full exchange, not just the first byte: generation can
			// take most of this.
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: dialer.DialContext,
			},
		},
		pollClient: &http.Client{
			Timeout: pollRequestTimeout,
			Transport: &http.Transport{
				DialContext: dialer.DialContext,
			},
		},
		pollInterval: cfg.PollInterval,
		pollLimit:    cfg.PollLimit,
		limiter:      ratelimit.New(float64(cfg.RequestsPerMinute)/60.0, defaultBurst),
		logger:       logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Generate executes one edit request against the backend and returns its raw
// reply. userKey scopes the rate limit. Failures are typed: unreachable,
// timeout, remote error, or malformed reply.
func (c *Client) Generate(ctx context.Context, userKey string, req *EditRequest) (*RawReply, error) {
	if c.endpoint == "" {
		return nil, domainerrors.UpstreamUnreachable("no generation backend configured")
	}

	if err := c.limiter.Wait(ctx, userKey); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUpstreamTimeout, "rate limit wait")
	}

	switch c.transport {
	case config.AITransportQueue:
		return c.generateQueued(ctx, req)
	default:
		return c.generateSync(ctx, req)
	}
}

// generateSync performs a single blocking request; the response body is the
// raw reply, unwrapped.
func (c *Client) generateSync(ctx context.Context, req *EditRequest) (*RawReply, error) {
	body, err := c.post(ctx, c.syncClient, c.endpoint, req)
	if err != nil {
		return nil, err
	}

	var reply RawReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUpstreamBadReply, "decode reply")
	}
	return &reply, nil
}

// generateQueued submits a job and polls its status until the backend reports
// a terminal state or the poll budget runs out. Polls are strictly
// sequential; cancellation aborts the loop without touching the remote job.
func (c *Client) generateQueued(ctx context.Context, req *EditRequest) (*RawReply, error) {
	submission := jobSubmission{Input: jobInput{Action: req.Action, Data: req}}

	body, err := c.post(ctx, c.pollClient, c.endpoint+"/run", submission)
	if err != nil {
		return nil, err
	}

	var started jobStarted
	if err := json.Unmarshal(body, &started); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUpstreamBadReply, "decode job id")
	}
	if started.ID == "" {
		return nil, domainerrors.UpstreamBadReply("backend returned no job id")
	}

	c.logger.Debug("generation job submitted", "job_id", started.ID)

	statusURL := c.endpoint + "/status/" + started.ID

	// First poll runs immediately; the interval only separates polls.
	for attempt := 1; attempt <= c.pollLimit; attempt++ {
		body, err := c.get(ctx, statusURL)
		if err != nil {
			return nil, err
		}

		var status jobStatus
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeUpstreamBadReply, "decode job status")
		}

		switch status.Status {
		case jobStatusCompleted:
			if status.Output == nil {
				return nil, domainerrors.UpstreamBadReply("completed job carried no output")
			}
			return status.Output, nil
		case jobStatusFailed:
			msg := status.Error
			if msg == "" {
				msg = "generation job failed"
			}
			return nil, domainerrors.UpstreamError(msg)
		}

		// IN_QUEUE, IN_PROGRESS, or anything unrecognized: keep polling.
		if attempt == c.pollLimit {
			break
		}

		select {
		case <-ctx.Done():
			return nil, domainerrors.Wrap(ctx.Err(), domainerrors.CodeUpstreamTimeout, "generation canceled")
		case <-time.After(c.pollInterval):
		}
	}

	return nil, domainerrors.UpstreamTimeout(
		fmt.Sprintf("generation job %s still running after %d polls", started.ID, c.pollLimit))
}

// post sends a JSON body and returns the raw response body.
func (c *Client) post(ctx context.Context, client *http.Client, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(client, req)
}

// get performs a GET and returns the raw response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create request")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(c.pollClient, req)
}

// do executes a request and maps transport and status failures to typed errors.
func (c *Client) do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUpstreamBadReply, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domainerrors.UpstreamError(
			fmt.Sprintf("backend returned status %d", resp.StatusCode))
	}

	return body, nil
}

// mapTransportError classifies a client.Do failure as timeout or unreachable.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.Wrap(err, domainerrors.CodeUpstreamTimeout, "backend call timed out")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domainerrors.Wrap(err, domainerrors.CodeUpstreamTimeout, "backend call timed out")
	}

	return domainerrors.Wrap(err, domainerrors.CodeUpstreamUnreachable, "backend unreachable")
}
