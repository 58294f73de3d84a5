// Package scoreclient delivers finished games to the score service, either
// over HTTP or in-process.
package scoreclient

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

	"github.com/cglprep/blitz/internal/scores"
)

// SaveScorePath is the endpoint a Submission is posted to.
const SaveScorePath = "/api/games/save-score"

// Submitter delivers one finished game. Implementations do not retry.
type Submitter interface {
	Submit(ctx context.Context, sub scores.Submission) (scores.SaveResult, error)
}

// ErrRejected wraps every non-2xx answer from the API.
var ErrRejected = errors.New("score rejected")

// HTTPClient posts submissions to a remote score API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) { c.http = hc }
}

// NewHTTPClient targets the API at baseURL. token is sent as a bearer
// credential when non-empty.
func NewHTTPClient(baseURL, token string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type envelope struct {
	Success bool              `json:"success"`
	Data    scores.SaveResult `json:"data"`
	Error   string            `json:"error"`
}

func (c *HTTPClient) Submit(ctx context.Context, sub scores.Submission) (scores.SaveResult, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return scores.SaveResult{}, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SaveScorePath, bytes.NewReader(body))
	if err != nil {
		return scores.SaveResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return scores.SaveResult{}, fmt.Errorf("post score: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return scores.SaveResult{}, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return scores.SaveResult{}, fmt.Errorf("%w: HTTP %d: %s", ErrRejected, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return scores.SaveResult{}, fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		return scores.SaveResult{}, fmt.Errorf("%w: %s", ErrRejected, env.Error)
	}
	return env.Data, nil
}

// LocalSubmitter saves directly through a scores.Service, for offline play.
type LocalSubmitter struct {
	svc    *scores.Service
	userID string
}

// NewLocalSubmitter saves every submission as userID.
func NewLocalSubmitter(svc *scores.Service, userID string) *LocalSubmitter {
	return &LocalSubmitter{svc: svc, userID: userID}
}

func (l *LocalSubmitter) Submit(ctx context.Context, sub scores.Submission) (scores.SaveResult, error) {
	return l.svc.SaveScore(ctx, l.userID, sub)
}
