// Package cloudsync uploads saved entries to the solaris cloud service.
// Uploads are best-effort: failures are logged and never affect the local
// copy of the entry.
package cloudsync

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/model"
)

// TokenSource yields the stored bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Gateway posts entries to the memo API.
type Gateway struct {
	endpoint string
	tokens   TokenSource
	base     *http.Client
	log      logging.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the client used underneath the bearer-token transport.
func WithHTTPClient(hc *http.Client) Option { return func(g *Gateway) { g.base = hc } }

// New returns a Gateway posting to endpoint.
func New(endpoint string, tokens TokenSource, log logging.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		endpoint: endpoint,
		tokens:   tokens,
		base:     http.DefaultClient,
		log:      log.With("component", "cloudsync"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// memoPayload is the JSON body accepted by the memo API.
type memoPayload struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

// Sync uploads entry once and reports whether the server accepted it.
// It reads the token on every call, so a login in another process takes
// effect without restarting the server.
func (g *Gateway) Sync(ctx context.Context, entry model.Entry) bool {
	token, ok := g.tokens.Token()
	if !ok {
		g.log.Warn(ctx, "cloud sync: not authenticated, run: solaris auth login", "id", entry.ID)
		return false
	}

	body, err := json.Marshal(memoPayload{ID: entry.ID, Timestamp: entry.Timestamp, Content: entry.Content})
	if err != nil {
		g.log.Error(ctx, "cloud sync: encoding entry", "id", entry.ID, "error", err)
		return false
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		g.log.Error(ctx, "cloud sync: building request", "id", entry.ID, "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	httpClient := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, g.base),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
	)
	resp, err := httpClient.Do(req)
	if err != nil {
		g.log.Warn(ctx, "cloud sync error", "id", entry.ID, "request_id", requestID, "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.log.Warn(ctx, "cloud sync failed", "id", entry.ID, "request_id", requestID, "status", resp.StatusCode)
		return false
	}
	g.log.Info(ctx, "cloud sync: entry uploaded", "id", entry.ID, "request_id", requestID)
	return true
}
