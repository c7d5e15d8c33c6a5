// Package deviceauth implements the OAuth2 device authorization grant
// (RFC 8628) used by `solaris auth login`.
package deviceauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/solaris-diary/solaris/internal/logging"
)

const (
	grantTypeDeviceCode = "urn:ietf:params:oauth:grant-type:device_code"

	// DefaultInterval is used when the server does not send one.
	DefaultInterval = 5 * time.Second
	// SlowDownIncrement is added to the polling interval on every slow_down.
	SlowDownIncrement = 5 * time.Second
)

// Token endpoint error codes with a defined meaning in the device flow.
const (
	errAuthorizationPending = "authorization_pending"
	errSlowDown             = "slow_down"
	errExpiredToken         = "expired_token"
	errAccessDenied         = "access_denied"
)

// Config holds the authorization server endpoints.
type Config struct {
	DeviceCodeURL string
	TokenURL      string
	ClientID      string
}

// TokenSaver persists the granted token.
type TokenSaver interface {
	Save(token string, createdAt time.Time) error
}

// Opener shows a URI to the user, typically in a browser. Implementations
// must not block for long and never report failure to the caller.
type Opener interface {
	Open(ctx context.Context, uri string)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client drives one device-code login at a time.
type Client struct {
	cfg        Config
	saver      TokenSaver
	httpClient *http.Client
	sleep      SleepFunc
	now        func() time.Time
	opener     Opener
	out        io.Writer
	log        logging.Logger
	observe    func(from, to State)

	mu    sync.Mutex
	state State
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithSleep replaces the wait between polls; tests use it to skip real delays.
func WithSleep(fn SleepFunc) Option { return func(c *Client) { c.sleep = fn } }

func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

func WithOpener(o Opener) Option { return func(c *Client) { c.opener = o } }

// WithOutput sets where the verification URI and user code are printed.
func WithOutput(w io.Writer) Option { return func(c *Client) { c.out = w } }

func WithLogger(l logging.Logger) Option { return func(c *Client) { c.log = l } }

// WithObserver registers fn to be called on every state transition.
func WithObserver(fn func(from, to State)) Option { return func(c *Client) { c.observe = fn } }

// New returns a Client in StateIdle.
func New(cfg Config, saver TokenSaver, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		saver:      saver,
		httpClient: http.DefaultClient,
		sleep:      sleepContext,
		now:        time.Now,
		opener:     nopOpener{},
		out:        io.Discard,
		log:        logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "deviceauth")
	return c
}

// State returns the current state of the most recent login attempt.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) transition(ctx context.Context, to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()

	c.log.Debug(ctx, "deviceauth: state change", "from", from, "to", to)
	if c.observe != nil {
		c.observe(from, to)
	}
}

// begin moves an idle or finished client into StateRequestingCode.
func (c *Client) begin(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle && !c.state.Terminal() {
		c.mu.Unlock()
		return ErrLoginInProgress
	}
	c.mu.Unlock()
	c.transition(ctx, StateRequestingCode)
	return nil
}

// Login runs the full device flow: request a code, present it, poll until
// the server grants or refuses a token, and save the token on success.
// Nothing is retried; every terminal failure is returned to the caller.
func (c *Client) Login(ctx context.Context) (*oauth2.Token, error) {
	if err := c.begin(ctx); err != nil {
		return nil, err
	}

	session, err := c.requestDeviceCode(ctx)
	if err != nil {
		c.transition(ctx, StateFailed)
		return nil, err
	}

	c.transition(ctx, StateAwaitingUserAction)
	c.present(ctx, session)

	c.transition(ctx, StatePolling)
	tok, err := c.pollForToken(ctx, session)
	if err != nil {
		c.transition(ctx, terminalState(err))
		return nil, err
	}

	if err := c.saver.Save(tok.AccessToken, c.now()); err != nil {
		c.transition(ctx, StateFailed)
		return nil, fmt.Errorf("saving credential: %w", err)
	}
	c.transition(ctx, StateSucceeded)
	c.log.Info(ctx, "deviceauth: login succeeded")
	return tok, nil
}

// deviceCodeResp is the raw JSON response from the device authorization endpoint.
type deviceCodeResp struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete"`
	ExpiresIn               int64  `json:"expires_in"`
	Interval                int64  `json:"interval"`
}

// tokenResp is the raw JSON response from the token endpoint, success or not.
type tokenResp struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// requestDeviceCode starts the flow and returns the session the user has to
// complete. Expiry is computed against the client's clock.
func (c *Client) requestDeviceCode(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	resp, err := c.postJSON(ctx, c.cfg.DeviceCodeURL, map[string]string{"client_id": c.cfg.ClientID})
	if err != nil {
		return nil, &NetworkError{Op: "device code request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DeviceCodeRequestError{StatusCode: resp.StatusCode}
	}

	var dc deviceCodeResp
	if err := json.NewDecoder(resp.Body).Decode(&dc); err != nil {
		return nil, &DeviceCodeRequestError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding device code response: %w", err)}
	}
	if dc.DeviceCode == "" || dc.UserCode == "" || dc.VerificationURI == "" {
		return nil, &DeviceCodeRequestError{StatusCode: resp.StatusCode, Err: fmt.Errorf("incomplete device code response")}
	}

	session := &oauth2.DeviceAuthResponse{
		DeviceCode:              dc.DeviceCode,
		UserCode:                dc.UserCode,
		VerificationURI:         dc.VerificationURI,
		VerificationURIComplete: dc.VerificationURIComplete,
		Interval:                dc.Interval,
	}
	if dc.ExpiresIn > 0 {
		session.Expiry = c.now().Add(time.Duration(dc.ExpiresIn) * time.Second)
	}
	return session, nil
}

// present prints the code for the user and tries to open the verification page.
func (c *Client) present(ctx context.Context, session *oauth2.DeviceAuthResponse) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "To authenticate, visit:")
	fmt.Fprintf(c.out, "  %s\n", session.VerificationURI)
	fmt.Fprintf(c.out, "\nEnter code: %s\n\n", session.UserCode)

	uri := session.VerificationURI
	if session.VerificationURIComplete != "" {
		uri = session.VerificationURIComplete
	}
	c.opener.Open(ctx, uri)

	fmt.Fprintln(c.out, "Waiting for authentication...")
}

// pollForToken sleeps for the current interval, then asks the token endpoint
// once, until it answers with a token or a terminal error. The server bounds
// the session through expired_token; when it also sent expires_in, the client
// stops on its own once that deadline has passed.
func (c *Client) pollForToken(ctx context.Context, session *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	interval := time.Duration(session.Interval) * time.Second
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		if err := c.sleep(ctx, interval); err != nil {
			return nil, err
		}
		if !session.Expiry.IsZero() && !c.now().Before(session.Expiry) {
			return nil, ErrDeviceCodeExpired
		}

		tok, tr, status, err := c.requestToken(ctx, session.DeviceCode)
		if err != nil {
			return nil, err
		}
		if tok != nil {
			return tok, nil
		}

		switch tr.Error {
		case errAuthorizationPending:
			continue
		case errSlowDown:
			interval += SlowDownIncrement
			c.log.Debug(ctx, "deviceauth: server asked to slow down", "interval", interval)
			continue
		case errExpiredToken:
			return nil, ErrDeviceCodeExpired
		case errAccessDenied:
			return nil, ErrAuthorizationDenied
		default:
			return nil, &AuthenticationError{Code: tr.Error, Description: tr.ErrorDescription, StatusCode: status}
		}
	}
}

// requestToken performs one poll. It returns a token on success, otherwise
// the decoded error response and HTTP status.
func (c *Client) requestToken(ctx context.Context, deviceCode string) (*oauth2.Token, tokenResp, int, error) {
	resp, err := c.postJSON(ctx, c.cfg.TokenURL, map[string]string{
		"grant_type":  grantTypeDeviceCode,
		"device_code": deviceCode,
		"client_id":   c.cfg.ClientID,
	})
	if err != nil {
		return nil, tokenResp{}, 0, &NetworkError{Op: "token request", Err: err}
	}
	defer resp.Body.Close()

	var tr tokenResp
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, tokenResp{}, resp.StatusCode, &AuthenticationError{
			Description: fmt.Sprintf("decoding token response: %v", err),
			StatusCode:  resp.StatusCode,
		}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if !ok || tr.Error != "" {
		return nil, tr, resp.StatusCode, nil
	}
	if tr.AccessToken == "" {
		return nil, tr, resp.StatusCode, &AuthenticationError{
			Description: "token response has no access_token",
			StatusCode:  resp.StatusCode,
		}
	}

	tok := &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
	}
	if tr.ExpiresIn > 0 {
		tok.Expiry = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, tr, resp.StatusCode, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopOpener struct{}

func (nopOpener) Open(context.Context, string) {}
