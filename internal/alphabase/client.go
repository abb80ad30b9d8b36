// Package alphabase is the client for the AlphaBase monitoring backend:
// bearer-token authentication, durable event logging with a bounded
// refresh-then-relogin retry cascade, and stop notifications.
//
// All calls are synchronous and bounded by the HTTP client timeout; the
// control loop accepts blocking for their duration. There is no
// cancellation, so no context plumbing.
package alphabase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atouliatos/press-controller/internal/log"
	"github.com/atouliatos/press-controller/internal/press"
)

// ErrUnauthorized signals that the backend rejected the bearer token
// (HTTP 401). It triggers the refresh-then-relogin cascade.
var ErrUnauthorized = errors.New("alphabase: unauthorized")

// ErrNoCredential signals that no token is held. Calls fail immediately
// without touching the network.
var ErrNoCredential = errors.New("alphabase: no credential held")

// Client talks to the AlphaBase backend. It is not safe for concurrent
// use; the control loop is its single owner, and the token is only ever
// replaced whole by a successful login or refresh.
type Client struct {
	base        string
	username    string
	password    string
	deviceID    string
	pressNumber int
	alertEmail  string
	http        *http.Client
	token       string
	logger      zerolog.Logger
}

// New creates a Client for the backend at base. No login is attempted;
// the client starts without a credential.
func New(base, username, password, deviceID, alertEmail string) *Client {
	return &Client{
		base:        strings.TrimRight(base, "/"),
		username:    username,
		password:    password,
		deviceID:    deviceID,
		pressNumber: 1,
		alertEmail:  alertEmail,
		http:        &http.Client{Timeout: 10 * time.Second},
		logger:      log.WithComponent("alphabase"),
	}
}

// HasCredential reports whether a token is held. Expiry is not tracked;
// a stale token is discovered via 401 on use.
func (c *Client) HasCredential() bool {
	return c.token != ""
}

// Login authenticates with username and password and installs the
// returned token.
func (c *Client) Login() error {
	body, _ := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})

	token, err := c.postForToken(c.base+"/auth/login", body, "")
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.token = token
	c.logger.Info().Msg("login successful")
	return nil
}

// Refresh exchanges the current token for a fresh one. On any failure the
// held token is left unchanged.
func (c *Client) Refresh() error {
	if c.token == "" {
		return ErrNoCredential
	}

	token, err := c.postForToken(c.base+"/auth/refresh", []byte("{}"), c.token)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	c.token = token
	c.logger.Info().Msg("token refreshed")
	return nil
}

// postForToken POSTs a JSON body and extracts access_token from a 200
// response.
func (c *Client) postForToken(url string, body []byte, bearer string) (string, error) {
	resp, err := c.post(url, body, bearer)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var p struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if p.AccessToken == "" {
		return "", errors.New("no access_token in response")
	}
	return p.AccessToken, nil
}

func (c *Client) post(url string, body []byte, bearer string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.http.Do(req)
}

// Event is a discrete press event to be recorded in the backend event log.
type Event struct {
	Type press.EventType

	// Reason is set for REASON_SELECTED events.
	Reason press.Reason

	// Timestamp is the device-local clock in milliseconds since start.
	Timestamp int64

	// Runtime is the completed run duration, valid when HasRuntime is
	// set. Only STOPPED events carry it on the wire.
	Runtime    time.Duration
	HasRuntime bool
}

// recordPayload is the wire format of an event log record.
type recordPayload struct {
	DeviceID       string `json:"device_id"`
	PressNumber    int    `json:"press_number"`
	EventType      string `json:"event_type"`
	Timestamp      int64  `json:"timestamp"`
	DowntimeReason string `json:"downtime_reason,omitempty"`
	RuntimeSeconds *int64 `json:"runtime_seconds,omitempty"`
}

// LogEvent records an event in the backend, recovering from a stale token
// through a bounded cascade: on 401, refresh and retry once; if refresh
// fails, relogin and retry once. Delivery is at most once — when the
// cascade is exhausted the event is dropped and the error returned.
// Without a credential it fails immediately, making no network call.
func (c *Client) LogEvent(ev Event) error {
	if c.token == "" {
		return ErrNoCredential
	}

	err := c.submit(ev)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	c.logger.Warn().Msg("token rejected, attempting refresh")
	rerr := c.Refresh()
	if rerr == nil {
		return c.submit(ev)
	}
	c.logger.Warn().Err(rerr).Msg("refresh failed, attempting fresh login")

	if lerr := c.Login(); lerr != nil {
		c.logger.Error().Err(lerr).Msg("relogin failed, dropping event")
		return err
	}
	return c.submit(ev)
}

// submit makes exactly one attempt to record the event.
func (c *Client) submit(ev Event) error {
	p := recordPayload{
		DeviceID:    c.deviceID,
		PressNumber: c.pressNumber,
		EventType:   string(ev.Type),
		Timestamp:   ev.Timestamp,
	}
	if ev.Reason != "" {
		p.DowntimeReason = string(ev.Reason)
	}
	if ev.Type == press.EventStopped && ev.HasRuntime {
		secs := int64(ev.Runtime / time.Second)
		p.RuntimeSeconds = &secs
	}

	body, _ := json.Marshal(p)
	resp, err := c.post(c.base+"/api/collections/press_events/records", body, c.token)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		c.logger.Info().Str("event", string(ev.Type)).Msg("event logged")
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("log event: status %d", resp.StatusCode)
	}
}
