// Package apns is the raw HTTP/2 client for the Apple Push Notification
// service, authenticated with cached ES256 provider tokens.
package apns

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http2"

	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/internal/signing"
	"github.com/betomoedano/quick-push/internal/token"
	"github.com/betomoedano/quick-push/pkg/push"
)

// Config holds the credential and test overrides.
type Config struct {
	Credential push.APNsCredential
	// BaseURL overrides the APNs host (tests); default is derived from the
	// credential's environment.
	BaseURL string
	// HTTPClient overrides the default HTTP/2 client (tests).
	HTTPClient *http.Client
}

// SendOptions are the per-send header knobs.
type SendOptions struct {
	PushType payload.APNsPushType
	// Priority is the apns-priority header; 0 means the default of 10.
	Priority int
}

// Client sends native and Live Activity pushes to one APNs environment.
type Client struct {
	cred       push.APNsCredential
	baseURL    string
	httpClient *http.Client
	tokens     *token.Cache
	logger     *slog.Logger
}

// NewClient validates the credential and parses the .p8 key immediately so
// bad configuration fails before any send is attempted.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if !cfg.Credential.Valid() {
		return nil, push.NewInvalidConfiguration("APNs configuration is incomplete: team ID, key ID, bundle ID and .p8 key are all required")
	}
	key, err := signing.ParseP8Key(cfg.Credential.P8Key)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cred:       cfg.Credential,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		logger:     logger.With("component", "APNsClient"),
	}
	if c.baseURL == "" {
		c.baseURL = "https://" + cfg.Credential.Environment.Hostname()
	}
	if c.httpClient == nil {
		// APNs requires HTTP/2.
		c.httpClient = &http.Client{Transport: &http2.Transport{}}
	}
	cred := cfg.Credential
	c.tokens = token.NewCache("apns", token.APNsSoftTTL, func(ctx context.Context) (string, error) {
		return signing.SignAPNsToken(cred.TeamID, cred.KeyID, key, time.Now())
	}, logger)
	return c, nil
}

// Bearer returns a valid provider token, refreshing the cached one if it
// has passed its soft lifetime. Exposed for curl command rendering.
func (c *Client) Bearer(ctx context.Context) (string, error) {
	return c.tokens.Bearer(ctx)
}

// InvalidateToken drops the cached provider token.
func (c *Client) InvalidateToken() {
	c.tokens.Invalidate()
}

// Topic returns the apns-topic for the given push type.
func (c *Client) Topic(pushType payload.APNsPushType) string {
	return c.cred.Topic(pushType == payload.APNsPushLiveActivity)
}

type rejectionBody struct {
	Reason string `json:"reason"`
}

// Send posts one payload to one device token. 200 means accepted; any other
// status carries a {"reason": ...} body which is surfaced verbatim alongside
// the classified remediation hint.
func (c *Client) Send(ctx context.Context, body map[string]any, deviceToken string, opts SendOptions) (*push.ProviderResponse, error) {
	bearer, err := c.tokens.Bearer(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, push.NewDecodingError(err)
	}

	cleanToken := strings.TrimSpace(deviceToken)
	url := c.baseURL + "/3/device/" + cleanToken
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, push.NewNetworkError(err)
	}

	priority := opts.Priority
	if priority == 0 {
		priority = 10
	}
	topic := c.Topic(opts.PushType)
	req.Header.Set("authorization", "bearer "+bearer)
	req.Header.Set("apns-topic", topic)
	req.Header.Set("apns-push-type", string(opts.PushType))
	req.Header.Set("apns-priority", strconv.Itoa(priority))
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, push.NewNetworkError(err)
	}
	defer resp.Body.Close()

	pr := &push.ProviderResponse{
		Provider:     push.ProviderAPNs,
		StatusCode:   resp.StatusCode,
		Recipient:    cleanToken,
		APNsID:       resp.Header.Get("apns-id"),
		APNsUniqueID: resp.Header.Get("apns-unique-id"),
		Topic:        topic,
		Environment:  c.cred.Environment,
		Event:        string(opts.PushType),
		Timestamp:    time.Now().Unix(),
	}

	if resp.StatusCode == http.StatusOK {
		pr.Success = true
		c.logger.Debug("apns accepted", "apns-id", pr.APNsID, "topic", topic)
		return pr, nil
	}

	// Failure bodies are tiny; read fully so the connection can be reused.
	raw, _ := io.ReadAll(resp.Body)
	var rejection rejectionBody
	_ = json.Unmarshal(raw, &rejection)
	pr.ErrorCode = rejection.Reason
	c.logger.Warn("apns rejected", "status", resp.StatusCode, "reason", rejection.Reason)
	return pr, push.NewProviderRejected(pr)
}
