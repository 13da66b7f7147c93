// Package fcm is the client for the FCM v1 messages:send endpoint,
// authenticated with OAuth bearer tokens obtained through the signed
// JWT-assertion exchange.
package fcm

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/internal/signing"
	"github.com/betomoedano/quick-push/internal/token"
	"github.com/betomoedano/quick-push/pkg/push"
)

// DefaultBaseURL is the FCM v1 API host.
const DefaultBaseURL = "https://fcm.googleapis.com"

// Config holds the credential and test overrides.
type Config struct {
	Credential push.FCMCredential
	// BaseURL overrides the FCM host (tests).
	BaseURL string
	// OAuthURL overrides the token-exchange endpoint (tests).
	OAuthURL string
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client sends messages for one Firebase project.
type Client struct {
	cred       push.FCMCredential
	key        *rsa.PrivateKey
	baseURL    string
	oauthURL   string
	httpClient *http.Client
	tokens     *token.Cache
	logger     *slog.Logger
}

// NewClient validates the credential and extracts the service account's RSA
// key immediately so bad key material fails before any send.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if !cfg.Credential.Valid() {
		return nil, push.NewInvalidConfiguration("FCM configuration is incomplete: project ID, client email and service account JSON are all required")
	}
	sa, err := signing.ParseServiceAccount(cfg.Credential.ServiceAccount)
	if err != nil {
		return nil, err
	}
	key, err := signing.ParseRSAPrivateKey([]byte(sa.PrivateKey))
	if err != nil {
		return nil, err
	}

	c := &Client{
		cred:       cfg.Credential,
		key:        key,
		baseURL:    cfg.BaseURL,
		oauthURL:   cfg.OAuthURL,
		httpClient: cfg.HTTPClient,
		logger:     logger.With("component", "FCMClient"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.oauthURL == "" {
		c.oauthURL = signing.OAuthTokenURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.tokens = token.NewCache("fcm", token.FCMSoftTTL, c.exchange, logger)
	return c, nil
}

// Bearer returns a valid OAuth access token, refreshing through the
// sign-and-exchange flow when the cached one has expired.
func (c *Client) Bearer(ctx context.Context) (string, error) {
	return c.tokens.Bearer(ctx)
}

// InvalidateToken drops the cached access token.
func (c *Client) InvalidateToken() {
	c.tokens.Invalidate()
}

type oauthResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// exchange signs a fresh assertion and trades it for a bearer token at the
// OAuth endpoint.
func (c *Client) exchange(ctx context.Context) (string, error) {
	assertion, err := signing.SignFCMAssertion(c.cred.ClientEmail, c.key, time.Now())
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", push.NewNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", push.NewNetworkError(err)
	}
	defer resp.Body.Close()

	var decoded oauthResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", push.NewDecodingError(err)
	}
	if decoded.AccessToken == "" {
		desc := decoded.ErrorDescription
		if desc == "" {
			desc = decoded.Error
		}
		if desc == "" {
			desc = "unknown OAuth error"
		}
		pr := &push.ProviderResponse{
			Provider:     push.ProviderFCM,
			StatusCode:   resp.StatusCode,
			ErrorCode:    decoded.Error,
			ErrorMessage: fmt.Sprintf("OAuth token exchange failed: %s", desc),
			ProjectID:    c.cred.ProjectID,
			Timestamp:    time.Now().Unix(),
		}
		return "", push.NewProviderRejected(pr)
	}
	c.logger.Debug("oauth token exchanged")
	return decoded.AccessToken, nil
}

type sendResponse struct {
	Name  string         `json:"name"`
	Error *responseError `json:"error"`
}

type responseError struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []errorDetail `json:"details"`
}

type errorDetail struct {
	ErrorCode string `json:"errorCode"`
}

// errorCode prefers the google.rpc status, falling back to the first
// FCM-specific errorCode in the details list.
func (e *responseError) errorCode() string {
	if e.Status != "" {
		return e.Status
	}
	for _, d := range e.Details {
		if d.ErrorCode != "" {
			return d.ErrorCode
		}
	}
	return ""
}

// Send posts one message to the project's messages:send endpoint.
func (c *Client) Send(ctx context.Context, msg payload.FCMMessage) (*push.ProviderResponse, error) {
	bearer, err := c.tokens.Bearer(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload.FCMRequestBody{Message: msg})
	if err != nil {
		return nil, push.NewDecodingError(err)
	}
	sendURL := fmt.Sprintf("%s/v1/projects/%s/messages:send", c.baseURL, c.cred.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return nil, push.NewNetworkError(err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, push.NewNetworkError(err)
	}
	defer resp.Body.Close()

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, push.NewDecodingError(err)
	}

	pr := &push.ProviderResponse{
		Provider:   push.ProviderFCM,
		StatusCode: resp.StatusCode,
		Recipient:  msg.Token,
		MessageID:  decoded.Name,
		ProjectID:  c.cred.ProjectID,
		Timestamp:  time.Now().Unix(),
	}

	if resp.StatusCode == http.StatusOK {
		pr.Success = true
		c.logger.Debug("fcm accepted", "name", decoded.Name)
		return pr, nil
	}
	if decoded.Error != nil {
		pr.ErrorCode = decoded.Error.errorCode()
		pr.ErrorMessage = decoded.Error.Message
	}
	c.logger.Warn("fcm rejected", "status", resp.StatusCode, "code", pr.ErrorCode)
	return pr, push.NewProviderRejected(pr)
}
