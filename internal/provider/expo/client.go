// Package expo is the client for the Expo Push API. Unlike APNs and FCM,
// Expo accepts the whole recipient batch in one call and answers with one
// ticket per recipient, so the fan-out happens server-side.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/pkg/push"
)

// DefaultBaseURL is the Expo push host.
const DefaultBaseURL = "https://exp.host"

const (
	sendPath     = "/--/api/v2/push/send"
	receiptsPath = "/--/api/v2/push/getReceipts"
)

// Config holds the optional access token and test overrides.
type Config struct {
	AccessToken string
	// BaseURL overrides the Expo host, used by tests.
	BaseURL string
	// HTTPClient overrides the default client, used by tests.
	HTTPClient *http.Client
}

// Client issues requests against the Expo push endpoints.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	c := &Client{
		accessToken: cfg.AccessToken,
		baseURL:     cfg.BaseURL,
		httpClient:  cfg.HTTPClient,
		logger:      logger.With("component", "ExpoClient"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

// Ticket is one per-recipient entry of the response's data array.
type Ticket struct {
	Status  string            `json:"status"`
	ID      string            `json:"id,omitempty"`      // present when status == "ok"
	Message string            `json:"message,omitempty"` // present when status == "error"
	Details map[string]string `json:"details,omitempty"`
}

// APIError is a top-level error in the response body.
type APIError struct {
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	Type        string         `json:"type,omitempty"`
	IsTransient *bool          `json:"isTransient,omitempty"`
	Metadata    *ErrorMetadata `json:"metadata,omitempty"`
	RequestID   string         `json:"requestId,omitempty"`
}

type ErrorMetadata struct {
	AppID        string `json:"appId,omitempty"`
	ExperienceID string `json:"experienceId,omitempty"`
}

// Response is the decoded Expo push response.
type Response struct {
	Data   []Ticket   `json:"data"`
	Errors []APIError `json:"errors,omitempty"`
}

// Send posts the notification batch. An UNAUTHORIZED top-level error is
// remapped to the distinguished insufficient-permissions condition so the
// caller knows to supply an access token.
func (c *Client) Send(ctx context.Context, p payload.ExpoPush) (*Response, int, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, 0, push.NewDecodingError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return nil, 0, push.NewNetworkError(err)
	}
	// The Host header comes from req.Host, not the header map.
	req.Host = "exp.host"
	req.Header.Set("accept", "application/json")
	req.Header.Set("accept-encoding", "gzip, deflate")
	req.Header.Set("content-type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, push.NewNetworkError(err)
	}
	defer resp.Body.Close()

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, resp.StatusCode, push.NewDecodingError(err)
	}
	for _, apiErr := range decoded.Errors {
		if apiErr.Code == "UNAUTHORIZED" {
			return nil, resp.StatusCode, push.NewInsufficientPermissions()
		}
	}
	c.logger.Debug("expo send complete", "status", resp.StatusCode, "tickets", len(decoded.Data))
	return &decoded, resp.StatusCode, nil
}

// Aggregate pairs the response tickets with the recipients of the request
// (Expo preserves the order of the "to" array) and folds them into the same
// aggregate shape a per-recipient fan-out produces.
func Aggregate(resp *Response, recipients []string, statusCode int) *push.AggregateResult {
	agg := &push.AggregateResult{}
	now := time.Now().Unix()

	for i, ticket := range resp.Data {
		recipient := ""
		if i < len(recipients) {
			recipient = recipients[i]
		}
		pr := &push.ProviderResponse{
			Provider:   push.ProviderExpo,
			StatusCode: statusCode,
			Recipient:  recipient,
			Timestamp:  now,
		}
		if ticket.Status == "ok" {
			pr.Success = true
			pr.MessageID = ticket.ID
			agg.AddSuccess(pr)
			continue
		}
		pr.ErrorCode = ticket.Details["error"]
		pr.ErrorMessage = ticket.Message
		if pr.ErrorCode == "" {
			pr.ErrorCode = ticket.Message
		}
		agg.AddFailure(push.NewProviderRejected(pr))
	}

	// Top-level errors with no tickets mean the whole batch was rejected.
	if len(resp.Data) == 0 {
		for _, apiErr := range resp.Errors {
			pr := &push.ProviderResponse{
				Provider:     push.ProviderExpo,
				StatusCode:   statusCode,
				ErrorCode:    apiErr.Code,
				ErrorMessage: apiErr.Message,
				Timestamp:    now,
			}
			agg.AddFailure(push.NewProviderRejected(pr))
		}
	}
	return agg
}

// Receipt is the delivery outcome Expo reports a few minutes after a send.
type Receipt struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Details *ReceiptDetails `json:"details,omitempty"`
}

type ReceiptDetails struct {
	Error string `json:"error,omitempty"`
}

// ReceiptResponse maps ticket IDs to their receipts.
type ReceiptResponse struct {
	Data   map[string]Receipt `json:"data"`
	Errors []APIError         `json:"errors,omitempty"`
}

// GetReceipts fetches delivery receipts for previously returned ticket IDs.
func (c *Client) GetReceipts(ctx context.Context, ids []string) (*ReceiptResponse, error) {
	body, err := json.Marshal(map[string][]string{"ids": ids})
	if err != nil {
		return nil, push.NewDecodingError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+receiptsPath, bytes.NewReader(body))
	if err != nil {
		return nil, push.NewNetworkError(err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, push.NewNetworkError(err)
	}
	defer resp.Body.Close()

	var decoded ReceiptResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, push.NewDecodingError(err)
	}
	return &decoded, nil
}
