package expo

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/pkg/push"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendMixedOutcomes(t *testing.T) {
	var gotBody payload.ExpoPush
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/--/api/v2/push/send", r.URL.Path)
		require.Equal(t, "exp.host", r.Host)
		require.Equal(t, "application/json", r.Header.Get("content-type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"status": "ok", "id": "ticket-A"},
			{"status": "error", "message": "device is gone", "details": {"error": "DeviceNotRegistered"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, testLogger())
	recipients := []string{"ExponentPushToken[tok1]", "ExponentPushToken[tok2]"}
	req := &push.NotificationRequest{Title: "Hi", Body: "There"}

	resp, statusCode, err := client.Send(context.Background(), payload.BuildExpo(req, recipients))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, recipients, gotBody.To)

	agg := Aggregate(resp, recipients, statusCode)
	require.Len(t, agg.Successes, 1)
	require.Len(t, agg.Failures, 1)
	assert.False(t, agg.OK())

	ok := agg.Successes[0]
	assert.Equal(t, "ticket-A", ok.MessageID)
	assert.Equal(t, "ExponentPushToken[tok1]", ok.Recipient)

	failure := agg.Failures[0]
	assert.Equal(t, push.KindProviderRejected, failure.Kind)
	require.NotNil(t, failure.Response)
	assert.Equal(t, "DeviceNotRegistered", failure.Response.ErrorCode)
	assert.Equal(t, "ExponentPushToken[tok2]", failure.Response.Recipient)
	assert.Contains(t, failure.Hint, "no longer valid")
	assert.Same(t, failure, agg.FirstError)
}

func TestSendUnauthorizedRemap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors": [{"code": "UNAUTHORIZED", "message": "access token required"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, testLogger())
	req := &push.NotificationRequest{Title: "Hi"}
	_, _, err := client.Send(context.Background(), payload.BuildExpo(req, []string{"ExponentPushToken[x]"}))

	var pe *push.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, push.KindInsufficientPermissions, pe.Kind)
}

func TestSendSetsAccessTokenHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data": [{"status": "ok", "id": "t"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{AccessToken: "secret", BaseURL: server.URL}, testLogger())
	req := &push.NotificationRequest{Title: "Hi"}
	_, _, err := client.Send(context.Background(), payload.BuildExpo(req, []string{"ExponentPushToken[x]"}))
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestAggregateTopLevelErrors(t *testing.T) {
	resp := &Response{Errors: []APIError{{Code: "PUSH_TOO_MANY_EXPERIENCE_IDS", Message: "mixed projects"}}}
	agg := Aggregate(resp, []string{"ExponentPushToken[x]"}, http.StatusBadRequest)
	require.Len(t, agg.Failures, 1)
	assert.Equal(t, "PUSH_TOO_MANY_EXPERIENCE_IDS", agg.Failures[0].Response.ErrorCode)
}

func TestGetReceipts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/--/api/v2/push/getReceipts", r.URL.Path)
		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"ticket-A", "ticket-B"}, body["ids"])

		_, _ = w.Write([]byte(`{"data": {
			"ticket-A": {"status": "ok"},
			"ticket-B": {"status": "error", "message": "gone", "details": {"error": "DeviceNotRegistered"}}
		}}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, testLogger())
	resp, err := client.GetReceipts(context.Background(), []string{"ticket-A", "ticket-B"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "ok", resp.Data["ticket-A"].Status)
	require.NotNil(t, resp.Data["ticket-B"].Details)
	assert.Equal(t, "DeviceNotRegistered", resp.Data["ticket-B"].Details.Error)
}
