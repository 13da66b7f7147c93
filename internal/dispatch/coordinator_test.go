package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betomoedano/quick-push/pkg/push"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendToManyAggregatesAllOutcomes(t *testing.T) {
	recipients := []string{"r1", "r2", "r3", "r4", "r5"}
	failing := map[string]bool{"r2": true, "r4": true}

	c := NewCoordinator(testLogger())
	agg := c.SendToMany(context.Background(), recipients,
		func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
			if recipient == "r5" {
				// The slowest recipient still resolves; failures never abort siblings.
				time.Sleep(50 * time.Millisecond)
			}
			if failing[recipient] {
				pr := &push.ProviderResponse{
					Provider:   push.ProviderAPNs,
					StatusCode: 400,
					Recipient:  recipient,
					ErrorCode:  "BadDeviceToken",
				}
				return pr, push.NewProviderRejected(pr)
			}
			return &push.ProviderResponse{Provider: push.ProviderAPNs, Success: true, Recipient: recipient}, nil
		})

	assert.Len(t, agg.Successes, 3)
	assert.Len(t, agg.Failures, 2)
	assert.False(t, agg.OK())
	require.NotNil(t, agg.FirstError)

	slowDelivered := false
	for _, resp := range agg.Successes {
		if resp.Recipient == "r5" {
			slowDelivered = true
		}
	}
	assert.True(t, slowDelivered, "the delayed recipient must still be attempted")
}

func TestSendToManyFirstErrorIsCompletionOrder(t *testing.T) {
	c := NewCoordinator(testLogger())
	agg := c.SendToMany(context.Background(), []string{"fast-fail", "slow-fail"},
		func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
			if recipient == "slow-fail" {
				time.Sleep(50 * time.Millisecond)
			}
			pr := &push.ProviderResponse{Provider: push.ProviderFCM, StatusCode: 404, Recipient: recipient}
			return pr, push.NewProviderRejected(pr)
		})

	require.Len(t, agg.Failures, 2)
	require.NotNil(t, agg.FirstError)
	assert.Equal(t, "fast-fail", agg.FirstError.Response.Recipient,
		"the headline error belongs to the first failure to complete")
}

func TestSendToManyWrapsUntypedErrors(t *testing.T) {
	c := NewCoordinator(testLogger())
	agg := c.SendToMany(context.Background(), []string{"r1"},
		func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
			return nil, errors.New("connection reset")
		})

	require.Len(t, agg.Failures, 1)
	assert.Equal(t, push.KindNetwork, agg.Failures[0].Kind)
}

func TestSendToManyBackfillsRecipient(t *testing.T) {
	c := NewCoordinator(testLogger())
	agg := c.SendToMany(context.Background(), []string{"r1"},
		func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
			pr := &push.ProviderResponse{Provider: push.ProviderAPNs, StatusCode: 500}
			return pr, push.NewProviderRejected(pr)
		})

	require.Len(t, agg.Failures, 1)
	assert.Equal(t, "r1", agg.Failures[0].Response.Recipient)
}

func TestSendToManySharedErrorKeepsPerRecipientTokens(t *testing.T) {
	// One deduplicated failure (an OAuth exchange, say) surfaces for every
	// recipient as the same error value.
	shared := push.NewProviderRejected(&push.ProviderResponse{
		Provider:     push.ProviderFCM,
		StatusCode:   400,
		ErrorCode:    "invalid_grant",
		ErrorMessage: "OAuth token exchange failed",
	})

	c := NewCoordinator(testLogger())
	agg := c.SendToMany(context.Background(), []string{"r1", "r2", "r3"},
		func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
			return nil, shared
		})

	require.Len(t, agg.Failures, 3)
	got := map[string]bool{}
	for _, failure := range agg.Failures {
		require.NotNil(t, failure.Response)
		got[failure.Response.Recipient] = true
		assert.Equal(t, "invalid_grant", failure.Response.ErrorCode)
	}
	assert.Equal(t, map[string]bool{"r1": true, "r2": true, "r3": true}, got)
	assert.Empty(t, shared.Response.Recipient, "the shared error itself is never mutated")
}

func TestSendToManyEmptyRecipients(t *testing.T) {
	var calls atomic.Int32
	c := NewCoordinator(testLogger())
	agg := c.SendToMany(context.Background(), nil,
		func(ctx context.Context, recipient string) (*push.ProviderResponse, error) {
			calls.Add(1)
			return nil, nil
		})

	assert.True(t, agg.OK())
	assert.Nil(t, agg.AsError())
	assert.Equal(t, int32(0), calls.Load())
}
