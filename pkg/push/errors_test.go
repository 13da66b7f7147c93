package push

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrorIsMatchesOnKind(t *testing.T) {
	wrapped := fmt.Errorf("sending: %w", NewInsufficientPermissions())
	assert.ErrorIs(t, wrapped, &Error{Kind: KindInsufficientPermissions})
	assert.NotErrorIs(t, wrapped, &Error{Kind: KindNetwork})
}

func TestNewProviderRejectedAttachesHint(t *testing.T) {
	pr := &ProviderResponse{
		Provider:   ProviderAPNs,
		StatusCode: 410,
		ErrorCode:  "Unregistered",
	}
	err := NewProviderRejected(pr)
	assert.Equal(t, KindProviderRejected, err.Kind)
	assert.Same(t, pr, err.Response)
	assert.Contains(t, err.Hint, "no longer valid")
	assert.Contains(t, err.Error(), "410: Unregistered")
}

func TestClassify(t *testing.T) {
	t.Run("distinct hints per reason", func(t *testing.T) {
		badToken := Classify(ProviderAPNs, 400, "BadDeviceToken")
		unregistered := Classify(ProviderAPNs, 410, "Unregistered")
		require.NotEmpty(t, badToken)
		require.NotEmpty(t, unregistered)
		assert.NotEqual(t, badToken, unregistered)
		assert.Contains(t, badToken, "sandbox vs production")
	})

	t.Run("fcm codes resolve from both status and errorCode vocabularies", func(t *testing.T) {
		assert.Contains(t, Classify(ProviderFCM, 404, "NOT_FOUND"), "no longer valid")
		assert.Contains(t, Classify(ProviderFCM, 404, "UNREGISTERED"), "no longer valid")
		assert.Contains(t, Classify(ProviderFCM, 403, "SENDER_ID_MISMATCH"), "different sender")
	})

	t.Run("expo", func(t *testing.T) {
		assert.Contains(t, Classify(ProviderExpo, 200, "DeviceNotRegistered"), "uninstalled")
		assert.Contains(t, Classify(ProviderExpo, 200, "MessageTooBig"), "4 KiB")
	})

	t.Run("unknown codes yield no hint", func(t *testing.T) {
		assert.Empty(t, Classify(ProviderAPNs, 500, "SomethingNew"))
		assert.Empty(t, Classify(ProviderAPNs, 200, ""))
	})
}

func TestAggregateResult(t *testing.T) {
	agg := &AggregateResult{}
	assert.True(t, agg.OK())
	assert.Nil(t, agg.AsError())

	agg.AddSuccess(&ProviderResponse{Provider: ProviderExpo, StatusCode: 200, Success: true})
	first := NewProviderRejected(&ProviderResponse{Provider: ProviderExpo, StatusCode: 200, ErrorCode: "DeviceNotRegistered"})
	second := NewProviderRejected(&ProviderResponse{Provider: ProviderExpo, StatusCode: 200, ErrorCode: "MessageTooBig"})
	agg.AddFailure(first)
	agg.AddFailure(second)

	assert.False(t, agg.OK())
	assert.Same(t, first, agg.FirstError, "the first failure added stays the headline")
	assert.Equal(t, first, agg.AsError())
	assert.Contains(t, agg.Summary(), "2/3 failed")
}

func TestResponseSummary(t *testing.T) {
	ok := &ProviderResponse{Provider: ProviderAPNs, StatusCode: 200, Success: true, Environment: EnvironmentProduction}
	assert.Equal(t, "200 OK (Production)", ok.Summary())

	fcmOK := &ProviderResponse{Provider: ProviderFCM, StatusCode: 200, Success: true}
	assert.Equal(t, "200 OK", fcmOK.Summary())

	rejected := &ProviderResponse{Provider: ProviderFCM, StatusCode: 404, ErrorCode: "NOT_FOUND"}
	assert.Equal(t, "404: NOT_FOUND", rejected.Summary())

	unknown := &ProviderResponse{Provider: ProviderExpo, StatusCode: 500}
	assert.Equal(t, "500: Unknown", unknown.Summary())
}

func TestDiagnosticDetailsTruncatesToken(t *testing.T) {
	long := &ProviderResponse{Recipient: "0123456789abcdef0123456789abcdef"}
	assert.Contains(t, long.DiagnosticDetails(), "0123456789abcdef0123…")
	assert.NotContains(t, long.DiagnosticDetails(), "0123456789abcdef0123456789abcdef")
}
