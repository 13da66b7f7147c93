package push

import "fmt"

// Kind is the closed error taxonomy. Every failure surfaced by this module
// belongs to exactly one kind so callers can branch without string matching.
type Kind string

const (
	// KindInvalidConfiguration means required credential fields are missing;
	// caught before any network call.
	KindInvalidConfiguration Kind = "invalid_configuration"
	// KindInvalidKeyMaterial means the key failed to parse or sign.
	KindInvalidKeyMaterial Kind = "invalid_key_material"
	// KindNetwork is a transport-level failure (DNS, connection, timeout).
	KindNetwork Kind = "network"
	// KindProviderRejected is a non-200 response or a structured error body.
	KindProviderRejected Kind = "provider_rejected"
	// KindDecoding means the response body did not match the expected schema.
	KindDecoding Kind = "decoding"
	// KindInsufficientPermissions is the Expo UNAUTHORIZED remap: the caller
	// needs to supply an access token, this is not a generic rejection.
	KindInsufficientPermissions Kind = "insufficient_permissions"
)

// Error is the typed failure returned across the dispatch boundary. It always
// carries a human-readable message; provider rejections additionally carry
// the full diagnostic response and an optional remediation hint.
type Error struct {
	Kind     Kind
	Message  string
	Hint     string
	Response *ProviderResponse
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on kind so errors.Is(err, &Error{Kind: ...}) works for callers
// that only care about the category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func NewInvalidConfiguration(msg string) *Error {
	return &Error{Kind: KindInvalidConfiguration, Message: msg}
}

func NewInvalidKeyMaterial(msg string, cause error) *Error {
	return &Error{Kind: KindInvalidKeyMaterial, Message: msg, cause: cause}
}

func NewNetworkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: "network error", cause: cause}
}

func NewDecodingError(cause error) *Error {
	return &Error{Kind: KindDecoding, Message: "failed to decode provider response", cause: cause}
}

func NewInsufficientPermissions() *Error {
	return &Error{
		Kind: KindInsufficientPermissions,
		Message: "insufficient permissions: push security may be enabled for this app, " +
			"supply a valid access token",
	}
}

// NewProviderRejected builds the rejection error for a failed response,
// attaching the classifier's remediation hint when one exists.
func NewProviderRejected(resp *ProviderResponse) *Error {
	return &Error{
		Kind:     KindProviderRejected,
		Message:  fmt.Sprintf("%s error: %s", resp.Provider, resp.Summary()),
		Hint:     Classify(resp.Provider, resp.StatusCode, resp.ErrorCode),
		Response: resp,
	}
}
