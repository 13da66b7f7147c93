// Package push contains the public domain models for composing and sending
// push notifications through the Expo, APNs, and FCM provider APIs.
package push

import "fmt"

// Provider identifies one of the supported push backends.
type Provider string

const (
	ProviderExpo Provider = "expo"
	ProviderAPNs Provider = "apns"
	ProviderFCM  Provider = "fcm"
)

// Priority is the provider-agnostic delivery priority.
type Priority string

const (
	PriorityDefault Priority = "default"
	PriorityNormal  Priority = "normal"
	PriorityHigh    Priority = "high"
)

// InterruptionLevel mirrors the Apple interruption levels, which Expo also
// accepts verbatim.
type InterruptionLevel string

const (
	InterruptionActive        InterruptionLevel = "active"
	InterruptionCritical      InterruptionLevel = "critical"
	InterruptionPassive       InterruptionLevel = "passive"
	InterruptionTimeSensitive InterruptionLevel = "time-sensitive"
)

// NotificationRequest is the unified, provider-agnostic notification intent.
// Payload builders map it onto each provider's wire schema; fields a provider
// has no concept of are dropped silently.
type NotificationRequest struct {
	Title    string
	Subtitle string
	Body     string
	Sound    string
	Badge    *int

	Category  string
	ThreadID  string
	ChannelID string

	Priority          Priority
	InterruptionLevel InterruptionLevel

	// Data is merged at the payload top level for native APNs pushes and
	// under the "data" object for Expo and FCM.
	Data map[string]string

	// ImageURL triggers the rich-content convention: for APNs it is injected
	// as body._richContent.image with mutable-content forced on.
	ImageURL string

	// Color tints the Android notification (FCM only).
	Color string

	MutableContent   bool
	ContentAvailable bool

	// TTL in seconds; Expiration as a Unix timestamp. Zero means unset.
	TTL        int
	Expiration int
}

// IsAlert reports whether the request carries user-visible alert content.
// Requests without it are sent as background/data-only pushes.
func (r *NotificationRequest) IsAlert() bool {
	return r.Title != "" || r.Body != ""
}

// Validate enforces the alert invariant: an alert-type push needs at least
// one of title/body. Background pushes (content-available or data-only) are
// exempt.
func (r *NotificationRequest) Validate() error {
	if !r.IsAlert() && !r.ContentAvailable && len(r.Data) == 0 {
		return NewInvalidConfiguration("notification requires a title or body, or must be a background/data push")
	}
	return nil
}

// LiveActivityEvent is the lifecycle phase a Live Activity push addresses.
type LiveActivityEvent string

const (
	LiveActivityStart  LiveActivityEvent = "start"
	LiveActivityUpdate LiveActivityEvent = "update"
	LiveActivityEnd    LiveActivityEvent = "end"
)

// LiveActivityAlert is the optional alert shown when a Live Activity starts.
type LiveActivityAlert struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Sound string `json:"sound,omitempty"`
}

// LiveActivityRequest describes an APNs Live Activity push. ContentState and
// Attributes are free-form because their shape belongs to the receiving app.
type LiveActivityRequest struct {
	Event        LiveActivityEvent
	ContentState map[string]any

	// AttributesType and Attributes are only meaningful for start events.
	AttributesType string
	Attributes     map[string]any

	// Alert is only sent for start events.
	Alert *LiveActivityAlert

	// Timestamp in Unix seconds; must be close to "now" or iOS drops the push.
	Timestamp int64

	// DismissalDate is only sent for end events.
	DismissalDate int64

	StaleDate      int64
	RelevanceScore *float64
}

// Validate enforces the per-event field invariants before building a payload.
func (r *LiveActivityRequest) Validate() error {
	switch r.Event {
	case LiveActivityStart:
		if r.AttributesType == "" || r.Attributes == nil {
			return NewInvalidConfiguration("live activity start requires attributes and attributes-type")
		}
	case LiveActivityUpdate, LiveActivityEnd:
	default:
		return NewInvalidConfiguration(fmt.Sprintf("unknown live activity event %q", r.Event))
	}
	if len(r.ContentState) == 0 {
		return NewInvalidConfiguration("live activity push requires a content state")
	}
	return nil
}
