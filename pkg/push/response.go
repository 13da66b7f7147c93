package push

import (
	"fmt"
	"strings"
)

// ProviderResponse is the full diagnostic record of one provider call (or,
// for Expo, one ticket out of a batched call). It echoes request context so
// it can be inspected long after the send.
type ProviderResponse struct {
	Provider   Provider
	StatusCode int
	Success    bool

	// Recipient is the device/registration token the call addressed.
	Recipient string

	// MessageID is the Expo ticket id or the FCM message name.
	MessageID string

	// ErrorCode is the provider's machine-readable code: APNs reason, FCM
	// error.status (or the first details[].errorCode), Expo error code.
	ErrorCode    string
	ErrorMessage string

	// APNs response headers captured for diagnostics.
	APNsID       string
	APNsUniqueID string

	// Request context echo.
	Topic       string
	Environment Environment
	ProjectID   string
	Event       string
	Timestamp   int64
}

// Summary is the one-line result shown to the user.
func (r *ProviderResponse) Summary() string {
	if r.Success {
		if r.Provider == ProviderAPNs {
			return fmt.Sprintf("200 OK (%s)", capitalize(string(r.Environment)))
		}
		return fmt.Sprintf("%d OK", r.StatusCode)
	}
	code := r.ErrorCode
	if code == "" {
		code = r.ErrorMessage
	}
	if code == "" {
		code = "Unknown"
	}
	if r.Provider == ProviderAPNs {
		return fmt.Sprintf("%d: %s (%s)", r.StatusCode, code, capitalize(string(r.Environment)))
	}
	return fmt.Sprintf("%d: %s", r.StatusCode, code)
}

// DiagnosticDetails is the multi-line block for detailed inspection.
func (r *ProviderResponse) DiagnosticDetails() string {
	var b strings.Builder
	status := "Error"
	if r.Success {
		status = "OK"
	}
	fmt.Fprintf(&b, "Status:      %d %s\n", r.StatusCode, status)
	if r.MessageID != "" {
		fmt.Fprintf(&b, "Message ID:  %s\n", r.MessageID)
	}
	if r.ErrorCode != "" {
		fmt.Fprintf(&b, "Error Code:  %s\n", r.ErrorCode)
	}
	if r.ErrorMessage != "" {
		fmt.Fprintf(&b, "Error Msg:   %s\n", r.ErrorMessage)
	}
	if r.Environment != "" {
		fmt.Fprintf(&b, "Environment: %s (%s)\n", r.Environment, r.Environment.Hostname())
	}
	if r.Topic != "" {
		fmt.Fprintf(&b, "Topic:       %s\n", r.Topic)
	}
	if r.ProjectID != "" {
		fmt.Fprintf(&b, "Project ID:  %s\n", r.ProjectID)
	}
	if r.Event != "" {
		fmt.Fprintf(&b, "Event:       %s\n", r.Event)
	}
	if r.Recipient != "" {
		fmt.Fprintf(&b, "Token:       %s\n", truncateToken(r.Recipient))
	}
	if r.APNsID != "" {
		fmt.Fprintf(&b, "apns-id:     %s\n", r.APNsID)
	}
	if r.APNsUniqueID != "" {
		fmt.Fprintf(&b, "apns-unique-id: %s\n", r.APNsUniqueID)
	}
	fmt.Fprintf(&b, "Timestamp:   %d (Unix seconds)", r.Timestamp)
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncateToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "…"
}
