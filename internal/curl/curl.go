// Package curl renders equivalent curl commands for each provider send, so
// a composed notification can be replayed or shared outside the tool.
package curl

import (
	"encoding/json"
	"fmt"
	"strings"
)

func prettyJSON(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

// Expo renders the exp.host send as curl.
func Expo(body any, accessToken string) string {
	var b strings.Builder
	b.WriteString("curl -X POST \\\n")
	b.WriteString("  https://exp.host/--/api/v2/push/send \\\n")
	b.WriteString("  -H \"host: exp.host\" \\\n")
	b.WriteString("  -H \"accept: application/json\" \\\n")
	b.WriteString("  -H \"content-type: application/json\" \\\n")
	if accessToken != "" {
		fmt.Fprintf(&b, "  -H \"Authorization: Bearer %s\" \\\n", accessToken)
	}
	fmt.Fprintf(&b, "  -d '%s'", prettyJSON(body))
	return b.String()
}

// APNs renders the device push as curl. The caller supplies a freshly signed
// JWT (or a placeholder when no key is configured).
func APNs(hostname, deviceToken, jwt, topic, pushType string, priority int, body any) string {
	var b strings.Builder
	b.WriteString("# Note: JWT tokens expire after 1 hour.\n")
	b.WriteString("curl --http2 -X POST \\\n")
	fmt.Fprintf(&b, "  https://%s/3/device/%s \\\n", hostname, strings.TrimSpace(deviceToken))
	fmt.Fprintf(&b, "  -H \"authorization: bearer %s\" \\\n", jwt)
	fmt.Fprintf(&b, "  -H \"apns-topic: %s\" \\\n", topic)
	fmt.Fprintf(&b, "  -H \"apns-push-type: %s\" \\\n", pushType)
	fmt.Fprintf(&b, "  -H \"apns-priority: %d\" \\\n", priority)
	b.WriteString("  -H \"content-type: application/json\" \\\n")
	fmt.Fprintf(&b, "  -d '%s'", prettyJSON(body))
	return b.String()
}

// FCM renders the v1 send as curl. The caller supplies a valid OAuth bearer
// token (or a placeholder).
func FCM(projectID, bearer string, body any) string {
	var b strings.Builder
	b.WriteString("# Note: OAuth access tokens expire after 1 hour.\n")
	b.WriteString("curl -X POST \\\n")
	fmt.Fprintf(&b, "  https://fcm.googleapis.com/v1/projects/%s/messages:send \\\n", projectID)
	fmt.Fprintf(&b, "  -H \"Authorization: Bearer %s\" \\\n", bearer)
	b.WriteString("  -H \"Content-Type: application/json\" \\\n")
	fmt.Fprintf(&b, "  -d '%s'", prettyJSON(body))
	return b.String()
}
