package curl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpo(t *testing.T) {
	out := Expo(map[string]string{"to": "ExponentPushToken[x]"}, "")
	assert.Contains(t, out, "https://exp.host/--/api/v2/push/send")
	assert.Contains(t, out, `"to": "ExponentPushToken[x]"`)
	assert.NotContains(t, out, "Authorization", "no auth header without an access token")

	withToken := Expo(map[string]string{}, "secret")
	assert.Contains(t, withToken, "Authorization: Bearer secret")
}

func TestAPNs(t *testing.T) {
	out := APNs("api.sandbox.push.apple.com", " devtoken ", "jwt-value", "com.example.app", "alert", 10, map[string]any{})
	assert.Contains(t, out, "curl --http2")
	assert.Contains(t, out, "https://api.sandbox.push.apple.com/3/device/devtoken")
	assert.Contains(t, out, "authorization: bearer jwt-value")
	assert.Contains(t, out, "apns-topic: com.example.app")
	assert.Contains(t, out, "apns-priority: 10")
	assert.Contains(t, out, "JWT tokens expire after 1 hour")
}

func TestFCM(t *testing.T) {
	out := FCM("demo-project", "ya29.tok", map[string]any{})
	assert.Contains(t, out, "https://fcm.googleapis.com/v1/projects/demo-project/messages:send")
	assert.Contains(t, out, "Authorization: Bearer ya29.tok")
}
