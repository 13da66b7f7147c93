package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betomoedano/quick-push/pkg/push"
)

func TestBuildFCM(t *testing.T) {
	req := &push.NotificationRequest{
		Title:     "Hello",
		Body:      "World",
		Sound:     "default",
		ChannelID: "general",
		Color:     "FF5500",
		ImageURL:  "https://example.com/a.png",
		Data:      map[string]string{"k": "v"},
	}

	msg := BuildFCM(req, "reg-token-1")
	assert.Equal(t, "reg-token-1", msg.Token)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "Hello", msg.Notification.Title)
	assert.Equal(t, "World", msg.Notification.Body)
	assert.Equal(t, "https://example.com/a.png", msg.Notification.Image)
	require.NotNil(t, msg.Android)
	assert.Equal(t, "HIGH", msg.Android.Priority)
	require.NotNil(t, msg.Android.Notification)
	assert.Equal(t, "general", msg.Android.Notification.ChannelID)
	assert.Equal(t, "#FF5500", msg.Android.Notification.Color, "color gets a leading #")
	assert.Equal(t, map[string]string{"k": "v"}, msg.Data)
}

func TestBuildFCMDataOnly(t *testing.T) {
	req := &push.NotificationRequest{Data: map[string]string{"sync": "now"}}
	msg := BuildFCM(req, "reg-token-1")
	assert.Nil(t, msg.Notification, "no alert content means a data-only message")
	assert.Equal(t, "HIGH", msg.Android.Priority)
}

func TestBuildFCMPriority(t *testing.T) {
	for _, tc := range []struct {
		priority push.Priority
		want     string
	}{
		{push.PriorityDefault, "HIGH"},
		{push.PriorityHigh, "HIGH"},
		{push.PriorityNormal, "NORMAL"},
		{"", "HIGH"},
	} {
		req := &push.NotificationRequest{Title: "x", Priority: tc.priority}
		msg := BuildFCM(req, "tok")
		assert.Equal(t, tc.want, msg.Android.Priority, "priority %q", tc.priority)
	}
}
