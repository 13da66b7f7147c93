package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betomoedano/quick-push/pkg/push"
)

func TestBuildAPNsAlert(t *testing.T) {
	badge := 1
	req := &push.NotificationRequest{
		Title:             "Hello",
		Subtitle:          "From tests",
		Body:              "World",
		Sound:             "default",
		Badge:             &badge,
		Category:          "greeting",
		ThreadID:          "thread-1",
		InterruptionLevel: push.InterruptionActive,
		Data:              map[string]string{"deeplink": "app://home"},
	}

	p := BuildAPNsAlert(req, APNsPushAlert)
	aps := p["aps"].(map[string]any)
	alert := aps["alert"].(map[string]any)

	assert.Equal(t, "Hello", alert["title"])
	assert.Equal(t, "From tests", alert["subtitle"])
	assert.Equal(t, "World", alert["body"])
	assert.Equal(t, "default", aps["sound"])
	assert.Equal(t, 1, aps["badge"])
	assert.Equal(t, "active", aps["interruption-level"])
	assert.Equal(t, "thread-1", aps["thread-id"])
	assert.Equal(t, "greeting", aps["category"])
	assert.Equal(t, "app://home", p["deeplink"], "custom data lives beside aps")
	assert.NotContains(t, aps, "mutable-content")
	assert.NotContains(t, p, "body")
}

func TestBuildAPNsAlertRichContent(t *testing.T) {
	req := &push.NotificationRequest{
		Title:    "Photo",
		ImageURL: "https://example.com/cat.png",
	}

	p := BuildAPNsAlert(req, APNsPushAlert)
	aps := p["aps"].(map[string]any)
	assert.Equal(t, 1, aps["mutable-content"], "an image forces mutable-content")

	body := p["body"].(map[string]any)
	rich := body["_richContent"].(map[string]string)
	assert.Equal(t, "https://example.com/cat.png", rich["image"])
}

func TestBuildAPNsBackground(t *testing.T) {
	req := &push.NotificationRequest{
		Title:            "ignored for background",
		Sound:            "default",
		ContentAvailable: true,
		Data:             map[string]string{"sync": "now"},
	}

	p := BuildAPNsAlert(req, APNsPushBackground)
	aps := p["aps"].(map[string]any)
	assert.Equal(t, 1, aps["content-available"])
	assert.NotContains(t, aps, "alert")
	assert.NotContains(t, aps, "sound")
	assert.Equal(t, "now", p["sync"])
}

func TestBuildAPNsCustomDataCannotClobberReservedKeys(t *testing.T) {
	req := &push.NotificationRequest{
		Title:    "Hi",
		ImageURL: "https://example.com/a.png",
		Data:     map[string]string{"aps": "evil", "body": "evil", "ok": "fine"},
	}

	p := BuildAPNsAlert(req, APNsPushAlert)
	_, isMap := p["aps"].(map[string]any)
	assert.True(t, isMap)
	_, isMap = p["body"].(map[string]any)
	assert.True(t, isMap)
	assert.Equal(t, "fine", p["ok"])
}

func TestBuildLiveActivity(t *testing.T) {
	score := 0.75
	base := push.LiveActivityRequest{
		Event:        push.LiveActivityUpdate,
		ContentState: map[string]any{"progress": 0.5},
		Timestamp:    1700000000,
		StaleDate:    1700003600,
	}

	t.Run("update carries neither attributes nor dismissal", func(t *testing.T) {
		req := base
		req.Attributes = map[string]any{"name": "delivery"}
		req.AttributesType = "DeliveryAttributes"
		req.DismissalDate = 1700007200

		aps := BuildLiveActivity(&req)["aps"].(map[string]any)
		assert.Equal(t, "update", aps["event"])
		assert.Equal(t, int64(1700000000), aps["timestamp"])
		assert.Equal(t, map[string]any{"progress": 0.5}, aps["content-state"])
		assert.Equal(t, int64(1700003600), aps["stale-date"])
		assert.NotContains(t, aps, "attributes")
		assert.NotContains(t, aps, "attributes-type")
		assert.NotContains(t, aps, "alert")
		assert.NotContains(t, aps, "dismissal-date")
	})

	t.Run("start carries attributes and the alert", func(t *testing.T) {
		req := base
		req.Event = push.LiveActivityStart
		req.Attributes = map[string]any{"name": "delivery"}
		req.AttributesType = "DeliveryAttributes"
		req.Alert = &push.LiveActivityAlert{Title: "Delivery started"}
		req.RelevanceScore = &score

		aps := BuildLiveActivity(&req)["aps"].(map[string]any)
		assert.Equal(t, "DeliveryAttributes", aps["attributes-type"])
		assert.Equal(t, map[string]any{"name": "delivery"}, aps["attributes"])
		require.NotNil(t, aps["alert"])
		assert.Equal(t, 0.75, aps["relevance-score"])
	})

	t.Run("end carries the dismissal date", func(t *testing.T) {
		req := base
		req.Event = push.LiveActivityEnd
		req.DismissalDate = 1700007200

		aps := BuildLiveActivity(&req)["aps"].(map[string]any)
		assert.Equal(t, int64(1700007200), aps["dismissal-date"])
		assert.NotContains(t, aps, "attributes")
	})

	t.Run("end without a dismissal date defaults to five seconds out", func(t *testing.T) {
		req := base
		req.Event = push.LiveActivityEnd
		require.NoError(t, req.Validate())

		before := time.Now().Add(5 * time.Second).Unix()
		aps := BuildLiveActivity(&req)["aps"].(map[string]any)
		after := time.Now().Add(5 * time.Second).Unix()

		dismissal, ok := aps["dismissal-date"].(int64)
		require.True(t, ok, "end payloads always include dismissal-date")
		assert.GreaterOrEqual(t, dismissal, before)
		assert.LessOrEqual(t, dismissal, after)
	})
}
