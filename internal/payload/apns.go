package payload

import (
	"time"

	"github.com/betomoedano/quick-push/pkg/push"
)

// APNsPushType is the apns-push-type header value.
type APNsPushType string

const (
	APNsPushAlert        APNsPushType = "alert"
	APNsPushBackground   APNsPushType = "background"
	APNsPushLiveActivity APNsPushType = "liveactivity"
)

// BuildAPNsAlert maps the request onto a native APNs payload: the aps
// dictionary with Apple's hyphenated keys, the rich-content image side
// channel, and custom data merged at the top level.
//
// APNs has no native rich-media field, so an image URL is injected as
// body._richContent.image with mutable-content forced on; the receiving
// app's notification service extension reads that convention.
func BuildAPNsAlert(req *push.NotificationRequest, pushType APNsPushType) map[string]any {
	aps := map[string]any{}

	if pushType == APNsPushAlert {
		alert := map[string]any{}
		if req.Title != "" {
			alert["title"] = req.Title
		}
		if req.Subtitle != "" {
			alert["subtitle"] = req.Subtitle
		}
		if req.Body != "" {
			alert["body"] = req.Body
		}
		if len(alert) > 0 {
			aps["alert"] = alert
		}
		if req.Sound != "" {
			aps["sound"] = req.Sound
		}
		if req.InterruptionLevel != "" {
			aps["interruption-level"] = string(req.InterruptionLevel)
		}
	}

	if req.Badge != nil {
		aps["badge"] = *req.Badge
	}
	if req.ContentAvailable {
		aps["content-available"] = 1
	}
	if req.MutableContent || req.ImageURL != "" {
		aps["mutable-content"] = 1
	}
	if req.ThreadID != "" {
		aps["thread-id"] = req.ThreadID
	}
	if req.Category != "" {
		aps["category"] = req.Category
	}

	p := map[string]any{"aps": aps}
	if req.ImageURL != "" {
		p["body"] = map[string]any{
			"_richContent": map[string]string{"image": req.ImageURL},
		}
	}
	for k, v := range req.Data {
		// Custom keys live beside aps; they may not clobber the reserved ones.
		if k == "aps" || k == "body" {
			continue
		}
		p[k] = v
	}
	return p
}

// BuildLiveActivity maps a Live Activity request onto its aps dictionary.
// attributes/attributes-type and the start alert are emitted only for start
// events. End events always carry dismissal-date, defaulting to five seconds
// from now when the request leaves it unset.
func BuildLiveActivity(req *push.LiveActivityRequest) map[string]any {
	aps := map[string]any{
		"timestamp":     req.Timestamp,
		"event":         string(req.Event),
		"content-state": req.ContentState,
	}
	if req.Event == push.LiveActivityStart {
		aps["attributes-type"] = req.AttributesType
		aps["attributes"] = req.Attributes
		if req.Alert != nil {
			aps["alert"] = req.Alert
		}
	}
	if req.Event == push.LiveActivityEnd {
		dismissal := req.DismissalDate
		if dismissal == 0 {
			dismissal = time.Now().Add(5 * time.Second).Unix()
		}
		aps["dismissal-date"] = dismissal
	}
	if req.StaleDate != 0 {
		aps["stale-date"] = req.StaleDate
	}
	if req.RelevanceScore != nil {
		aps["relevance-score"] = *req.RelevanceScore
	}
	return map[string]any{"aps": aps}
}
